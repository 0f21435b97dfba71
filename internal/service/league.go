package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"franchise-league/internal/auction"
	"franchise-league/internal/config"
	"franchise-league/internal/constants"
	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/league"
	"franchise-league/internal/policy"
	"franchise-league/internal/repository"
	"franchise-league/internal/season"

	"github.com/rs/zerolog"
)

type LeagueService struct {
	engine *league.Engine
	repo   *repository.LeagueRepository
	cfg    *config.Config
	logger zerolog.Logger
}

func NewLeagueService(engine *league.Engine, repo *repository.LeagueRepository, cfg *config.Config, logger zerolog.Logger) *LeagueService {
	return &LeagueService{engine: engine, repo: repo, cfg: cfg, logger: logger}
}

// CreateRequest describes a new league. A nil Seed picks one from the clock.
// Seeded leagues skip the auction and start in preseason.
type CreateRequest struct {
	Seed    *uint32        `json:"seed,omitempty"`
	Seeded  bool           `json:"seeded,omitempty"`
	Options league.Options `json:"options"`
}

type WindowResult struct {
	League repository.Record    `json:"-"`
	Date   *string              `json:"date"`
	Played []domain.MatchResult `json:"played"`
}

func (s *LeagueService) withConfigDefaults(opts league.Options) league.Options {
	if opts.PolicySet == "" {
		opts.PolicySet = s.cfg.DefaultPolicySet
	}
	if opts.TeamCount == 0 {
		opts.TeamCount = s.cfg.DefaultTeamCount
	}
	if opts.StartDate == "" {
		opts.StartDate = s.cfg.SeasonStartDate
	}
	if opts.TieBreak == "" {
		opts.TieBreak = s.cfg.PlayoffTieBreak
	}
	return opts
}

func (s *LeagueService) CreateLeague(ctx context.Context, req CreateRequest) (repository.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	seed := uint32(time.Now().UnixNano())
	if req.Seed != nil {
		seed = *req.Seed
	}
	opts := s.withConfigDefaults(req.Options)

	s.logger.Info().
		Uint32("seed", seed).
		Bool("seeded", req.Seeded).
		Str("policy_set", opts.PolicySet).
		Int("team_count", opts.TeamCount).
		Msg("creating league")

	var (
		gs  domain.GameState
		err error
	)
	if req.Seeded {
		gs, err = s.engine.GenerateSeededLeague(seed, opts)
	} else {
		gs, err = s.engine.GenerateLeague(seed, opts)
	}
	if err != nil {
		return repository.Record{}, fmt.Errorf("failed to generate league: %w", err)
	}

	rec, err := s.repo.Create(ctx, gs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to store league")
		return repository.Record{}, err
	}

	s.logInfo(rec, "league created")
	return rec, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, id string) (repository.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Get(ctx, id)
}

func (s *LeagueService) ListLeagues(ctx context.Context, limit int) ([]repository.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.List(ctx, limit)
}

func (s *LeagueService) Snapshots(ctx context.Context, id string) ([]repository.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Snapshots(ctx, id)
}

func (s *LeagueService) DeleteLeague(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("league_id", id).Msg("league deleted")
	return nil
}

func (s *LeagueService) ResolvePolicy(policySet string, year policy.YearContext) (domain.ResolvedPolicy, error) {
	if policySet == "" {
		policySet = s.cfg.DefaultPolicySet
	}
	return s.engine.ResolvePolicy(policySet, year)
}

// apply loads a league, runs op on it and stores the result against the
// loaded version.
func (s *LeagueService) apply(ctx context.Context, id, op string, fn func(domain.GameState) (domain.GameState, error)) (repository.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return repository.Record{}, err
	}

	next, err := fn(rec.State)
	if err != nil {
		s.logger.Warn().Err(err).Str("league_id", id).Str("op", op).Msg("operation rejected")
		return repository.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.repo.Save(ctx, id, rec.Version, next)
	if err != nil {
		return repository.Record{}, err
	}

	s.logInfo(saved, op)
	return saved, nil
}

func (s *LeagueService) ProgressAuction(ctx context.Context, id string, action *auction.Action, opts auction.Options) (repository.Record, error) {
	return s.apply(ctx, id, "progress auction", func(gs domain.GameState) (domain.GameState, error) {
		return s.engine.ProgressAuction(gs, action, opts)
	})
}

func (s *LeagueService) SkipToPlayer(ctx context.Context, id, playerID string) (repository.Record, error) {
	return s.apply(ctx, id, "skip to player", func(gs domain.GameState) (domain.GameState, error) {
		return s.engine.SkipToPlayer(gs, playerID)
	})
}

func (s *LeagueService) StartSeason(ctx context.Context, id string) (repository.Record, error) {
	return s.apply(ctx, id, "start season", s.engine.StartSeason)
}

func (s *LeagueService) AdvanceSeason(ctx context.Context, id string) (repository.Record, error) {
	return s.apply(ctx, id, "advance season", s.engine.AdvanceSeason)
}

// NextWindow plays the next scheduled date. A complete season returns a
// nil Date and is not written back.
func (s *LeagueService) NextWindow(ctx context.Context, id string) (WindowResult, error) {
	var window season.Window
	rec, err := s.apply(ctx, id, "simulate next window", func(gs domain.GameState) (domain.GameState, error) {
		w, err := s.engine.SimulateNextScheduledWindow(gs)
		if err != nil {
			return domain.GameState{}, err
		}
		if w.Date == nil {
			return domain.GameState{}, errSeasonComplete
		}
		window = w
		return w.State, nil
	})
	if errors.Is(err, errSeasonComplete) {
		current, err := s.GetLeague(ctx, id)
		if err != nil {
			return WindowResult{}, err
		}
		return WindowResult{League: current, Played: []domain.MatchResult{}}, nil
	}
	if err != nil {
		return WindowResult{}, err
	}
	return WindowResult{League: rec, Date: window.Date, Played: window.Played}, nil
}

var errSeasonComplete = errors.New("season complete")

// Validate lists every invariant violation in the stored league.
func (s *LeagueService) Validate(ctx context.Context, id string) ([]apperrors.Issue, error) {
	rec, err := s.GetLeague(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.engine.Validate(rec.State)
	if err == nil {
		return []apperrors.Issue{}, nil
	}
	var integrity *apperrors.SemanticIntegrityError
	if errors.As(err, &integrity) {
		return integrity.Issues, nil
	}
	return nil, err
}

func (s *LeagueService) logInfo(rec repository.Record, msg string) {
	s.logger.Info().
		Str("league_id", rec.State.Meta.ID).
		Str("phase", string(rec.State.Phase)).
		Int("season", rec.State.Meta.Season).
		Int64("version", rec.Version).
		Msg(msg)
}
