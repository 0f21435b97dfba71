// Package league is the transactional entry point to the simulation core.
// Every mutating call works on a private copy, validates the candidate and
// only then hands it back, so a failed call leaves the caller's state as it
// was.
package league

import (
	"context"
	"fmt"
	"time"

	"franchise-league/internal/auction"
	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/generator"
	"franchise-league/internal/policy"
	"franchise-league/internal/season"
	"franchise-league/internal/validate"
)

const (
	DefaultTeamCount = 10
	DefaultStartDate = "2025-03-22"
	DefaultName      = "Franchise League"
)

// Options describes a league to generate. Zero values fall back to the
// defaults above.
type Options struct {
	Name      string             `json:"name,omitempty"`
	PolicySet string             `json:"policySet,omitempty"`
	Year      policy.YearContext `json:"year"`
	TeamCount int                `json:"teamCount,omitempty"`
	StartDate string             `json:"startDate,omitempty"`
	TieBreak  domain.TieBreak    `json:"tieBreak,omitempty"`
	// UserTeam is the zero-based index of the team the user controls.
	UserTeam int `json:"userTeam,omitempty"`
}

// Engine exposes the core operations. Clock is only used for timestamps.
type Engine struct {
	Clock func() time.Time
}

func New() *Engine {
	return &Engine{Clock: func() time.Time { return time.Now().UTC() }}
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now().UTC()
	}
	return e.Clock()
}

// commit stamps and validates a candidate state.
func (e *Engine) commit(candidate domain.GameState) (domain.GameState, error) {
	candidate.Meta.UpdatedAt = e.now()
	if err := validate.State(&candidate); err != nil {
		return domain.GameState{}, err
	}
	return candidate, nil
}

func (e *Engine) ResolvePolicy(policySet string, ctx policy.YearContext) (domain.ResolvedPolicy, error) {
	return policy.Resolve(policySet, ctx)
}

func (o Options) withDefaults() (Options, error) {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.TeamCount == 0 {
		o.TeamCount = DefaultTeamCount
	}
	if o.StartDate == "" {
		o.StartDate = DefaultStartDate
	}
	if o.TieBreak == "" {
		o.TieBreak = domain.TieBreakHomeTeam
	}
	if o.TieBreak != domain.TieBreakHomeTeam && o.TieBreak != domain.TieBreakHigherSeed {
		return o, apperrors.Validationf("Unknown playoff tie-break %q", o.TieBreak)
	}
	if _, err := time.Parse(domain.DateLayout, o.StartDate); err != nil {
		return o, apperrors.Validationf("Invalid season start date %q", o.StartDate)
	}
	if o.UserTeam < 0 || o.UserTeam >= o.TeamCount {
		return o, apperrors.Validationf("User team %d is outside the league", o.UserTeam)
	}
	return o, nil
}

func (e *Engine) base(seed uint32, opts Options) (domain.GameState, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return domain.GameState{}, err
	}
	resolved, err := policy.Resolve(opts.PolicySet, opts.Year)
	if err != nil {
		return domain.GameState{}, err
	}
	cfg := policy.Config(resolved, opts.TeamCount, seed, opts.StartDate, opts.TieBreak)
	teams, err := generator.GenerateTeams(cfg)
	if err != nil {
		return domain.GameState{}, apperrors.Validationf("Cannot generate teams: %v", err)
	}
	players := generator.GeneratePlayers(cfg, resolved.Policy)

	now := e.now()
	return domain.GameState{
		Meta:       domain.Metadata{Name: opts.Name, Season: 1, CreatedAt: now, UpdatedAt: now},
		Config:     cfg,
		Policy:     resolved,
		UserTeamID: teams[opts.UserTeam].ID,
		Teams:      teams,
		Players:    players,
		Fixtures:   []domain.MatchResult{},
		Stats:      map[string]domain.StatLine{},
	}, nil
}

// GenerateLeague builds an auction-ready league.
func (e *Engine) GenerateLeague(seed uint32, opts Options) (domain.GameState, error) {
	gs, err := e.base(seed, opts)
	if err != nil {
		return domain.GameState{}, err
	}
	gs.Phase = domain.PhaseAuction
	gs.Auction = domain.AuctionState{
		Stage:         domain.StageAwaitingOpen,
		PassedTeamIDs: []string{},
		Entries:       generator.OrderPlayersForAuction(gs.Players),
		Message:       "Auction ready",
	}
	return e.commit(gs)
}

// GenerateSeededLeague builds a league whose rosters are dealt directly,
// skipping the auction. It starts in preseason.
func (e *Engine) GenerateSeededLeague(seed uint32, opts Options) (domain.GameState, error) {
	gs, err := e.base(seed, opts)
	if err != nil {
		return domain.GameState{}, err
	}
	generator.AssignRosters(gs.Config, gs.Policy.Policy, gs.Teams, gs.Players)
	gs.Phase = domain.PhasePreseason
	gs.Auction = domain.AuctionState{
		Stage:         domain.StageComplete,
		PassedTeamIDs: []string{},
		Entries:       []domain.AuctionEntry{},
		Complete:      true,
		Message:       "Rosters assigned without an auction",
	}
	return e.commit(gs)
}

func (e *Engine) ProgressAuction(gs domain.GameState, action *auction.Action, opts auction.Options) (domain.GameState, error) {
	next, err := auction.Progress(gs, action, opts)
	if err != nil {
		return domain.GameState{}, err
	}
	return e.commit(next)
}

func (e *Engine) SkipToPlayer(gs domain.GameState, playerID string) (domain.GameState, error) {
	next, err := auction.SkipToPlayer(gs, playerID)
	if err != nil {
		return domain.GameState{}, err
	}
	return e.commit(next)
}

func (e *Engine) StartSeason(gs domain.GameState) (domain.GameState, error) {
	next, err := season.StartSeason(gs)
	if err != nil {
		return domain.GameState{}, err
	}
	return e.commit(next)
}

func (e *Engine) SimulateNextScheduledWindow(gs domain.GameState) (season.Window, error) {
	w, err := season.SimulateNextScheduledWindow(gs)
	if err != nil {
		return season.Window{}, err
	}
	if w.State, err = e.commit(w.State); err != nil {
		return season.Window{}, err
	}
	return w, nil
}

// SimulateRemaining plays out the season, validating after every date. On
// cancellation the last fully simulated state is returned with Cancelled set.
func (e *Engine) SimulateRemaining(ctx context.Context, gs domain.GameState, onCheckpoint func(season.Checkpoint)) (season.Run, error) {
	run, err := season.SimulateRemaining(ctx, gs, func(candidate domain.GameState) error {
		return validate.State(&candidate)
	}, onCheckpoint)
	if err != nil {
		return season.Run{}, fmt.Errorf("simulate remaining: %w", err)
	}
	run.State.Meta.UpdatedAt = e.now()
	return run, nil
}

func (e *Engine) AdvanceSeason(gs domain.GameState) (domain.GameState, error) {
	next, err := season.AdvanceSeason(gs)
	if err != nil {
		return domain.GameState{}, err
	}
	return e.commit(next)
}

// Validate reports every invariant violation in gs. A nil error means the
// state is sound.
func (e *Engine) Validate(gs domain.GameState) error {
	return validate.State(&gs)
}
