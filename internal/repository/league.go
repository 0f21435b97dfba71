package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"franchise-league/internal/config"
	"franchise-league/internal/constants"
	"franchise-league/internal/db"
	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type LeagueRepository struct {
	queries   *db.Queries
	db        *sql.DB
	logger    zerolog.Logger
	retention int
}

func NewLeagueRepository(sqlDB *sql.DB, queries *db.Queries, cfg *config.Config, logger zerolog.Logger) *LeagueRepository {
	return &LeagueRepository{
		queries:   queries,
		db:        sqlDB,
		logger:    logger,
		retention: cfg.SnapshotRetention,
	}
}

// Record is a stored league with the version a later Save must present.
type Record struct {
	State   domain.GameState
	Version int64
}

type Summary struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Season    int          `json:"season"`
	Phase     domain.Phase `json:"phase"`
	Version   int64        `json:"version"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type Snapshot struct {
	ID        string       `json:"id"`
	Version   int64        `json:"version"`
	Phase     domain.Phase `json:"phase"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Create assigns the league an id and stores it as version 1.
func (r *LeagueRepository) Create(ctx context.Context, gs domain.GameState) (Record, error) {
	id, err := gonanoid.New(constants.LeagueIDLength)
	if err != nil {
		return Record{}, fmt.Errorf("failed to generate league id: %w", err)
	}
	gs.Meta.ID = id

	state, err := encodeState(gs)
	if err != nil {
		return Record{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()
	if err := qtx.CreateLeague(ctx, db.CreateLeagueParams{
		ID:        id,
		Name:      gs.Meta.Name,
		Season:    int64(gs.Meta.Season),
		Phase:     string(gs.Phase),
		Version:   1,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return Record{}, fmt.Errorf("failed to create league: %w", err)
	}
	if err := r.snapshot(ctx, qtx, id, 1, gs.Phase, state, now); err != nil {
		return Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("failed to commit league: %w", err)
	}

	r.logger.Debug().Str("league_id", id).Int64("version", 1).Msg("league created")
	return Record{State: gs, Version: 1}, nil
}

func (r *LeagueRepository) Get(ctx context.Context, id string) (Record, error) {
	row, err := r.queries.GetLeague(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, apperrors.NotFoundf("League %q not found", id)
		}
		return Record{}, fmt.Errorf("failed to get league: %w", err)
	}

	gs, err := decodeState(row.State)
	if err != nil {
		return Record{}, err
	}
	gs.Meta.ID = row.ID
	return Record{State: gs, Version: row.Version}, nil
}

// Save writes gs over the stored league if it is still at expected. It
// appends a snapshot and trims old ones in the same transaction.
func (r *LeagueRepository) Save(ctx context.Context, id string, expected int64, gs domain.GameState) (Record, error) {
	gs.Meta.ID = id
	state, err := encodeState(gs)
	if err != nil {
		return Record{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()
	affected, err := qtx.UpdateLeague(ctx, db.UpdateLeagueParams{
		Name:            gs.Meta.Name,
		Season:          int64(gs.Meta.Season),
		Phase:           string(gs.Phase),
		State:           state,
		UpdatedAt:       now,
		ID:              id,
		ExpectedVersion: expected,
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to update league: %w", err)
	}
	if affected == 0 {
		current, err := qtx.GetLeague(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, apperrors.NotFoundf("League %q not found", id)
		}
		if err != nil {
			return Record{}, fmt.Errorf("failed to get league: %w", err)
		}
		return Record{}, apperrors.Conflictf("League %q was modified concurrently (version %d, expected %d)", id, current.Version, expected)
	}

	version := expected + 1
	if err := r.snapshot(ctx, qtx, id, version, gs.Phase, state, now); err != nil {
		return Record{}, err
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("failed to commit league: %w", err)
	}

	r.logger.Debug().
		Str("league_id", id).
		Int64("version", version).
		Str("phase", string(gs.Phase)).
		Msg("league saved")
	return Record{State: gs, Version: version}, nil
}

func (r *LeagueRepository) snapshot(ctx context.Context, qtx *db.Queries, leagueID string, version int64, phase domain.Phase, state []byte, at time.Time) error {
	id, err := gonanoid.New(constants.SnapshotIDLength)
	if err != nil {
		return fmt.Errorf("failed to generate snapshot id: %w", err)
	}
	if err := qtx.InsertSnapshot(ctx, db.InsertSnapshotParams{
		ID:        id,
		LeagueID:  leagueID,
		Version:   version,
		Phase:     string(phase),
		State:     state,
		CreatedAt: at,
	}); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	if r.retention > 0 {
		if err := qtx.TrimSnapshots(ctx, db.TrimSnapshotsParams{LeagueID: leagueID, Keep: int64(r.retention)}); err != nil {
			return fmt.Errorf("failed to trim snapshots: %w", err)
		}
	}
	return nil
}

func (r *LeagueRepository) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = constants.LeagueListLimit
	}
	rows, err := r.queries.ListLeagues(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}

	out := make([]Summary, len(rows))
	for i, row := range rows {
		out[i] = Summary{
			ID:        row.ID,
			Name:      row.Name,
			Season:    int(row.Season),
			Phase:     domain.Phase(row.Phase),
			Version:   row.Version,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		}
	}
	return out, nil
}

// Snapshots lists the retained history of a league, newest first.
func (r *LeagueRepository) Snapshots(ctx context.Context, id string) ([]Snapshot, error) {
	rows, err := r.queries.ListSnapshots(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	out := make([]Snapshot, len(rows))
	for i, row := range rows {
		out[i] = Snapshot{
			ID:        row.ID,
			Version:   row.Version,
			Phase:     domain.Phase(row.Phase),
			CreatedAt: row.CreatedAt,
		}
	}
	return out, nil
}

// SnapshotState loads the league as it was at version.
func (r *LeagueRepository) SnapshotState(ctx context.Context, id string, version int64) (domain.GameState, error) {
	row, err := r.queries.GetSnapshot(ctx, db.GetSnapshotParams{LeagueID: id, Version: version})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.GameState{}, apperrors.NotFoundf("League %q has no snapshot at version %d", id, version)
		}
		return domain.GameState{}, fmt.Errorf("failed to get snapshot: %w", err)
	}
	gs, err := decodeState(row.State)
	if err != nil {
		return domain.GameState{}, err
	}
	gs.Meta.ID = id
	return gs, nil
}

func (r *LeagueRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteLeague(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete league: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("League %q not found", id)
	}
	r.logger.Debug().Str("league_id", id).Msg("league deleted")
	return nil
}
