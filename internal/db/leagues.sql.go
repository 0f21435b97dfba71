package db

import (
	"context"
	"time"
)

const createLeague = `-- name: CreateLeague :exec
INSERT INTO leagues (id, name, season, phase, version, state, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateLeagueParams struct {
	ID        string
	Name      string
	Season    int64
	Phase     string
	Version   int64
	State     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateLeague(ctx context.Context, arg CreateLeagueParams) error {
	_, err := q.db.ExecContext(ctx, createLeague,
		arg.ID,
		arg.Name,
		arg.Season,
		arg.Phase,
		arg.Version,
		arg.State,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getLeague = `-- name: GetLeague :one
SELECT id, name, season, phase, version, state, created_at, updated_at
FROM leagues
WHERE id = ?
`

func (q *Queries) GetLeague(ctx context.Context, id string) (League, error) {
	row := q.db.QueryRowContext(ctx, getLeague, id)
	var i League
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Season,
		&i.Phase,
		&i.Version,
		&i.State,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listLeagues = `-- name: ListLeagues :many
SELECT id, name, season, phase, version, created_at, updated_at
FROM leagues
ORDER BY updated_at DESC, id
LIMIT ?
`

type ListLeaguesRow struct {
	ID        string
	Name      string
	Season    int64
	Phase     string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) ListLeagues(ctx context.Context, limit int64) ([]ListLeaguesRow, error) {
	rows, err := q.db.QueryContext(ctx, listLeagues, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListLeaguesRow
	for rows.Next() {
		var i ListLeaguesRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Season,
			&i.Phase,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateLeague = `-- name: UpdateLeague :execrows
UPDATE leagues
SET name = ?, season = ?, phase = ?, state = ?, updated_at = ?, version = version + 1
WHERE id = ? AND version = ?
`

type UpdateLeagueParams struct {
	Name            string
	Season          int64
	Phase           string
	State           []byte
	UpdatedAt       time.Time
	ID              string
	ExpectedVersion int64
}

func (q *Queries) UpdateLeague(ctx context.Context, arg UpdateLeagueParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateLeague,
		arg.Name,
		arg.Season,
		arg.Phase,
		arg.State,
		arg.UpdatedAt,
		arg.ID,
		arg.ExpectedVersion,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteLeague = `-- name: DeleteLeague :execrows
DELETE FROM leagues WHERE id = ?
`

func (q *Queries) DeleteLeague(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteLeague, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
