package db

import (
	"context"
	"time"
)

const insertSnapshot = `-- name: InsertSnapshot :exec
INSERT INTO league_snapshots (id, league_id, version, phase, state, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertSnapshotParams struct {
	ID        string
	LeagueID  string
	Version   int64
	Phase     string
	State     []byte
	CreatedAt time.Time
}

func (q *Queries) InsertSnapshot(ctx context.Context, arg InsertSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, insertSnapshot,
		arg.ID,
		arg.LeagueID,
		arg.Version,
		arg.Phase,
		arg.State,
		arg.CreatedAt,
	)
	return err
}

const trimSnapshots = `-- name: TrimSnapshots :exec
DELETE FROM league_snapshots
WHERE league_id = ?
  AND id NOT IN (
    SELECT id FROM league_snapshots
    WHERE league_id = ?
    ORDER BY version DESC
    LIMIT ?
  )
`

type TrimSnapshotsParams struct {
	LeagueID string
	Keep     int64
}

func (q *Queries) TrimSnapshots(ctx context.Context, arg TrimSnapshotsParams) error {
	_, err := q.db.ExecContext(ctx, trimSnapshots, arg.LeagueID, arg.LeagueID, arg.Keep)
	return err
}

const listSnapshots = `-- name: ListSnapshots :many
SELECT id, league_id, version, phase, state, created_at
FROM league_snapshots
WHERE league_id = ?
ORDER BY version DESC
`

func (q *Queries) ListSnapshots(ctx context.Context, leagueID string) ([]LeagueSnapshot, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshots, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LeagueSnapshot
	for rows.Next() {
		var i LeagueSnapshot
		if err := rows.Scan(
			&i.ID,
			&i.LeagueID,
			&i.Version,
			&i.Phase,
			&i.State,
			&i.CreatedAt,
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

const getSnapshot = `-- name: GetSnapshot :one
SELECT id, league_id, version, phase, state, created_at
FROM league_snapshots
WHERE league_id = ? AND version = ?
`

type GetSnapshotParams struct {
	LeagueID string
	Version  int64
}

func (q *Queries) GetSnapshot(ctx context.Context, arg GetSnapshotParams) (LeagueSnapshot, error) {
	row := q.db.QueryRowContext(ctx, getSnapshot, arg.LeagueID, arg.Version)
	var i LeagueSnapshot
	err := row.Scan(
		&i.ID,
		&i.LeagueID,
		&i.Version,
		&i.Phase,
		&i.State,
		&i.CreatedAt,
	)
	return i, err
}
