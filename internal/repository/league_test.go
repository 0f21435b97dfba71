package repository

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"franchise-league/internal/config"
	"franchise-league/internal/database"
	"franchise-league/internal/db"
	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/league"
)

func newTestRepository(t *testing.T, retention int) *LeagueRepository {
	t.Helper()
	cfg := &config.Config{
		DBPath:            filepath.Join(t.TempDir(), "league.db"),
		SnapshotRetention: retention,
	}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return NewLeagueRepository(sqlDB, db.New(sqlDB), cfg, zerolog.Nop())
}

func seededLeague(t *testing.T) domain.GameState {
	t.Helper()
	gs, err := league.New().GenerateSeededLeague(31, league.Options{TeamCount: 6, Name: "Test League"})
	if err != nil {
		t.Fatalf("GenerateSeededLeague: %v", err)
	}
	return gs
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepository(t, 5)
	ctx := context.Background()
	gs := seededLeague(t)

	rec, err := repo.Create(ctx, gs)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Version != 1 {
		t.Errorf("got version %d, want 1", rec.Version)
	}
	if rec.State.Meta.ID == "" {
		t.Fatal("Create did not assign an id")
	}

	got, err := repo.Get(ctx, rec.State.Meta.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(rec.State, got.State); diff != "" {
		t.Errorf("stored state differs (-created +loaded):\n%s", diff)
	}
}

func TestGetMissing(t *testing.T) {
	repo := newTestRepository(t, 5)
	_, err := repo.Get(context.Background(), "nope")
	if apperrors.GetKind(err) != apperrors.KindNotFound {
		t.Fatalf("got %v, want not_found", err)
	}
}

func TestSaveOptimisticVersion(t *testing.T) {
	repo := newTestRepository(t, 5)
	ctx := context.Background()
	rec, err := repo.Create(ctx, seededLeague(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := rec.State.Meta.ID

	next := rec.State
	next.Meta.Name = "Renamed"
	saved, err := repo.Save(ctx, id, rec.Version, next)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Version != 2 {
		t.Errorf("got version %d, want 2", saved.Version)
	}

	_, err = repo.Save(ctx, id, rec.Version, next)
	if apperrors.GetKind(err) != apperrors.KindConflict {
		t.Fatalf("stale save: got %v, want conflict", err)
	}

	_, err = repo.Save(ctx, "missing", 1, next)
	if apperrors.GetKind(err) != apperrors.KindNotFound {
		t.Fatalf("missing save: got %v, want not_found", err)
	}

	summaries, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "Renamed" || summaries[0].Version != 2 {
		t.Errorf("got summaries %+v", summaries)
	}
}

func TestSnapshotRetention(t *testing.T) {
	repo := newTestRepository(t, 3)
	ctx := context.Background()
	rec, err := repo.Create(ctx, seededLeague(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := rec.State.Meta.ID

	for i := 0; i < 5; i++ {
		rec, err = repo.Save(ctx, id, rec.Version, rec.State)
		if err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	snaps, err := repo.Snapshots(ctx, id)
	if err != nil {
		t.Fatalf("Snapshots: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}
	if snaps[0].Version != 6 || snaps[2].Version != 4 {
		t.Errorf("got versions %d..%d, want 6..4", snaps[0].Version, snaps[2].Version)
	}

	if _, err := repo.SnapshotState(ctx, id, 1); apperrors.GetKind(err) != apperrors.KindNotFound {
		t.Errorf("trimmed snapshot: got %v, want not_found", err)
	}
	if _, err := repo.SnapshotState(ctx, id, 5); err != nil {
		t.Errorf("SnapshotState(5): %v", err)
	}
}

func TestDeleteCascades(t *testing.T) {
	repo := newTestRepository(t, 5)
	ctx := context.Background()
	rec, err := repo.Create(ctx, seededLeague(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := rec.State.Meta.ID

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	snaps, err := repo.Snapshots(ctx, id)
	if err != nil {
		t.Fatalf("Snapshots: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("got %d snapshots after delete, want 0", len(snaps))
	}
	if err := repo.Delete(ctx, id); apperrors.GetKind(err) != apperrors.KindNotFound {
		t.Errorf("second delete: got %v, want not_found", err)
	}
}

func TestDecodeUpgradesV1(t *testing.T) {
	gs := seededLeague(t)
	gs.Phase = domain.PhaseRegularSeason
	data, err := encodeState(gs)
	if err != nil {
		t.Fatalf("encodeState: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	delete(raw, "schemaVersion")
	raw["phase"] = "season"
	for _, team := range raw["teams"].([]any) {
		delete(team.(map[string]any), "bowlingPreset")
	}
	v1, err := json.Marshal(raw)
	if err != nil {
		t.Fatal(err)
	}

	got, err := decodeState(v1)
	if err != nil {
		t.Fatalf("decodeState: %v", err)
	}
	if got.Phase != domain.PhaseRegularSeason {
		t.Errorf("got phase %q, want %q", got.Phase, domain.PhaseRegularSeason)
	}
	for _, team := range got.Teams {
		if team.BowlingPreset != domain.PresetBalanced {
			t.Errorf("team %s: got preset %q, want balanced", team.ID, team.BowlingPreset)
		}
	}
}

func TestDecodeRejectsNewerSchema(t *testing.T) {
	if _, err := decodeState([]byte(`{"schemaVersion": 99}`)); err == nil {
		t.Fatal("expected an error for a future schema version")
	}
}
