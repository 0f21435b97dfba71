package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"franchise-league/internal/auction"
	"franchise-league/internal/config"
	"franchise-league/internal/database"
	"franchise-league/internal/db"
	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/league"
	"franchise-league/internal/middleware"
	"franchise-league/internal/repository"
	"franchise-league/internal/server"
	"franchise-league/internal/service"
)

func newTestClient(t *testing.T) *LeagueClient {
	t.Helper()
	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	cfg.DBPath = filepath.Join(t.TempDir(), "league.db")

	logger := zerolog.Nop()
	sqlDB, err := database.New(cfg, logger)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	repo := repository.NewLeagueRepository(sqlDB, db.New(sqlDB), cfg, logger)
	svc := service.NewLeagueService(league.New(), repo, cfg, logger)
	routes := server.NewLeagueServer(svc, sqlDB, logger).Routes()
	ts := httptest.NewServer(middleware.RequestID(logger)(middleware.Recover(routes)))
	t.Cleanup(ts.Close)
	return NewLeagueClient(ts.URL + "/")
}

func TestClientLeagueLifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Health(ctx); err != nil {
		t.Fatalf("Health: %v", err)
	}

	seed := uint32(44)
	created, err := client.CreateLeague(ctx, service.CreateRequest{Seed: &seed, Options: league.Options{TeamCount: 4}})
	if err != nil {
		t.Fatalf("CreateLeague: %v", err)
	}

	kind := auction.ActionAuto
	progressed, err := client.ProgressAuction(ctx, created.ID, server.ProgressRequest{Action: &kind, Automated: true})
	if err != nil {
		t.Fatalf("ProgressAuction: %v", err)
	}
	if progressed.State.Phase != domain.PhaseRegularSeason {
		t.Fatalf("got phase %q after auction", progressed.State.Phase)
	}

	w, err := client.NextWindow(ctx, created.ID)
	if err != nil {
		t.Fatalf("NextWindow: %v", err)
	}
	if w.Date == nil || len(w.Played) != 2 {
		t.Fatalf("got date %v with %d matches, want 2", w.Date, len(w.Played))
	}

	checkpoints := 0
	res, err := client.SimulateSeason(ctx, created.ID, func(ev server.StreamEvent) {
		if ev.Type == server.EventCheckpoint {
			checkpoints++
		}
	})
	if err != nil {
		t.Fatalf("SimulateSeason: %v", err)
	}
	if res.Phase != domain.PhaseComplete || res.ChampionTeamID == "" {
		t.Errorf("got phase %q champion %q", res.Phase, res.ChampionTeamID)
	}
	if checkpoints != res.Dates {
		t.Errorf("got %d checkpoints for %d dates", checkpoints, res.Dates)
	}

	v, err := client.Validate(ctx, created.ID)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !v.Valid {
		t.Errorf("completed league has issues: %v", v.Issues)
	}

	leagues, err := client.ListLeagues(ctx)
	if err != nil {
		t.Fatalf("ListLeagues: %v", err)
	}
	if len(leagues) != 1 || leagues[0].Phase != domain.PhaseComplete {
		t.Errorf("got leagues %+v", leagues)
	}

	next, err := client.AdvanceSeason(ctx, created.ID)
	if err != nil {
		t.Fatalf("AdvanceSeason: %v", err)
	}
	if next.State.Meta.Season != 2 {
		t.Errorf("got season %d, want 2", next.State.Meta.Season)
	}
	if _, err := client.StartSeason(ctx, created.ID); err != nil {
		t.Fatalf("StartSeason: %v", err)
	}
}

func TestClientErrors(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.GetLeague(ctx, "missing")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T, want *Error", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Kind != apperrors.KindNotFound {
		t.Errorf("got status %d kind %q", apiErr.Status, apiErr.Kind)
	}

	_, err = client.CreateLeague(ctx, service.CreateRequest{Options: league.Options{PolicySet: "bogus"}})
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("got %v, want a 400", err)
	}

	seed := uint32(2)
	created, err := client.CreateLeague(ctx, service.CreateRequest{Seed: &seed, Options: league.Options{TeamCount: 4}})
	if err != nil {
		t.Fatalf("CreateLeague: %v", err)
	}
	_, err = client.SkipToPlayer(ctx, created.ID, "p-9999")
	if !errors.As(err, &apiErr) || apiErr.Kind != apperrors.KindValidation {
		t.Fatalf("got %v, want a validation error", err)
	}
}
