package server_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"franchise-league/internal/config"
	"franchise-league/internal/database"
	"franchise-league/internal/db"
	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/league"
	"franchise-league/internal/repository"
	"franchise-league/internal/server"
	"franchise-league/internal/service"
)

// newTestServer wires the full stack over a temp-dir database.
func newTestServer(t *testing.T) *httptest.Server {
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
	ts := httptest.NewServer(server.NewLeagueServer(svc, sqlDB, logger).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v", v, err)
	}
	return v
}

func createLeague(t *testing.T, ts *httptest.Server, body string) server.LeagueResponse {
	t.Helper()
	resp := do(t, ts, http.MethodPost, "/api/leagues", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: got status %d, want 201", resp.StatusCode)
	}
	return decode[server.LeagueResponse](t, resp)
}

func TestCreateAndGetLeague(t *testing.T) {
	ts := newTestServer(t)
	created := createLeague(t, ts, `{"seed": 99, "options": {"teamCount": 4, "name": "Cup"}}`)
	if created.ID == "" || created.Version != 1 {
		t.Fatalf("got id %q version %d", created.ID, created.Version)
	}
	if created.State.Phase != domain.PhaseAuction {
		t.Errorf("got phase %q, want auction", created.State.Phase)
	}

	resp := do(t, ts, http.MethodGet, "/api/leagues/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: got status %d", resp.StatusCode)
	}
	got := decode[server.LeagueResponse](t, resp)
	if got.State.Meta.Name != "Cup" || len(got.State.Teams) != 4 {
		t.Errorf("got name %q with %d teams", got.State.Meta.Name, len(got.State.Teams))
	}

	list := decode[struct {
		Leagues []repository.Summary `json:"leagues"`
	}](t, do(t, ts, http.MethodGet, "/api/leagues", ""))
	if len(list.Leagues) != 1 || list.Leagues[0].ID != created.ID {
		t.Errorf("got leagues %+v", list.Leagues)
	}
}

func TestAuctionProgressAndValidate(t *testing.T) {
	ts := newTestServer(t)
	created := createLeague(t, ts, `{"seed": 7, "options": {"teamCount": 4}}`)

	resp := do(t, ts, http.MethodPost, "/api/leagues/"+created.ID+"/auction/progress", `{"automated": true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("progress: got status %d", resp.StatusCode)
	}
	done := decode[server.LeagueResponse](t, resp)
	if !done.State.Auction.Complete || done.State.Phase != domain.PhaseRegularSeason {
		t.Fatalf("got auction complete=%v phase %q", done.State.Auction.Complete, done.State.Phase)
	}
	if done.Version != 2 {
		t.Errorf("got version %d, want 2", done.Version)
	}

	v := decode[server.ValidateResponse](t, do(t, ts, http.MethodGet, "/api/leagues/"+created.ID+"/validate", ""))
	if !v.Valid || len(v.Issues) != 0 {
		t.Errorf("got valid=%v issues=%v", v.Valid, v.Issues)
	}

	next := decode[server.WindowResponse](t, do(t, ts, http.MethodPost, "/api/leagues/"+created.ID+"/season/next", ""))
	if next.Date == nil || len(next.Played) == 0 {
		t.Fatalf("next window played nothing: %+v", next)
	}
	if next.Date != nil && *next.Date != done.State.Config.SeasonStartDate {
		t.Errorf("got first date %s, want %s", *next.Date, done.State.Config.SeasonStartDate)
	}
}

func TestErrorStatuses(t *testing.T) {
	ts := newTestServer(t)
	created := createLeague(t, ts, `{"seed": 3, "options": {"teamCount": 4}}`)
	base := "/api/leagues/" + created.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		kind   apperrors.Kind
	}{
		{"unknown league", http.MethodGet, "/api/leagues/nope", "", http.StatusNotFound, apperrors.KindNotFound},
		{"unknown policy set", http.MethodPost, "/api/leagues", `{"options": {"policySet": "bogus"}}`, http.StatusBadRequest, apperrors.KindValidation},
		{"malformed body", http.MethodPost, "/api/leagues", `{"seed":`, http.StatusBadRequest, apperrors.KindValidation},
		{"unknown field", http.MethodPost, "/api/leagues", `{"colour": "red"}`, http.StatusBadRequest, apperrors.KindValidation},
		{"unknown action", http.MethodPost, base + "/auction/progress", `{"action": "shout"}`, http.StatusBadRequest, apperrors.KindValidation},
		{"skip without player", http.MethodPost, base + "/auction/skip", `{}`, http.StatusBadRequest, apperrors.KindValidation},
		{"start during auction", http.MethodPost, base + "/season/start", "", http.StatusBadRequest, apperrors.KindValidation},
		{"advance incomplete season", http.MethodPost, base + "/season/advance", "", http.StatusBadRequest, apperrors.KindValidation},
		{"bad year", http.MethodGet, "/api/policies/cyclical?year=soon", "", http.StatusBadRequest, apperrors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, ts, tt.method, tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("got status %d, want %d", resp.StatusCode, tt.status)
			}
			body := decode[struct {
				Error struct {
					Kind    apperrors.Kind `json:"kind"`
					Message string         `json:"message"`
				} `json:"error"`
			}](t, resp)
			if body.Error.Kind != tt.kind {
				t.Errorf("got kind %q, want %q", body.Error.Kind, tt.kind)
			}
			if body.Error.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestAdvanceIncompleteMessage(t *testing.T) {
	ts := newTestServer(t)
	created := createLeague(t, ts, `{"seed": 3, "seeded": true, "options": {"teamCount": 6}}`)
	resp := do(t, ts, http.MethodPost, "/api/leagues/"+created.ID+"/season/advance", "")
	body := decode[struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}](t, resp)
	if body.Error.Message != "Season is not complete" {
		t.Errorf("got message %q, want %q", body.Error.Message, "Season is not complete")
	}
}

func TestResolvePolicy(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodGet, "/api/policies/cyclical?year=2025", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d", resp.StatusCode)
	}
	got := decode[domain.ResolvedPolicy](t, resp)
	if got.SeasonYear != 2025 || got.AuctionType != "mega" {
		t.Errorf("got year %d type %q, want 2025 mega", got.SeasonYear, got.AuctionType)
	}
}

func TestSimulateStream(t *testing.T) {
	ts := newTestServer(t)
	created := createLeague(t, ts, `{"seed": 21, "seeded": true, "options": {"teamCount": 6}}`)
	base := "/api/leagues/" + created.ID

	if resp := do(t, ts, http.MethodPost, base+"/season/start", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("start: got status %d", resp.StatusCode)
	}

	resp := do(t, ts, http.MethodPost, base+"/season/simulate", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("simulate: got status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("got content type %q", ct)
	}

	var events []server.StreamEvent
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		var ev server.StreamEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("bad line %q: %v", scanner.Text(), err)
		}
		events = append(events, ev)
	}
	if len(events) < 2 {
		t.Fatalf("got %d events", len(events))
	}

	last := events[len(events)-1]
	if last.Type != server.EventResult || last.Result == nil {
		t.Fatalf("last event is %+v, want a result", last)
	}
	if last.Result.Phase != domain.PhaseComplete || last.Result.ChampionTeamID == "" {
		t.Errorf("got phase %q champion %q", last.Result.Phase, last.Result.ChampionTeamID)
	}
	if got := len(events) - 1; got != last.Result.Dates {
		t.Errorf("got %d checkpoints for %d dates", got, last.Result.Dates)
	}
	for i, ev := range events[:len(events)-1] {
		if ev.Type != server.EventCheckpoint || ev.Checkpoint == nil || ev.Checkpoint.Dates != i+1 {
			t.Fatalf("event %d: %+v", i, ev)
		}
	}

	stored := decode[server.LeagueResponse](t, do(t, ts, http.MethodGet, base, ""))
	if stored.Version != last.Result.Version || stored.State.Phase != domain.PhaseComplete {
		t.Errorf("stored version %d phase %q, stream said %d", stored.Version, stored.State.Phase, last.Result.Version)
	}

	again := do(t, ts, http.MethodPost, base+"/season/next", "")
	w := decode[server.WindowResponse](t, again)
	if w.Date != nil {
		t.Errorf("complete season still played %s", *w.Date)
	}

	advanced := do(t, ts, http.MethodPost, base+"/season/advance", "")
	if advanced.StatusCode != http.StatusOK {
		t.Fatalf("advance: got status %d", advanced.StatusCode)
	}
	next := decode[server.LeagueResponse](t, advanced)
	if next.State.Phase != domain.PhasePreseason || next.State.Meta.Season != 2 {
		t.Errorf("got phase %q season %d", next.State.Phase, next.State.Meta.Season)
	}

	snaps := decode[struct {
		Snapshots []repository.Snapshot `json:"snapshots"`
	}](t, do(t, ts, http.MethodGet, base+"/snapshots", ""))
	if len(snaps.Snapshots) != 4 {
		t.Errorf("got %d snapshots, want 4", len(snaps.Snapshots))
	}
}

func TestDeleteLeague(t *testing.T) {
	ts := newTestServer(t)
	created := createLeague(t, ts, `{"seed": 5, "options": {"teamCount": 4}}`)
	if resp := do(t, ts, http.MethodDelete, "/api/leagues/"+created.ID, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: got status %d", resp.StatusCode)
	}
	if resp := do(t, ts, http.MethodGet, "/api/leagues/"+created.ID, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: got status %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got status %d", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.Validation("bad"), http.StatusBadRequest},
		{apperrors.InvalidRange("range"), http.StatusBadRequest},
		{apperrors.EmptyInput("empty"), http.StatusBadRequest},
		{&apperrors.SemanticIntegrityError{Issues: []apperrors.Issue{{Code: "x"}}}, http.StatusUnprocessableEntity},
		{apperrors.NotFoundf("league %q", "a"), http.StatusNotFound},
		{apperrors.Conflictf("stale"), http.StatusConflict},
		{fmt.Errorf("wrapped: %w", apperrors.Conflictf("stale")), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := server.StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
