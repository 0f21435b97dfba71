package league

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"franchise-league/internal/auction"
	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/season"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return &Engine{Clock: func() time.Time { return fixedNow }}
}

func TestScenarioGenerateAndValidate(t *testing.T) {
	e := testEngine()
	gs, err := e.GenerateLeague(99, Options{})
	if err != nil {
		t.Fatalf("GenerateLeague returned error: %v", err)
	}
	if err := e.Validate(gs); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if gs.Phase != domain.PhaseAuction {
		t.Errorf("phase = %s, want auction", gs.Phase)
	}
	if got, want := len(gs.Auction.Entries), DefaultTeamCount*gs.Config.MaxSquadSize; got != want {
		t.Errorf("entries = %d, want %d", got, want)
	}
	if !gs.Meta.CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v, want %v", gs.Meta.CreatedAt, fixedNow)
	}
}

func TestGenerateLeagueDeterministic(t *testing.T) {
	e := testEngine()
	a, err := e.GenerateLeague(424242, Options{TeamCount: 8})
	if err != nil {
		t.Fatalf("GenerateLeague returned error: %v", err)
	}
	b, _ := e.GenerateLeague(424242, Options{TeamCount: 8})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different leagues (-first +second):\n%s", diff)
	}
}

func TestGenerateLeagueRejectsOptions(t *testing.T) {
	e := testEngine()
	tcs := []struct {
		name string
		opts Options
	}{
		{"unknown policy set", Options{PolicySet: "bogus"}},
		{"bad tie-break", Options{TieBreak: "coin-toss"}},
		{"bad start date", Options{StartDate: "soon"}},
		{"user team out of range", Options{TeamCount: 4, UserTeam: 4}},
		{"too many teams", Options{TeamCount: 40}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.GenerateLeague(1, tc.opts); !apperrors.IsValidation(err) {
				t.Fatalf("GenerateLeague error = %v, want validation error", err)
			}
		})
	}
}

func TestScenarioSkipToPlayer(t *testing.T) {
	e := testEngine()
	gs, err := e.GenerateLeague(1501, Options{})
	if err != nil {
		t.Fatalf("GenerateLeague returned error: %v", err)
	}

	var pending []string
	for _, entry := range gs.Auction.Entries {
		if entry.Status == domain.EntryPending {
			pending = append(pending, entry.PlayerID)
		}
	}
	target := pending[5]

	skipped, err := e.SkipToPlayer(gs, target)
	if err != nil {
		t.Fatalf("SkipToPlayer returned error: %v", err)
	}
	if skipped.Auction.CurrentPlayerID != target {
		t.Fatalf("currentPlayerId = %s, want %s", skipped.Auction.CurrentPlayerID, target)
	}
	if !skipped.Auction.AwaitingUserAction {
		t.Fatal("awaitingUserAction = false, want true")
	}

	bid, err := e.ProgressAuction(skipped, &auction.Action{Kind: auction.ActionBid}, auction.Options{})
	if err != nil {
		t.Fatalf("ProgressAuction(bid) returned error: %v", err)
	}
	cur := bid
	for i := 0; i < 50 && entryStatus(cur, target) == domain.EntryPending; i++ {
		cur, err = e.ProgressAuction(cur, &auction.Action{Kind: auction.ActionPass}, auction.Options{})
		if err != nil {
			t.Fatalf("ProgressAuction(pass) returned error: %v", err)
		}
	}
	if got := entryStatus(cur, target); got != domain.EntrySold {
		t.Fatalf("target status = %s, want sold", got)
	}

	_, err = e.SkipToPlayer(cur, target)
	if !apperrors.IsValidation(err) {
		t.Fatalf("second skip error = %v, want validation error", err)
	}
	if got := apperrors.Message(err); got != "Player is no longer available in the auction queue" {
		t.Fatalf("second skip message = %q", got)
	}
}

func entryStatus(gs domain.GameState, playerID string) domain.EntryStatus {
	for _, e := range gs.Auction.Entries {
		if e.PlayerID == playerID {
			return e.Status
		}
	}
	return ""
}

func TestScenarioFullSeason(t *testing.T) {
	e := testEngine()
	gs, err := e.GenerateLeague(8080, Options{})
	if err != nil {
		t.Fatalf("GenerateLeague returned error: %v", err)
	}
	cur, err := e.ProgressAuction(gs, nil, auction.Options{Automated: true})
	if err != nil {
		t.Fatalf("ProgressAuction returned error: %v", err)
	}
	if cur.Phase != domain.PhaseRegularSeason {
		t.Fatalf("phase after auction = %s, want regular-season", cur.Phase)
	}

	iterations := 0
	for cur.Phase != domain.PhaseComplete {
		if iterations >= 400 {
			t.Fatalf("season unfinished after %d windows", iterations)
		}
		w, err := e.SimulateNextScheduledWindow(cur)
		if err != nil {
			t.Fatalf("window %d: %v", iterations, err)
		}
		cur = w.State
		iterations++
	}
	for _, m := range cur.Fixtures {
		if !m.Played {
			t.Errorf("fixture %s unplayed", m.ID)
		}
	}
	if cur.ChampionTeamID == "" {
		t.Error("no champion crowned")
	}

	w, err := e.SimulateNextScheduledWindow(cur)
	if err != nil {
		t.Fatalf("window after completion returned error: %v", err)
	}
	if w.Date != nil {
		t.Errorf("date after completion = %s, want nil", *w.Date)
	}
}

func TestScenarioStartSeasonPhase(t *testing.T) {
	e := testEngine()
	gs, err := e.GenerateLeague(5, Options{TeamCount: 4})
	if err != nil {
		t.Fatalf("GenerateLeague returned error: %v", err)
	}
	for _, phase := range []domain.Phase{domain.PhaseAuction, domain.PhaseRegularSeason, domain.PhasePlayoffs, domain.PhaseComplete} {
		gs.Phase = phase
		_, err := e.StartSeason(gs)
		if !apperrors.IsValidation(err) {
			t.Fatalf("%s: StartSeason error = %v, want validation error", phase, err)
		}
		if got := apperrors.Message(err); got != "Season can only be started from preseason" {
			t.Fatalf("%s: message = %q", phase, got)
		}
	}
}

func TestSeededLeagueSeasonAndRollover(t *testing.T) {
	e := testEngine()
	gs, err := e.GenerateSeededLeague(77, Options{TeamCount: 6, TieBreak: domain.TieBreakHigherSeed})
	if err != nil {
		t.Fatalf("GenerateSeededLeague returned error: %v", err)
	}
	if gs.Phase != domain.PhasePreseason {
		t.Fatalf("phase = %s, want preseason", gs.Phase)
	}
	if _, err := e.AdvanceSeason(gs); apperrors.Message(err) != "Season is not complete" {
		t.Fatalf("AdvanceSeason on preseason = %v", err)
	}

	started, err := e.StartSeason(gs)
	if err != nil {
		t.Fatalf("StartSeason returned error: %v", err)
	}
	var checkpoints []season.Checkpoint
	run, err := e.SimulateRemaining(context.Background(), started, func(c season.Checkpoint) {
		checkpoints = append(checkpoints, c)
	})
	if err != nil {
		t.Fatalf("SimulateRemaining returned error: %v", err)
	}
	if run.State.Phase != domain.PhaseComplete || run.Cancelled {
		t.Fatalf("phase = %s cancelled = %v", run.State.Phase, run.Cancelled)
	}
	last := checkpoints[len(checkpoints)-1]
	if last.Completed != last.Total {
		t.Errorf("last checkpoint %d/%d", last.Completed, last.Total)
	}

	next, err := e.AdvanceSeason(run.State)
	if err != nil {
		t.Fatalf("AdvanceSeason returned error: %v", err)
	}
	if next.Meta.Season != 2 || next.Phase != domain.PhasePreseason {
		t.Errorf("season = %d phase = %s, want 2 preseason", next.Meta.Season, next.Phase)
	}
	if next.Config.SeasonSeed == gs.Config.SeasonSeed {
		t.Error("season seed was not rolled")
	}
}

func TestFailedOperationLeavesStateUntouched(t *testing.T) {
	e := testEngine()
	gs, err := e.GenerateLeague(12, Options{TeamCount: 4})
	if err != nil {
		t.Fatalf("GenerateLeague returned error: %v", err)
	}
	gs.Teams[0].BudgetRemaining = -5
	before := gs.Clone()
	if _, err := e.ProgressAuction(gs, nil, auction.Options{Automated: true, MaxLots: 1}); apperrors.GetKind(err) != apperrors.KindSemanticIntegrity {
		t.Fatalf("ProgressAuction error = %v, want semantic integrity failure", err)
	}
	if diff := cmp.Diff(before, gs); diff != "" {
		t.Fatalf("failed call mutated its input (-before +after):\n%s", diff)
	}
}
