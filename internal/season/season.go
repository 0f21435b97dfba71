package season

import (
	"context"
	"slices"

	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/match"
)

var (
	errStartPhase  = apperrors.Validation("Season can only be started from preseason")
	errNotStarted  = apperrors.Validation("Season has not started")
	errNotComplete = apperrors.Validation("Season is not complete")
)

// Window is the outcome of simulating one scheduled date. Date is nil once
// the season is complete.
type Window struct {
	State  domain.GameState
	Played []domain.MatchResult
	Date   *string
}

// StartSeason moves a preseason league into its regular season, scheduling
// fixtures if none exist yet.
func StartSeason(gs domain.GameState) (domain.GameState, error) {
	if gs.Phase != domain.PhasePreseason {
		return domain.GameState{}, errStartPhase
	}
	next := gs.Clone()
	resetStandings(&next)
	if len(next.Fixtures) == 0 {
		fixtures, err := Schedule(next.Teams, next.Config.SeasonStartDate)
		if err != nil {
			return domain.GameState{}, err
		}
		next.Fixtures = fixtures
	}
	if next.Stats == nil {
		next.Stats = map[string]domain.StatLine{}
	}
	next.ChampionTeamID = ""
	next.Phase = domain.PhaseRegularSeason
	return next, nil
}

func nextDate(fixtures []domain.MatchResult) (string, bool) {
	var date string
	found := false
	for _, m := range fixtures {
		if !m.Played && (!found || m.Date < date) {
			date, found = m.Date, true
		}
	}
	return date, found
}

// SimulateNextScheduledWindow plays every unplayed fixture on the earliest
// pending date, then updates standings, stats and the playoff bracket.
func SimulateNextScheduledWindow(gs domain.GameState) (Window, error) {
	switch gs.Phase {
	case domain.PhaseRegularSeason, domain.PhasePlayoffs:
	case domain.PhaseComplete:
		return Window{State: gs.Clone()}, nil
	default:
		return Window{}, errNotStarted
	}

	next := gs.Clone()
	if next.Stats == nil {
		next.Stats = map[string]domain.StatLine{}
	}
	date, ok := nextDate(next.Fixtures)
	if !ok {
		if err := advanceBracket(&next); err != nil {
			return Window{}, err
		}
		if date, ok = nextDate(next.Fixtures); !ok {
			return Window{State: next}, nil
		}
	}

	var played []domain.MatchResult
	for i := range next.Fixtures {
		m := &next.Fixtures[i]
		if m.Played || m.Date != date {
			continue
		}
		result, err := match.Simulate(&next, *m)
		if err != nil {
			return Window{}, err
		}
		if result.Stage.IsPlayoff() && result.WinnerTeamID == "" {
			breakTie(&next, &result)
		}
		*m = result
		applyStandings(&next, result)
		recordStats(next.Stats, result)
		played = append(played, result)
	}

	if err := advanceBracket(&next); err != nil {
		return Window{}, err
	}
	return Window{State: next, Played: played, Date: &date}, nil
}

// Checkpoint reports progress after each simulated date.
type Checkpoint struct {
	Date      string       `json:"date"`
	Phase     domain.Phase `json:"phase"`
	Dates     int          `json:"dates"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
}

// Run is the result of SimulateRemaining.
type Run struct {
	State     domain.GameState
	Cancelled bool
	Dates     int
}

// SimulateRemaining plays dates until the season is complete. ctx is checked
// between dates only, so a cancelled run still returns a fully simulated
// state. check, when set, vets every window before it is accepted.
func SimulateRemaining(ctx context.Context, gs domain.GameState, check func(domain.GameState) error, onCheckpoint func(Checkpoint)) (Run, error) {
	run := Run{State: gs}
	for {
		if ctx.Err() != nil {
			run.Cancelled = true
			return run, nil
		}
		w, err := SimulateNextScheduledWindow(run.State)
		if err != nil {
			return run, err
		}
		if w.Date == nil {
			run.State = w.State
			return run, nil
		}
		if check != nil {
			if err := check(w.State); err != nil {
				return run, err
			}
		}
		run.State = w.State
		run.Dates++
		if onCheckpoint != nil {
			onCheckpoint(Checkpoint{
				Date:      *w.Date,
				Phase:     w.State.Phase,
				Dates:     run.Dates,
				Completed: PlayedCount(w.State.Fixtures),
				Total:     ExpectedFixtures(len(w.State.Teams)),
			})
		}
	}
}

func PlayedCount(fixtures []domain.MatchResult) int {
	n := 0
	for _, m := range fixtures {
		if m.Played {
			n++
		}
	}
	return n
}

func recordStats(stats map[string]domain.StatLine, m domain.MatchResult) {
	var appeared []string
	seen := func(id string) {
		if !slices.Contains(appeared, id) {
			appeared = append(appeared, id)
		}
	}
	for _, in := range m.Innings {
		for _, b := range in.Batting {
			seen(b.PlayerID)
			s := stats[b.PlayerID]
			s.Innings++
			s.Runs += b.Runs
			s.BallsFaced += b.Balls
			s.Fours += b.Fours
			s.Sixes += b.Sixes
			s.HighScore = max(s.HighScore, b.Runs)
			if !b.Out {
				s.NotOuts++
			}
			stats[b.PlayerID] = s
		}
		for _, b := range in.Bowling {
			seen(b.PlayerID)
			s := stats[b.PlayerID]
			s.Wickets += b.Wickets
			s.BallsBowled += b.Balls
			s.RunsConceded += b.Runs
			stats[b.PlayerID] = s
		}
	}
	for _, id := range appeared {
		s := stats[id]
		s.Matches++
		stats[id] = s
	}
}
