package season

import (
	"fmt"
	"slices"

	"franchise-league/internal/domain"
)

const playoffTeams = 4

func findStage(fixtures []domain.MatchResult, stage domain.MatchStage) *domain.MatchResult {
	for i := range fixtures {
		if fixtures[i].Stage == stage {
			return &fixtures[i]
		}
	}
	return nil
}

func leagueComplete(fixtures []domain.MatchResult) bool {
	for _, m := range fixtures {
		if m.Stage == domain.StageLeague && !m.Played {
			return false
		}
	}
	return true
}

func lastLeagueDate(fixtures []domain.MatchResult) string {
	var last string
	for _, m := range fixtures {
		if m.Stage == domain.StageLeague && m.Date > last {
			last = m.Date
		}
	}
	return last
}

// ExpectedFixtures is the number of games a full season plays.
func ExpectedFixtures(teamCount int) int {
	n := teamCount * (teamCount - 1) / 2
	if teamCount >= playoffTeams {
		return n + 4
	}
	return n + 1
}

func (b *bracket) add(stage domain.MatchStage, home, away string, after string, offset int) error {
	date, err := AddDays(after, offset)
	if err != nil {
		return err
	}
	venue := ""
	if t := b.gs.Team(home); t != nil {
		venue = t.Venue
	}
	b.gs.Fixtures = append(b.gs.Fixtures, domain.MatchResult{
		ID:         fmt.Sprintf("m-%03d", len(b.gs.Fixtures)+1),
		Stage:      stage,
		HomeTeamID: home,
		AwayTeamID: away,
		Venue:      venue,
		Date:       date,
	})
	return nil
}

type bracket struct {
	gs    *domain.GameState
	seeds []string
}

// advanceBracket creates whichever playoff games have become due and crowns
// the champion once the final is played. It is a no-op while league games
// remain.
func advanceBracket(gs *domain.GameState) error {
	if !leagueComplete(gs.Fixtures) || gs.Phase == domain.PhaseComplete {
		return nil
	}
	if gs.Phase == domain.PhaseRegularSeason {
		gs.Phase = domain.PhasePlayoffs
	}
	b := &bracket{gs: gs, seeds: Rank(gs.Teams)}
	last := lastLeagueDate(gs.Fixtures)

	if final := findStage(gs.Fixtures, domain.StageFinal); final != nil {
		if final.Played {
			gs.ChampionTeamID = final.WinnerTeamID
			gs.Phase = domain.PhaseComplete
		}
		return nil
	}

	if len(b.seeds) < playoffTeams {
		if len(b.seeds) < 2 {
			return nil
		}
		return b.add(domain.StageFinal, b.seeds[0], b.seeds[1], last, roundSpacingDays)
	}

	q1 := findStage(gs.Fixtures, domain.StageQualifier1)
	elim := findStage(gs.Fixtures, domain.StageEliminator)
	if q1 == nil || elim == nil {
		if err := b.add(domain.StageQualifier1, b.seeds[0], b.seeds[1], last, roundSpacingDays); err != nil {
			return err
		}
		return b.add(domain.StageEliminator, b.seeds[2], b.seeds[3], last, roundSpacingDays+1)
	}
	if !q1.Played || !elim.Played {
		return nil
	}

	q2 := findStage(gs.Fixtures, domain.StageQualifier2)
	if q2 == nil {
		after := max(q1.Date, elim.Date)
		return b.add(domain.StageQualifier2, q1.Loser(), elim.WinnerTeamID, after, roundSpacingDays)
	}
	if !q2.Played {
		return nil
	}
	return b.add(domain.StageFinal, q1.WinnerTeamID, q2.WinnerTeamID, q2.Date, roundSpacingDays)
}

// breakTie settles a tied playoff game under the league's tie-break rule.
func breakTie(gs *domain.GameState, m *domain.MatchResult) {
	winner := m.HomeTeamID
	rule := gs.Config.PlayoffTieBreak
	if rule == domain.TieBreakHigherSeed {
		seeds := Rank(gs.Teams)
		if slices.Index(seeds, m.AwayTeamID) < slices.Index(seeds, m.HomeTeamID) {
			winner = m.AwayTeamID
		}
	} else {
		rule = domain.TieBreakHomeTeam
	}
	m.WinnerTeamID = winner
	name := winner
	if t := gs.Team(winner); t != nil {
		name = t.Name
	}
	m.Margin = fmt.Sprintf("Match tied, %s advance on the %s tie-break", name, rule)
}
