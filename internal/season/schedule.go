// Package season schedules fixtures, keeps standings and builds the playoff
// bracket as prerequisite games finish.
package season

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
)

const (
	roundSpacingDays = 2
	winPoints        = 2
	tiePoints        = 1
	nrrOvers         = 20
)

// AddDays shifts a YYYY-MM-DD date.
func AddDays(date string, days int) (string, error) {
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return "", apperrors.Validationf("Invalid date %q", date)
	}
	return d.AddDate(0, 0, days).Format(domain.DateLayout), nil
}

// Schedule builds a single round robin with the circle method. Each round is
// played on one date, two days after the previous round.
func Schedule(teams []domain.Team, startDate string) ([]domain.MatchResult, error) {
	if _, err := time.Parse(domain.DateLayout, startDate); err != nil {
		return nil, apperrors.Validationf("Invalid season start date %q", startDate)
	}
	ring := make([]*domain.Team, 0, len(teams)+1)
	for i := range teams {
		ring = append(ring, &teams[i])
	}
	if len(ring)%2 == 1 {
		ring = append(ring, nil)
	}

	n := len(ring)
	fixtures := make([]domain.MatchResult, 0, len(teams)*(len(teams)-1)/2)
	for round := 0; round < n-1; round++ {
		date, err := AddDays(startDate, round*roundSpacingDays)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n/2; i++ {
			a, b := ring[i], ring[n-1-i]
			if a == nil || b == nil {
				continue
			}
			home, away := a, b
			if (round+i)%2 == 1 {
				home, away = b, a
			}
			fixtures = append(fixtures, domain.MatchResult{
				ID:         fmt.Sprintf("m-%03d", len(fixtures)+1),
				Stage:      domain.StageLeague,
				HomeTeamID: home.ID,
				AwayTeamID: away.ID,
				Venue:      home.Venue,
				Round:      round + 1,
				Date:       date,
			})
		}
		// rotate everything but the first slot
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return fixtures, nil
}

// Rank orders teams by points, net run rate, wins and name.
func Rank(teams []domain.Team) []string {
	sorted := slices.Clone(teams)
	slices.SortStableFunc(sorted, func(a, b domain.Team) int {
		if c := cmp.Compare(b.Standings.Points, a.Standings.Points); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Standings.NetRunRate, a.Standings.NetRunRate); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Standings.Wins, a.Standings.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	ids := make([]string, len(sorted))
	for i, t := range sorted {
		ids[i] = t.ID
	}
	return ids
}

// applyStandings credits a played league fixture to both teams.
func applyStandings(gs *domain.GameState, m domain.MatchResult) {
	if m.Stage != domain.StageLeague || len(m.Innings) != 2 {
		return
	}
	for _, in := range m.Innings {
		bat := gs.Team(in.BattingTeamID)
		bowl := gs.Team(in.BowlingTeamID)
		if bat == nil || bowl == nil {
			continue
		}
		bat.Standings.RunsFor += in.Runs
		bowl.Standings.RunsAgainst += in.Runs
		bat.Standings.NetRunRate = round3(bat.Standings.NetRunRate + float64(in.Runs)/nrrOvers)
		bowl.Standings.NetRunRate = round3(bowl.Standings.NetRunRate - float64(in.Runs)/nrrOvers)
	}

	home, away := gs.Team(m.HomeTeamID), gs.Team(m.AwayTeamID)
	if home == nil || away == nil {
		return
	}
	home.Standings.Played++
	away.Standings.Played++
	switch m.WinnerTeamID {
	case "":
		home.Standings.Ties++
		away.Standings.Ties++
		home.Standings.Points += tiePoints
		away.Standings.Points += tiePoints
	case home.ID:
		home.Standings.Wins++
		home.Standings.Points += winPoints
		away.Standings.Losses++
	case away.ID:
		away.Standings.Wins++
		away.Standings.Points += winPoints
		home.Standings.Losses++
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func resetStandings(gs *domain.GameState) {
	for i := range gs.Teams {
		gs.Teams[i].Standings = domain.Standings{}
	}
}
