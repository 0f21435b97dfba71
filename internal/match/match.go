// Package match simulates a T20 fixture ball by ball.
package match

import (
	"fmt"
	"math"

	"franchise-league/internal/domain"
	"franchise-league/internal/prng"
)

const (
	MaxOvers       = 20
	BallsPerOver   = 6
	MaxWickets     = 10
	baseWicketRate = 0.055
	minWicketRate  = 0.012
	advWicketSlope = 0.04
	advRunBias     = 0.15
)

// Seed returns the stream seed for a fixture. It depends only on the season
// seed and the fixture id, so a replay reproduces the scorecard.
func Seed(seasonSeed uint32, fixtureID string) uint32 {
	return prng.Derive(seasonSeed, prng.HashString(fixtureID))
}

// Simulate plays fixture m and returns it with the scorecard, winner and
// margin filled in. A tie leaves WinnerTeamID empty.
func Simulate(gs *domain.GameState, m domain.MatchResult) (domain.MatchResult, error) {
	idx := gs.PlayerIndex()
	home, err := lineup(gs, idx, m.HomeTeamID)
	if err != nil {
		return m, err
	}
	away, err := lineup(gs, idx, m.AwayTeamID)
	if err != nil {
		return m, err
	}

	seed := Seed(gs.Config.SeasonSeed, m.ID)
	first, second := home, away
	if prng.New(prng.Derive(seed, 0)).Chance(0.5) {
		first, second = away, home
	}

	inn1 := playInnings(prng.New(prng.Derive(seed, 1)), first, second, 0)
	inn2 := playInnings(prng.New(prng.Derive(seed, 2)), second, first, inn1.Runs+1)

	m.Played = true
	m.Innings = []domain.InningsSummary{inn1, inn2}
	switch {
	case inn1.Runs > inn2.Runs:
		m.WinnerTeamID = first.team.ID
		m.Margin = fmt.Sprintf("%s won by %d runs", first.team.Name, inn1.Runs-inn2.Runs)
	case inn2.Runs > inn1.Runs:
		m.WinnerTeamID = second.team.ID
		left := maxWickets(second) - inn2.Wickets
		m.Margin = fmt.Sprintf("%s won by %d wickets", second.team.Name, left)
	default:
		m.WinnerTeamID = ""
		m.Margin = "Match tied"
	}
	return m, nil
}

func maxWickets(s *side) int {
	return min(MaxWickets, len(s.order)-1)
}

// innings is the running state of one batting innings.
type innings struct {
	r        *prng.Rand
	bat      *side
	bowl     *side
	summary  domain.InningsSummary
	batLine  map[string]int
	bowlLine map[string]int
}

func (in *innings) batter(p *domain.Player) *domain.BattingLine {
	i, ok := in.batLine[p.ID]
	if !ok {
		i = len(in.summary.Batting)
		in.batLine[p.ID] = i
		in.summary.Batting = append(in.summary.Batting, domain.BattingLine{PlayerID: p.ID})
	}
	return &in.summary.Batting[i]
}

func (in *innings) bowler(p *domain.Player) *domain.BowlingLine {
	i, ok := in.bowlLine[p.ID]
	if !ok {
		i = len(in.summary.Bowling)
		in.bowlLine[p.ID] = i
		in.summary.Bowling = append(in.summary.Bowling, domain.BowlingLine{PlayerID: p.ID})
	}
	return &in.summary.Bowling[i]
}

// crease holds the batting-order slots of the two batters in and the next
// batter due.
type crease struct {
	striker, nonStriker, next int
}

func (c *crease) rotate() {
	c.striker, c.nonStriker = c.nonStriker, c.striker
}

// replace brings the next batter in for the dismissed striker and rotates
// strike, so the not-out batter faces the following ball. It returns the
// incoming batter's slot.
func (c *crease) replace() int {
	slot := c.next
	c.striker = slot
	c.next++
	c.rotate()
	return slot
}

// playInnings bowls up to twenty overs. A positive target ends the innings
// as soon as it is reached.
func playInnings(r *prng.Rand, bat, bowl *side, target int) domain.InningsSummary {
	in := &innings{
		r:    r,
		bat:  bat,
		bowl: bowl,
		summary: domain.InningsSummary{
			BattingTeamID:  bat.team.ID,
			BowlingTeamID:  bowl.team.ID,
			WicketkeeperID: bowl.keeper,
			Batting:        []domain.BattingLine{},
			Bowling:        []domain.BowlingLine{},
		},
		batLine:  map[string]int{},
		bowlLine: map[string]int{},
	}
	s := &in.summary
	allOut := maxWickets(bat)
	c := &crease{striker: 0, nonStriker: 1, next: 2}
	in.batter(bat.order[c.striker])
	in.batter(bat.order[c.nonStriker])

	done := func() bool {
		return s.Wickets >= allOut || (target > 0 && s.Runs >= target)
	}

	for over := 0; over < MaxOvers && !done(); over++ {
		bowler := bowl.bowlers[over%len(bowl.bowlers)]
		for ball := 0; ball < BallsPerOver && !done(); ball++ {
			facing := bat.order[c.striker]
			line := in.batter(facing)
			bl := in.bowler(bowler)
			adv := (battingStrength(facing) - bowlingStrength(bowler)) / 100

			s.Balls++
			line.Balls++
			bl.Balls++

			if r.Next() < math.Max(minWicketRate, baseWicketRate-advWicketSlope*adv) {
				kind := in.dismissal()
				line.Out = true
				line.Dismissal = kind
				if kind.CreditsBowler() {
					line.BowlerID = bowler.ID
					bl.Wickets++
				}
				s.Wickets++
				if s.Wickets < allOut {
					in.batter(bat.order[c.replace()])
				}
				continue
			}

			runs := runsFor(r, over, adv)
			s.Runs += runs
			line.Runs += runs
			bl.Runs += runs
			switch runs {
			case 4:
				line.Fours++
			case 6:
				line.Sixes++
			}
			if runs%2 == 1 {
				c.rotate()
			}
		}
		c.rotate()
	}

	s.Overs = Overs(s.Balls)
	return *s
}

// dismissal draws how the striker got out. Stumpings need a keeper.
func (in *innings) dismissal() domain.DismissalKind {
	x := in.r.Next()
	switch {
	case x < 0.20:
		return domain.DismissalBowled
	case x < 0.75:
		return domain.DismissalCaught
	case x < 0.87:
		return domain.DismissalLBW
	case x < 0.92:
		if in.bowl.keeper == "" {
			return domain.DismissalCaught
		}
		return domain.DismissalStumped
	default:
		return domain.DismissalRunOut
	}
}

func phaseMultiplier(over int) float64 {
	switch {
	case over < 6:
		return 1.08
	case over < 15:
		return 0.94
	default:
		return 1.12
	}
}

func runsFor(r *prng.Rand, over int, adv float64) int {
	x := r.Next()*phaseMultiplier(over) + adv*advRunBias
	switch {
	case x < 0.38:
		return 0
	case x < 0.75:
		return 1
	case x < 0.86:
		return 2
	case x < 0.88:
		return 3
	case x < 0.97:
		return 4
	default:
		return 6
	}
}

// Overs converts a ball count to cricket notation, e.g. 117 balls is 19.3.
func Overs(balls int) float64 {
	return float64(balls/BallsPerOver) + float64(balls%BallsPerOver)/10
}
