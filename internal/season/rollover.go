package season

import (
	"math"

	"franchise-league/internal/domain"
	"franchise-league/internal/policy"
	"franchise-league/internal/prng"
)

const (
	prospectAgeLimit = 21
	veteranAge       = 33
)

// AdvanceSeason rolls a completed season into the next preseason. Players
// age, prospects grow toward their potential, veterans slip, and the
// policy, seed and calendar move on a year. Rosters carry over.
func AdvanceSeason(gs domain.GameState) (domain.GameState, error) {
	if gs.Phase != domain.PhaseComplete {
		return domain.GameState{}, errNotComplete
	}
	next := gs.Clone()
	next.Meta.Season++

	year := gs.Config.SeasonYear + 1
	resolved, err := policy.Resolve(gs.Config.PolicySet, policy.YearContext{Year: &year})
	if err != nil {
		return domain.GameState{}, err
	}
	start, err := AddDays(gs.Config.SeasonStartDate, 365)
	if err != nil {
		return domain.GameState{}, err
	}
	seed := prng.Derive(gs.Config.SeasonSeed, next.Meta.Season)
	next.Policy = resolved
	next.Config = policy.Config(resolved, gs.Config.TeamCount, seed, start, gs.Config.PlayoffTieBreak)

	r := prng.New(prng.Derive(seed, 500))
	for i := range next.Players {
		p := &next.Players[i]
		p.LastSeason = lastSeason(next.Stats[p.ID])
		p.Age++
		switch {
		case p.IsProspect():
			grow(r, p)
		case p.Age >= veteranAge:
			decline(r, p)
		}
	}

	for i := range next.Teams {
		t := &next.Teams[i]
		spent := max(gs.Spent(&gs.Teams[i]), resolved.Policy.MinimumSpend)
		t.BudgetRemaining = max(0, next.Config.AuctionBudget-spent)
		t.Standings = domain.Standings{}
	}

	next.Fixtures = []domain.MatchResult{}
	next.Stats = map[string]domain.StatLine{}
	next.ChampionTeamID = ""
	next.Phase = domain.PhasePreseason
	return next, nil
}

// grow moves every rating a seeded fraction of the way to potential. A
// prospect graduates once past the age limit.
func grow(r *prng.Rand, p *domain.Player) {
	dev := p.Development
	rate := 0.3 + r.Next()*0.2
	step := func(cur, pot int) int {
		return min(pot, cur+int(math.Ceil(float64(pot-cur)*rate)))
	}
	c, pot := &p.Ratings, dev.Potential
	c.Batting.Overall = step(c.Batting.Overall, pot.Batting.Overall)
	c.Batting.Timing = step(c.Batting.Timing, pot.Batting.Timing)
	c.Batting.Power = step(c.Batting.Power, pot.Batting.Power)
	c.Batting.Technique = step(c.Batting.Technique, pot.Batting.Technique)
	c.Batting.Temperament = step(c.Batting.Temperament, pot.Batting.Temperament)
	c.Bowling.Overall = step(c.Bowling.Overall, pot.Bowling.Overall)
	c.Bowling.Accuracy = step(c.Bowling.Accuracy, pot.Bowling.Accuracy)
	c.Bowling.Movement = step(c.Bowling.Movement, pot.Bowling.Movement)
	c.Bowling.Variation = step(c.Bowling.Variation, pot.Bowling.Variation)
	c.Fielding.Overall = step(c.Fielding.Overall, pot.Fielding.Overall)
	c.Fielding.Catching = step(c.Fielding.Catching, pot.Fielding.Catching)
	c.Fielding.Agility = step(c.Fielding.Agility, pot.Fielding.Agility)
	c.Fielding.Keeping = step(c.Fielding.Keeping, pot.Fielding.Keeping)
	if p.Age > prospectAgeLimit {
		dev.IsProspect = false
	}
}

func decline(r *prng.Rand, p *domain.Player) {
	drop := r.Between(1, 3)
	p.Ratings.Batting.Overall = max(1, p.Ratings.Batting.Overall-drop)
	p.Ratings.Bowling.Overall = max(1, p.Ratings.Bowling.Overall-drop)
	p.Ratings.Fielding.Overall = max(1, p.Ratings.Fielding.Overall-drop)
}

func lastSeason(s domain.StatLine) domain.SeasonStats {
	out := domain.SeasonStats{Matches: s.Matches, Runs: s.Runs, Wickets: s.Wickets}
	if s.BallsFaced > 0 {
		out.StrikeRate = math.Round(float64(s.Runs)/float64(s.BallsFaced)*1000) / 10
	}
	if s.BallsBowled > 0 {
		out.Economy = math.Round(float64(s.RunsConceded)/float64(s.BallsBowled)*60) / 10
	}
	return out
}
