package generator

import (
	"fmt"
	"math"

	"franchise-league/internal/domain"
	"franchise-league/internal/prng"
)

const (
	domesticShare    = 0.64
	eliteChance      = 0.06
	eliteTwoWayFloor = 78
	eliteRegressRate = 0.65
	prospectShare    = 0.08
	prospectMinimum  = 6
	prospectPerTeam  = 2
)

// GeneratePlayers builds a pool of TeamCount × MaxSquadSize players. The
// trailing slice of the pool is marked as youth prospects.
func GeneratePlayers(cfg domain.LeagueConfig, pol domain.AuctionPolicy) []domain.Player {
	n := cfg.TeamCount * cfg.MaxSquadSize
	r := prng.New(prng.Derive(cfg.SeasonSeed, 2))

	players := make([]domain.Player, n)
	for i := 0; i < n; i++ {
		players[i] = newPlayer(r, i, pol.MinBasePrice)
	}

	prospects := ProspectCount(n, cfg.TeamCount)
	for i := n - prospects; i < n; i++ {
		makeProspect(r, &players[i], pol.MinBasePrice)
	}
	return players
}

// ProspectCount sizes the prospect slice: about 8% of the pool, at least 6
// and two per team, at most a fifth of the pool.
func ProspectCount(poolSize, teamCount int) int {
	c := int(math.Round(prospectShare * float64(poolSize)))
	c = max(c, prospectMinimum, prospectPerTeam*teamCount)
	return min(c, poolSize/5)
}

func newPlayer(r *prng.Rand, i int, minBase int64) domain.Player {
	p := domain.Player{
		ID:  fmt.Sprintf("p-%04d", i+1),
		Age: r.Between(19, 36),
	}

	if r.Chance(domesticShare) {
		p.CountryTag = domain.DomesticCountry
		p.Name = pickName(r, domesticFirstNames, domesticLastNames)
	} else {
		p.CountryTag, _ = prng.Pick(r, overseasCountries)
		p.Name = pickName(r, overseasFirstNames, overseasLastNames)
	}

	roll := r.Next()
	switch {
	case roll < 0.32:
		p.Role = domain.RoleBatter
	case roll < 0.64:
		p.Role = domain.RoleBowler
	case roll < 0.84:
		p.Role = domain.RoleAllrounder
	default:
		p.Role = domain.RoleWicketkeeper
	}

	p.BowlingStyle = domain.StyleNone
	switch p.Role {
	case domain.RoleBowler:
		p.BowlingStyle = styleFor(r, 0.58)
	case domain.RoleAllrounder:
		p.BowlingStyle = styleFor(r, 0.5)
	}

	skill := r.Between(40, 86)
	if r.Chance(eliteChance) {
		skill += r.Between(4, 9)
	}
	p.Ratings = archetype(r, p.Role, skill)

	if p.IsOverseas() {
		p.Capped = skill >= 50 || p.Age >= 24
	} else {
		p.Capped = (p.Age >= 23 && skill >= 58) || skill >= 72
	}
	p.BasePrice = basePrice(p, minBase)
	p.LastSeason = lastSeason(r, p)
	return p
}

func pickName(r *prng.Rand, first, last []string) string {
	f, _ := prng.Pick(r, first)
	l, _ := prng.Pick(r, last)
	return f + " " + l
}

func styleFor(r *prng.Rand, paceChance float64) domain.BowlingStyle {
	if r.Chance(paceChance) {
		return domain.StylePace
	}
	return domain.StyleSpin
}

// archetype skews the base skill toward the role's discipline.
func archetype(r *prng.Rand, role domain.Role, skill int) domain.PlayerRatings {
	var bat, bowl, field, keep int
	switch role {
	case domain.RoleBatter:
		bat = skill + r.Between(4, 10)
		bowl = skill - r.Between(28, 40)
		field = skill + r.Between(-6, 6)
		keep = field - r.Between(15, 30)
	case domain.RoleBowler:
		bowl = skill + r.Between(4, 10)
		bat = skill - r.Between(28, 40)
		field = skill + r.Between(-8, 4)
		keep = field - r.Between(15, 30)
	case domain.RoleWicketkeeper:
		keep = skill + r.Between(6, 12)
		bat = skill + r.Between(-4, 4)
		bowl = skill - r.Between(38, 50)
		field = skill + r.Between(0, 6)
	default:
		bat = skill - r.Between(2, 8)
		bowl = skill - r.Between(2, 8)
		field = skill + r.Between(-4, 4)
		keep = field - r.Between(15, 30)
		if bat >= eliteTwoWayFloor && bowl >= eliteTwoWayFloor && r.Chance(eliteRegressRate) {
			if r.Chance(0.5) {
				bat -= r.Between(8, 16)
			} else {
				bowl -= r.Between(8, 16)
			}
		}
	}

	bat, bowl, field, keep = clampRating(bat), clampRating(bowl), clampRating(field), clampRating(keep)
	return domain.PlayerRatings{
		Batting: domain.BattingRatings{
			Overall:     bat,
			Timing:      trait(r, bat),
			Power:       trait(r, bat),
			Technique:   trait(r, bat),
			Temperament: trait(r, bat),
		},
		Bowling: domain.BowlingRatings{
			Overall:   bowl,
			Accuracy:  trait(r, bowl),
			Movement:  trait(r, bowl),
			Variation: trait(r, bowl),
		},
		Fielding: domain.FieldingRatings{
			Overall:  field,
			Catching: trait(r, field),
			Agility:  trait(r, field),
			Keeping:  keep,
		},
	}
}

func trait(r *prng.Rand, overall int) int {
	return clampRating(overall + r.Between(-6, 6))
}

func clampRating(v int) int {
	return min(max(v, 1), 99)
}

func basePrice(p domain.Player, minBase int64) int64 {
	overall := p.Overall()
	var price int64
	if p.Capped {
		switch {
		case overall >= 84:
			price = 200
		case overall >= 76:
			price = 150
		case overall >= 68:
			price = 100
		case overall >= 60:
			price = 75
		default:
			price = 50
		}
	} else {
		switch {
		case overall >= 70:
			price = minBase + 20
		case overall >= 60:
			price = minBase + 10
		default:
			price = minBase
		}
	}
	return max(price, minBase)
}

func lastSeason(r *prng.Rand, p domain.Player) domain.SeasonStats {
	matches := r.Between(0, 8)
	if p.Capped {
		matches = r.Between(6, 14)
	}
	bat := p.Ratings.Batting.Overall
	bowl := p.Ratings.Bowling.Overall

	stats := domain.SeasonStats{Matches: matches}
	if matches == 0 {
		return stats
	}
	stats.Runs = max(0, matches*(bat/3)+r.Between(-20, 20))
	stats.StrikeRate = round1(100 + float64(bat-50)*1.2 + float64(r.Between(-8, 8)))
	if p.BowlingStyle != domain.StyleNone {
		stats.Wickets = max(0, matches*bowl/60+r.Between(-2, 3))
		stats.Economy = round1(9.5 - float64(bowl-50)/15 + float64(r.Between(-5, 5))/10)
	}
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func makeProspect(r *prng.Rand, p *domain.Player, minBase int64) {
	p.Age = r.Between(17, 21)
	p.Capped = false
	p.BasePrice = minBase

	factor := 0.78 + r.Next()*0.10
	regressed := mapRatings(p.Ratings, func(v int) int {
		return clampRating(int(float64(v) * factor))
	})
	p.Ratings = regressed

	potential := mapRatings(regressed, func(v int) int {
		return clampRating(v + r.Between(8, 22))
	})

	matches := r.Between(4, 18)
	innings := max(1, int(float64(matches)*1.4))
	runs := matches * (potential.Batting.Overall / 2)
	proj := domain.FirstClassProjection{
		Matches: matches,
		Runs:    runs,
		Average: round1(float64(runs) / float64(innings)),
	}
	if p.BowlingStyle != domain.StyleNone {
		proj.Wickets = matches * potential.Bowling.Overall / 40
		proj.Economy = round1(4.2 - float64(potential.Bowling.Overall-50)/40)
	}

	p.Development = &domain.Development{
		IsProspect: true,
		Potential:  potential,
		FirstClass: proj,
	}
	p.LastSeason = domain.SeasonStats{}
}

func mapRatings(in domain.PlayerRatings, fn func(int) int) domain.PlayerRatings {
	return domain.PlayerRatings{
		Batting: domain.BattingRatings{
			Overall:     fn(in.Batting.Overall),
			Timing:      fn(in.Batting.Timing),
			Power:       fn(in.Batting.Power),
			Technique:   fn(in.Batting.Technique),
			Temperament: fn(in.Batting.Temperament),
		},
		Bowling: domain.BowlingRatings{
			Overall:   fn(in.Bowling.Overall),
			Accuracy:  fn(in.Bowling.Accuracy),
			Movement:  fn(in.Bowling.Movement),
			Variation: fn(in.Bowling.Variation),
		},
		Fielding: domain.FieldingRatings{
			Overall:  fn(in.Fielding.Overall),
			Catching: fn(in.Fielding.Catching),
			Agility:  fn(in.Fielding.Agility),
			Keeping:  fn(in.Fielding.Keeping),
		},
	}
}

// PotentialCovers reports whether every potential rating is at least the
// current rating.
func PotentialCovers(current, potential domain.PlayerRatings) bool {
	pairs := [][2]int{
		{current.Batting.Overall, potential.Batting.Overall},
		{current.Batting.Timing, potential.Batting.Timing},
		{current.Batting.Power, potential.Batting.Power},
		{current.Batting.Technique, potential.Batting.Technique},
		{current.Batting.Temperament, potential.Batting.Temperament},
		{current.Bowling.Overall, potential.Bowling.Overall},
		{current.Bowling.Accuracy, potential.Bowling.Accuracy},
		{current.Bowling.Movement, potential.Bowling.Movement},
		{current.Bowling.Variation, potential.Bowling.Variation},
		{current.Fielding.Overall, potential.Fielding.Overall},
		{current.Fielding.Catching, potential.Fielding.Catching},
		{current.Fielding.Agility, potential.Fielding.Agility},
		{current.Fielding.Keeping, potential.Fielding.Keeping},
	}
	for _, p := range pairs {
		if p[1] < p[0] {
			return false
		}
	}
	return true
}
