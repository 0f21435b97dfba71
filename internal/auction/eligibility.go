package auction

import (
	"franchise-league/internal/domain"
	"franchise-league/internal/prng"
)

const (
	needSteepBelow    = 18
	needModerateBelow = 22
	needSteepBonus    = 120
	needModerateBonus = 50
	needLowBonus      = 10
	keeperNoneBonus   = 60
	keeperOneBonus    = 15
	perturbMin        = -40
	perturbMax        = 60
)

// market wraps the state being auctioned with a player index.
type market struct {
	gs  *domain.GameState
	idx map[string]int
}

func newMarket(gs *domain.GameState) *market {
	return &market{gs: gs, idx: gs.PlayerIndex()}
}

func (m *market) player(id string) (*domain.Player, bool) {
	i, ok := m.idx[id]
	if !ok {
		return nil, false
	}
	return &m.gs.Players[i], true
}

// CanBid reports whether team may bid amount for p under pol. The same gate
// applies to the user team and every AI team.
func CanBid(gs *domain.GameState, team *domain.Team, p *domain.Player, amount int64) bool {
	return newMarket(gs).canBid(team, p, amount)
}

func (m *market) canBid(team *domain.Team, p *domain.Player, amount int64) bool {
	pol := m.gs.Policy.Policy
	roster := len(team.Roster)
	if roster >= pol.SquadMax {
		return false
	}
	if p.IsOverseas() && domain.OverseasCount(team.Roster, m.gs.Players, m.idx) >= pol.OverseasCap {
		return false
	}
	if amount > team.BudgetRemaining {
		return false
	}
	mandatory := int64(max(0, pol.SquadMin-(roster+1)))
	if team.BudgetRemaining-amount < mandatory*pol.MinBasePrice {
		return false
	}
	if pol.MinimumSpend > 0 && m.gs.Spent(team)+amount > m.gs.Config.AuctionBudget {
		return false
	}
	return true
}

func (m *market) keepers(team *domain.Team) int {
	n := 0
	for _, id := range team.Roster {
		if p, ok := m.player(id); ok && p.Role == domain.RoleWicketkeeper {
			n++
		}
	}
	return n
}

// intent is the most a team is willing to pay for the open lot. The
// perturbation stream is keyed by lot, bid and pass count so a replay of the
// same decisions draws the same numbers.
func (m *market) intent(teamIdx int, p *domain.Player) int64 {
	team := &m.gs.Teams[teamIdx]
	a := &m.gs.Auction

	v := p.BasePrice + int64(2*p.Overall())
	switch roster := len(team.Roster); {
	case roster < needSteepBelow:
		v += needSteepBonus
	case roster < needModerateBelow:
		v += needModerateBonus
	default:
		v += needLowBonus
	}
	if p.Role == domain.RoleWicketkeeper {
		switch m.keepers(team) {
		case 0:
			v += keeperNoneBonus
		case 1:
			v += keeperOneBonus
		}
	}

	seed := prng.Derive(m.gs.Config.SeasonSeed, a.CurrentIndex, int(a.CurrentBid), len(a.PassedTeamIDs), teamIdx)
	noise, _ := prng.New(seed).NextInt(perturbMin, perturbMax)
	return v + int64(noise)
}
