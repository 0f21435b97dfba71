package generator

import (
	"cmp"
	"slices"

	"franchise-league/internal/domain"
	"franchise-league/internal/prng"
)

const (
	xiSize          = 11
	valueFloor      = 55
	valuePerPoint   = 6
	valueNoiseRange = 15
)

// AssignRosters distributes the whole pool across teams for a league that
// skips the auction. Overseas players are dealt first so no team can be
// stranded above the cap, then domestic players fill the remaining slots.
func AssignRosters(cfg domain.LeagueConfig, pol domain.AuctionPolicy, teams []domain.Team, players []domain.Player) {
	normalizeOverseas(players, len(teams)*pol.OverseasCap)

	var overseas, domestic []int
	for i := range players {
		if players[i].IsOverseas() {
			overseas = append(overseas, i)
		} else {
			domestic = append(domestic, i)
		}
	}
	byOverall := func(a, b int) int { return byOverallDesc(players[a], players[b]) }
	slices.SortStableFunc(overseas, byOverall)
	slices.SortStableFunc(domestic, byOverall)

	roomFor := func(t *domain.Team) bool { return len(t.Roster) < pol.SquadMax }
	assign := func(t *domain.Team, i int) {
		players[i].TeamID = t.ID
		t.Roster = append(t.Roster, players[i].ID)
	}

	snake(len(teams), len(overseas), func(pick, team int) bool {
		t := &teams[team]
		if !roomFor(t) || overseasOn(t, players) >= pol.OverseasCap {
			return false
		}
		assign(t, overseas[pick])
		return true
	})

	// every team gets first call on a domestic keeper before the open draft
	taken := make(map[int]bool)
	for ti := range teams {
		if hasKeeper(&teams[ti], players) || !roomFor(&teams[ti]) {
			continue
		}
		for _, i := range domestic {
			if !taken[i] && players[i].Role == domain.RoleWicketkeeper {
				assign(&teams[ti], i)
				taken[i] = true
				break
			}
		}
	}
	var rest []int
	for _, i := range domestic {
		if !taken[i] {
			rest = append(rest, i)
		}
	}

	leftover := snake(len(teams), len(rest), func(pick, team int) bool {
		t := &teams[team]
		if !roomFor(t) {
			return false
		}
		assign(t, rest[pick])
		return true
	})
	for _, pick := range leftover {
		for ti := range teams {
			if roomFor(&teams[ti]) {
				assign(&teams[ti], rest[pick])
				break
			}
		}
	}

	idx := make(map[string]int, len(players))
	for i := range players {
		idx[players[i].ID] = i
	}
	r := prng.New(prng.Derive(cfg.SeasonSeed, 77))
	for ti := range teams {
		t := &teams[ti]
		spend := impliedSpend(r, t.Roster, players, idx)
		spend = min(max(spend, pol.MinimumSpend), pol.Purse)
		t.BudgetRemaining = cfg.AuctionBudget - spend

		members := make([]domain.Player, 0, len(t.Roster))
		for _, id := range t.Roster {
			members = append(members, players[idx[id]])
		}
		t.PlayingXI, t.WicketkeeperID = FinalizeKeeper(BalancedXI(members), t.Roster, players, idx)
	}
}

// snake deals count picks in serpentine team order. place reports whether
// the pick landed on the team; picks no team accepts are returned.
func snake(teamCount, count int, place func(pick, team int) bool) []int {
	var unplaced []int
	pick := 0
	for round := 0; pick < count; round++ {
		progressed := false
		for k := 0; k < teamCount && pick < count; k++ {
			team := k
			if round%2 == 1 {
				team = teamCount - 1 - k
			}
			if place(pick, team) {
				pick++
				progressed = true
			}
		}
		if !progressed {
			unplaced = append(unplaced, pick)
			pick++
		}
	}
	return unplaced
}

// normalizeOverseas converts the weakest overseas players to domestic when
// the pool holds more than the league's combined overseas allowance.
func normalizeOverseas(players []domain.Player, allowance int) {
	var overseas []int
	for i := range players {
		if players[i].IsOverseas() {
			overseas = append(overseas, i)
		}
	}
	excess := len(overseas) - allowance
	if excess <= 0 {
		return
	}
	slices.SortStableFunc(overseas, func(a, b int) int { return byOverallDesc(players[b], players[a]) })
	for _, i := range overseas[:excess] {
		players[i].CountryTag = domain.DomesticCountry
	}
}

func overseasOn(t *domain.Team, players []domain.Player) int {
	n := 0
	for _, id := range t.Roster {
		for i := range players {
			if players[i].ID == id && players[i].IsOverseas() {
				n++
				break
			}
		}
	}
	return n
}

func hasKeeper(t *domain.Team, players []domain.Player) bool {
	for _, id := range t.Roster {
		for i := range players {
			if players[i].ID == id && players[i].Role == domain.RoleWicketkeeper {
				return true
			}
		}
	}
	return false
}

func impliedSpend(r *prng.Rand, roster []string, players []domain.Player, idx map[string]int) int64 {
	var total int64
	for _, id := range roster {
		p := players[idx[id]]
		total += p.BasePrice + int64(max(0, p.Overall()-valueFloor)*valuePerPoint) + int64(r.Between(0, valueNoiseRange))
	}
	return total
}

// BalancedXI picks a starting eleven: one keeper, three bowlers, two
// allrounders and four batters, then the best of the rest.
func BalancedXI(squad []domain.Player) []string {
	sorted := slices.Clone(squad)
	slices.SortStableFunc(sorted, byOverallDesc)

	quota := map[domain.Role]int{
		domain.RoleWicketkeeper: 1,
		domain.RoleBowler:       3,
		domain.RoleAllrounder:   2,
		domain.RoleBatter:       4,
	}
	picked := make([]bool, len(sorted))
	xi := make([]string, 0, xiSize)
	for _, role := range []domain.Role{domain.RoleWicketkeeper, domain.RoleBowler, domain.RoleAllrounder, domain.RoleBatter} {
		for i, p := range sorted {
			if quota[role] == 0 || len(xi) == xiSize {
				break
			}
			if !picked[i] && p.Role == role {
				picked[i] = true
				quota[role]--
				xi = append(xi, p.ID)
			}
		}
	}
	for i, p := range sorted {
		if len(xi) == xiSize {
			break
		}
		if !picked[i] {
			picked[i] = true
			xi = append(xi, p.ID)
		}
	}
	return xi
}

// FinalizeKeeper designates the wicketkeeper for an XI: an XI member with
// the role, else a rostered keeper swapped into the XI, else the first XI
// slot. The returned XI may differ from xi when a keeper was swapped in.
func FinalizeKeeper(xi, roster []string, players []domain.Player, idx map[string]int) ([]string, string) {
	isKeeper := func(id string) bool {
		i, ok := idx[id]
		return ok && players[i].Role == domain.RoleWicketkeeper
	}
	for _, id := range xi {
		if isKeeper(id) {
			return xi, id
		}
	}

	var best string
	for _, id := range roster {
		if !isKeeper(id) || slices.Contains(xi, id) {
			continue
		}
		if best == "" || cmp.Compare(players[idx[id]].Overall(), players[idx[best]].Overall()) > 0 {
			best = id
		}
	}
	if best != "" {
		out := slices.Clone(xi)
		if len(out) < xiSize {
			out = append(out, best)
		} else {
			out[len(out)-1] = best
		}
		return out, best
	}

	if len(xi) > 0 {
		return xi, xi[0]
	}
	return xi, ""
}
