package generator

import (
	"cmp"
	"slices"

	"franchise-league/internal/domain"
)

const (
	MarqueeLots       = 16
	Accelerated1Start = 75
	Accelerated2Start = 150
)

// bucket ranks role groups inside the capped and uncapped segments.
func bucket(p domain.Player) int {
	switch p.Role {
	case domain.RoleBatter:
		return 0
	case domain.RoleAllrounder:
		return 1
	case domain.RoleWicketkeeper:
		return 2
	case domain.RoleBowler:
		if p.BowlingStyle == domain.StyleSpin {
			return 4
		}
		return 3
	default:
		return 5
	}
}

func byOverallDesc(a, b domain.Player) int {
	if c := cmp.Compare(b.Overall(), a.Overall()); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// OrderPlayersForAuction builds the nomination queue: marquee lots first,
// then capped players, uncapped domestic players and finally uncapped
// overseas players, each grouped batter → allrounder → wicketkeeper → pace →
// spin. Uncapped overseas lots keep the uncapped tag. Anything past the
// accelerated thresholds is re-tagged regardless of group.
func OrderPlayersForAuction(players []domain.Player) []domain.AuctionEntry {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, byOverallDesc)

	marquee := min(MarqueeLots, len(sorted))
	var capped, uncapped, uncappedOverseas []domain.Player
	for _, p := range sorted[marquee:] {
		switch {
		case p.Capped:
			capped = append(capped, p)
		case p.IsOverseas():
			uncappedOverseas = append(uncappedOverseas, p)
		default:
			uncapped = append(uncapped, p)
		}
	}
	grouped := func(a, b domain.Player) int {
		if c := cmp.Compare(bucket(a), bucket(b)); c != 0 {
			return c
		}
		return byOverallDesc(a, b)
	}
	slices.SortStableFunc(capped, grouped)
	slices.SortStableFunc(uncapped, grouped)
	slices.SortStableFunc(uncappedOverseas, grouped)

	entries := make([]domain.AuctionEntry, 0, len(players))
	add := func(ps []domain.Player, phase domain.AuctionPhase) {
		for _, p := range ps {
			entries = append(entries, domain.AuctionEntry{PlayerID: p.ID, Phase: phase, Status: domain.EntryPending})
		}
	}
	add(sorted[:marquee], domain.AuctionMarquee)
	add(capped, domain.AuctionCapped)
	add(uncapped, domain.AuctionUncapped)
	add(uncappedOverseas, domain.AuctionUncapped)

	for i := range entries {
		switch {
		case i >= Accelerated2Start:
			entries[i].Phase = domain.AuctionAccelerated2
		case i >= Accelerated1Start:
			entries[i].Phase = domain.AuctionAccelerated1
		}
	}
	return entries
}
