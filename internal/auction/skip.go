package auction

import (
	"slices"

	"franchise-league/internal/domain"
)

// SkipToPlayer resolves every lot ahead of playerID with the user team
// sitting out, then opens playerID's lot and waits for the user.
func SkipToPlayer(gs domain.GameState, playerID string) (domain.GameState, error) {
	if err := checkRunning(gs); err != nil {
		return domain.GameState{}, err
	}
	target := slices.IndexFunc(gs.Auction.Entries, func(e domain.AuctionEntry) bool {
		return e.PlayerID == playerID
	})
	if target < 0 || gs.Auction.Entries[target].Status != domain.EntryPending {
		return domain.GameState{}, errUnavailable
	}

	next := gs.Clone()
	m := &machine{market: newMarket(&next), opts: Options{}, userSkips: true, skipTo: playerID}
	if p, ok := m.player(playerID); !ok || p.TeamID != "" {
		return domain.GameState{}, errUnavailable
	}

	a := &next.Auction
	a.AwaitingUserAction = false
	if a.Stage == domain.StageAwaitingBid && a.CurrentPlayerID == playerID {
		a.AwaitingUserAction = true
		return next, nil
	}
	if err := m.run(); err != nil {
		return domain.GameState{}, err
	}
	if a.CurrentPlayerID != playerID {
		return domain.GameState{}, errUnavailable
	}
	return next, nil
}
