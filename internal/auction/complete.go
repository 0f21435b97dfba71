package auction

import (
	"cmp"
	"fmt"
	"slices"

	"franchise-league/internal/domain"
	"franchise-league/internal/generator"
	"franchise-league/internal/season"
)

// complete closes the auction: short squads are filled from unsold lots at
// base price, AI teams re-pick a balanced XI, keepers are finalised, minimum
// spend is enforced and the regular season is scheduled.
func (m *machine) complete() error {
	gs := m.gs
	a := &gs.Auction

	m.forceFill()

	for i := range gs.Teams {
		t := &gs.Teams[i]
		if t.ID != gs.UserTeamID {
			squad := make([]domain.Player, 0, len(t.Roster))
			for _, id := range t.Roster {
				if p, ok := m.player(id); ok {
					squad = append(squad, *p)
				}
			}
			t.PlayingXI = generator.BalancedXI(squad)
		}
		t.PlayingXI, t.WicketkeeperID = generator.FinalizeKeeper(t.PlayingXI, t.Roster, gs.Players, m.idx)
	}

	if floor := gs.Policy.Policy.MinimumSpend; floor > 0 {
		for i := range gs.Teams {
			t := &gs.Teams[i]
			if spent := gs.Spent(t); spent < floor {
				t.BudgetRemaining -= floor - spent
			}
		}
	}

	fixtures, err := season.Schedule(gs.Teams, gs.Config.SeasonStartDate)
	if err != nil {
		return err
	}
	gs.Fixtures = fixtures

	a.Stage = domain.StageComplete
	a.Complete = true
	a.AwaitingUserAction = false
	a.CurrentPlayerID = ""
	a.CurrentPhase = ""
	a.CurrentBid = 0
	a.CurrentBidderID = ""
	a.PassedTeamIDs = []string{}
	a.Message = fmt.Sprintf("Auction complete: %d sold, %d unsold", a.LotsSold, a.LotsUnsold)
	gs.Phase = domain.PhaseRegularSeason
	return nil
}

// forceFill tops up every team below the squad minimum with the cheapest
// unsold players it can legally afford.
func (m *machine) forceFill() {
	gs := m.gs
	a := &gs.Auction
	squadMin := gs.Policy.Policy.SquadMin

	var unsold []int
	for i, e := range a.Entries {
		if e.Status != domain.EntrySold {
			unsold = append(unsold, i)
		}
	}
	slices.SortStableFunc(unsold, func(x, y int) int {
		px, _ := m.player(a.Entries[x].PlayerID)
		py, _ := m.player(a.Entries[y].PlayerID)
		if px == nil || py == nil {
			return cmp.Compare(x, y)
		}
		if c := cmp.Compare(px.BasePrice, py.BasePrice); c != 0 {
			return c
		}
		if c := cmp.Compare(py.Overall(), px.Overall()); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})

	for ti := range gs.Teams {
		t := &gs.Teams[ti]
		for _, ei := range unsold {
			if len(t.Roster) >= squadMin {
				break
			}
			e := &a.Entries[ei]
			p, ok := m.player(e.PlayerID)
			if !ok || p.TeamID != "" || e.Status == domain.EntrySold {
				continue
			}
			if !m.canBid(t, p, p.BasePrice) {
				continue
			}
			if e.Status == domain.EntryUnsold {
				a.LotsUnsold--
			}
			m.sell(t, p, e, p.BasePrice)
		}
	}
}
