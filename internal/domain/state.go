package domain

import "slices"

// DomesticCountry is the country tag that does not count against the
// overseas cap.
const DomesticCountry = "IND"

func (p Player) IsOverseas() bool {
	return p.CountryTag != DomesticCountry
}

func (p Player) IsProspect() bool {
	return p.Development != nil && p.Development.IsProspect
}

// Overall is the role-weighted composite rating used for auction ordering
// and bidding.
func (p Player) Overall() int {
	bat := float64(p.Ratings.Batting.Overall)
	bowl := float64(p.Ratings.Bowling.Overall)
	field := float64(p.Ratings.Fielding.Overall)
	var v float64
	switch p.Role {
	case RoleBatter:
		v = bat*0.8 + field*0.15 + bowl*0.05
	case RoleBowler:
		v = bowl*0.8 + field*0.15 + bat*0.05
	case RoleWicketkeeper:
		keeping := float64(p.Ratings.Fielding.Keeping)
		v = bat*0.55 + keeping*0.35 + field*0.1
	case RoleAllrounder:
		v = bat*0.45 + bowl*0.45 + field*0.1
	default:
		v = (bat + bowl + field) / 3
	}
	return int(v + 0.5)
}

// Clone returns a deep copy that shares no memory with s.
func (s GameState) Clone() GameState {
	out := s
	out.Policy.Policy = s.Policy.Policy.clone()

	out.Teams = make([]Team, len(s.Teams))
	for i, t := range s.Teams {
		t.Roster = slices.Clone(t.Roster)
		t.PlayingXI = slices.Clone(t.PlayingXI)
		out.Teams[i] = t
	}

	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		if p.Development != nil {
			dev := *p.Development
			p.Development = &dev
		}
		out.Players[i] = p
	}

	out.Auction.PassedTeamIDs = slices.Clone(s.Auction.PassedTeamIDs)
	out.Auction.Entries = slices.Clone(s.Auction.Entries)

	out.Fixtures = make([]MatchResult, len(s.Fixtures))
	for i, m := range s.Fixtures {
		if m.Innings != nil {
			innings := make([]InningsSummary, len(m.Innings))
			for j, in := range m.Innings {
				in.Batting = slices.Clone(in.Batting)
				in.Bowling = slices.Clone(in.Bowling)
				innings[j] = in
			}
			m.Innings = innings
		}
		out.Fixtures[i] = m
	}

	if s.Stats != nil {
		out.Stats = make(map[string]StatLine, len(s.Stats))
		for k, v := range s.Stats {
			out.Stats[k] = v
		}
	}
	return out
}

func (p AuctionPolicy) clone() AuctionPolicy {
	p.IncrementBands = slices.Clone(p.IncrementBands)
	if p.PhaseFloors != nil {
		floors := make(map[AuctionPhase]int64, len(p.PhaseFloors))
		for k, v := range p.PhaseFloors {
			floors[k] = v
		}
		p.PhaseFloors = floors
	}
	return p
}

func (s *GameState) TeamIndex(id string) int {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *GameState) Team(id string) *Team {
	if i := s.TeamIndex(id); i >= 0 {
		return &s.Teams[i]
	}
	return nil
}

// PlayerIndex maps player ids to their slice position.
func (s *GameState) PlayerIndex() map[string]int {
	idx := make(map[string]int, len(s.Players))
	for i := range s.Players {
		idx[s.Players[i].ID] = i
	}
	return idx
}

// OverseasCount counts overseas players on a roster.
func OverseasCount(roster []string, players []Player, idx map[string]int) int {
	n := 0
	for _, id := range roster {
		if i, ok := idx[id]; ok && players[i].IsOverseas() {
			n++
		}
	}
	return n
}

// Spent returns how much of the auction budget a team has committed.
func (s *GameState) Spent(t *Team) int64 {
	return s.Config.AuctionBudget - t.BudgetRemaining
}
