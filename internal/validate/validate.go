// Package validate checks a GameState against the league invariants. Every
// mutating operation runs it on its candidate state before handing the
// state back.
package validate

import (
	"fmt"
	"slices"
	"time"

	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/generator"
	"franchise-league/internal/match"
)

// BattingTolerance is how far the batting lines may drift from the innings
// total.
const BattingTolerance = 6

// Issue codes.
const (
	CodeUnknownPlayer     = "unknown_player"
	CodeKeeperNotInXI     = "keeper_not_in_xi"
	CodeXINotInRoster     = "xi_not_in_roster"
	CodeXITooLarge        = "xi_too_large"
	CodeNegativeBudget    = "negative_budget"
	CodeSquadBelowMinimum = "squad_below_minimum"
	CodeSquadAboveMaximum = "squad_above_maximum"
	CodeOverseasCap       = "overseas_cap"
	CodeMinimumSpend      = "minimum_spend"
	CodeBadDate           = "bad_date"
	CodeInningsWickets    = "innings_wickets"
	CodeInningsOvers      = "innings_overs"
	CodeBattingTotal      = "batting_total"
	CodeDuplicateRoster   = "duplicate_roster"
	CodeUnknownTeam       = "unknown_team"
	CodeBadPhase          = "bad_phase"
	CodeProspectPotential = "prospect_potential"
)

// Check returns every invariant violation in gs, in a stable order.
func Check(gs *domain.GameState) []apperrors.Issue {
	c := &checker{gs: gs, idx: gs.PlayerIndex()}
	if !gs.Phase.Valid() {
		c.add(CodeBadPhase, "phase", "unknown phase %q", gs.Phase)
	}
	c.teams()
	c.players()
	c.fixtures()
	return c.issues
}

// State returns a *SemanticIntegrityError when gs breaks any invariant.
func State(gs *domain.GameState) error {
	if issues := Check(gs); len(issues) > 0 {
		return &apperrors.SemanticIntegrityError{Issues: issues}
	}
	return nil
}

type checker struct {
	gs     *domain.GameState
	idx    map[string]int
	issues []apperrors.Issue
}

func (c *checker) add(code, path, format string, args ...any) {
	c.issues = append(c.issues, apperrors.Issue{Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) teams() {
	gs := c.gs
	pol := gs.Policy.Policy
	auctionDone := gs.Auction.Complete
	owner := make(map[string]string)

	for ti := range gs.Teams {
		t := &gs.Teams[ti]
		path := fmt.Sprintf("teams[%s]", t.ID)

		for _, id := range t.Roster {
			if _, ok := c.idx[id]; !ok {
				c.add(CodeUnknownPlayer, path+".roster", "roster references unknown player %s", id)
			}
			if prev, ok := owner[id]; ok {
				c.add(CodeDuplicateRoster, path+".roster", "player %s is also rostered by %s", id, prev)
			}
			owner[id] = t.ID
		}
		for _, id := range t.PlayingXI {
			if !slices.Contains(t.Roster, id) {
				c.add(CodeXINotInRoster, path+".playingXI", "XI member %s is not on the roster", id)
			}
		}
		if len(t.PlayingXI) > 11 {
			c.add(CodeXITooLarge, path+".playingXI", "XI has %d players", len(t.PlayingXI))
		}
		if t.WicketkeeperID != "" && !slices.Contains(t.PlayingXI, t.WicketkeeperID) {
			c.add(CodeKeeperNotInXI, path+".wicketkeeperId", "wicketkeeper %s is not in the XI", t.WicketkeeperID)
		}
		if t.BudgetRemaining < 0 {
			c.add(CodeNegativeBudget, path+".budgetRemaining", "budget is %d", t.BudgetRemaining)
		}
		if n := len(t.Roster); n > pol.SquadMax {
			c.add(CodeSquadAboveMaximum, path+".roster", "squad of %d exceeds maximum %d", n, pol.SquadMax)
		} else if auctionDone && n < pol.SquadMin {
			c.add(CodeSquadBelowMinimum, path+".roster", "squad of %d is below minimum %d", n, pol.SquadMin)
		}
		if n := domain.OverseasCount(t.Roster, gs.Players, c.idx); n > pol.OverseasCap {
			c.add(CodeOverseasCap, path+".roster", "%d overseas players exceed cap %d", n, pol.OverseasCap)
		}
		if auctionDone && pol.MinimumSpend > 0 {
			if spent := gs.Spent(t); spent < pol.MinimumSpend {
				c.add(CodeMinimumSpend, path+".budgetRemaining", "spent %d is below minimum %d", spent, pol.MinimumSpend)
			}
		}
	}
}

func (c *checker) players() {
	for _, p := range c.gs.Players {
		if !p.IsProspect() {
			continue
		}
		if !generator.PotentialCovers(p.Ratings, p.Development.Potential) {
			c.add(CodeProspectPotential, fmt.Sprintf("players[%s].development", p.ID), "potential below current ratings")
		}
	}
}

func (c *checker) fixtures() {
	for _, m := range c.gs.Fixtures {
		path := fmt.Sprintf("fixtures[%s]", m.ID)
		if _, err := time.Parse(domain.DateLayout, m.Date); err != nil {
			c.add(CodeBadDate, path+".date", "date %q does not parse", m.Date)
		}
		for _, id := range []string{m.HomeTeamID, m.AwayTeamID} {
			if c.gs.TeamIndex(id) < 0 {
				c.add(CodeUnknownTeam, path, "unknown team %q", id)
			}
		}
		for i, in := range m.Innings {
			ipath := fmt.Sprintf("%s.innings[%d]", path, i)
			if in.Wickets < 0 || in.Wickets > match.MaxWickets {
				c.add(CodeInningsWickets, ipath, "%d wickets", in.Wickets)
			}
			if in.Balls < 0 || in.Balls > match.MaxOvers*match.BallsPerOver || in.Overs > match.MaxOvers {
				c.add(CodeInningsOvers, ipath, "%.1f overs", in.Overs)
			}
			sum := 0
			for _, b := range in.Batting {
				sum += b.Runs
			}
			if diff := sum - in.Runs; diff > BattingTolerance || diff < -BattingTolerance {
				c.add(CodeBattingTotal, ipath, "batting lines sum to %d against a total of %d", sum, in.Runs)
			}
		}
	}
}
