package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"franchise-league/internal/domain"
	"franchise-league/internal/match"
	"franchise-league/internal/repository"
	"franchise-league/internal/season"
)

func printSummaries(w io.Writer, leagues []repository.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSEASON\tPHASE\tVERSION\tUPDATED")
	for _, l := range leagues {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n", l.ID, l.Name, l.Season, l.Phase, l.Version, l.UpdatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func printLeague(w io.Writer, gs domain.GameState) {
	fmt.Fprintf(w, "%s  season %d (%d)  phase %s\n", gs.Meta.Name, gs.Meta.Season, gs.Config.SeasonYear, gs.Phase)
	switch gs.Phase {
	case domain.PhaseAuction:
		printAuction(w, gs)
	default:
		printStandings(w, gs)
		if champ := gs.Team(gs.ChampionTeamID); champ != nil {
			fmt.Fprintf(w, "Champion: %s\n", champ.Name)
		}
	}
}

func printAuction(w io.Writer, gs domain.GameState) {
	a := gs.Auction
	fmt.Fprintf(w, "auction %s  lot %d/%d  sold %d  unsold %d\n", a.Stage, a.CurrentIndex+1, len(a.Entries), a.LotsSold, a.LotsUnsold)
	if a.CurrentPlayerID != "" {
		idx := gs.PlayerIndex()
		if i, ok := idx[a.CurrentPlayerID]; ok {
			p := gs.Players[i]
			fmt.Fprintf(w, "on the block: %s (%s, %s, ovr %d)  bid %d", p.Name, p.Role, p.CountryTag, p.Overall(), a.CurrentBid)
			if t := gs.Team(a.CurrentBidderID); t != nil {
				fmt.Fprintf(w, " by %s", t.ShortName)
			}
			fmt.Fprintln(w)
		}
	}
	if a.Message != "" {
		fmt.Fprintln(w, a.Message)
	}
	if a.AwaitingUserAction {
		fmt.Fprintln(w, "waiting for your bid or pass")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEAM\tSQUAD\tPURSE")
	for _, t := range gs.Teams {
		marker := ""
		if t.ID == gs.UserTeamID {
			marker = " *"
		}
		fmt.Fprintf(tw, "%s%s\t%d\t%d\n", t.ShortName, marker, len(t.Roster), t.BudgetRemaining)
	}
	tw.Flush()
}

func printStandings(w io.Writer, gs domain.GameState) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTEAM\tP\tW\tL\tT\tPTS\tNRR")
	for i, id := range season.Rank(gs.Teams) {
		t := gs.Team(id)
		s := t.Standings
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%+.3f\n", i+1, t.Name, s.Played, s.Wins, s.Losses, s.Ties, s.Points, s.NetRunRate)
	}
	tw.Flush()
}

func printResults(w io.Writer, gs domain.GameState, played []domain.MatchResult) {
	for _, m := range played {
		home, away := gs.Team(m.HomeTeamID), gs.Team(m.AwayTeamID)
		if home == nil || away == nil {
			continue
		}
		line := fmt.Sprintf("  [%s] %s v %s", m.Stage, home.ShortName, away.ShortName)
		if len(m.Innings) == 2 {
			a, b := m.Innings[0], m.Innings[1]
			line += fmt.Sprintf("  %d/%d (%g) - %d/%d (%g)", a.Runs, a.Wickets, match.Overs(a.Balls), b.Runs, b.Wickets, match.Overs(b.Balls))
		}
		fmt.Fprintf(w, "%s  %s\n", line, m.Margin)
	}
}
