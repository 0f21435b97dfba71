package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"franchise-league/internal/api"
	"franchise-league/internal/auction"
	"franchise-league/internal/league"
	"franchise-league/internal/server"
	"franchise-league/internal/service"
)

func runRemote(ctx context.Context, client *api.LeagueClient, cmd string, args []string) error {
	switch cmd {
	case "create":
		return createCmd(ctx, client, args)
	case "list":
		leagues, err := client.ListLeagues(ctx)
		if err != nil {
			return err
		}
		printSummaries(os.Stdout, leagues)
		return nil
	case "show":
		id, err := leagueArg(cmd, args)
		if err != nil {
			return err
		}
		resp, err := client.GetLeague(ctx, id)
		if err != nil {
			return err
		}
		printLeague(os.Stdout, resp.State)
		return nil
	case "auction":
		return auctionCmd(ctx, client, args)
	case "start":
		return leagueOp(ctx, cmd, args, client.StartSeason)
	case "advance":
		return leagueOp(ctx, cmd, args, client.AdvanceSeason)
	case "next":
		id, err := leagueArg(cmd, args)
		if err != nil {
			return err
		}
		resp, err := client.NextWindow(ctx, id)
		if err != nil {
			return err
		}
		if resp.Date == nil {
			fmt.Println("Season is complete")
			return nil
		}
		fmt.Printf("%s\n", *resp.Date)
		printResults(os.Stdout, resp.League.State, resp.Played)
		return nil
	case "simulate":
		id, err := leagueArg(cmd, args)
		if err != nil {
			return err
		}
		res, err := client.SimulateSeason(ctx, id, func(ev server.StreamEvent) {
			if ev.Type == server.EventCheckpoint && ev.Checkpoint != nil {
				cp := ev.Checkpoint
				fmt.Printf("%s  %-14s %d/%d fixtures\n", cp.Date, cp.Phase, cp.Completed, cp.Total)
			}
		})
		if err != nil {
			return err
		}
		fmt.Printf("simulated %d dates, phase %s", res.Dates, res.Phase)
		if res.ChampionTeamID != "" {
			fmt.Printf(", champion %s", res.ChampionTeamID)
		}
		if res.Cancelled {
			fmt.Print(" (cancelled)")
		}
		fmt.Println()
		return nil
	case "validate":
		id, err := leagueArg(cmd, args)
		if err != nil {
			return err
		}
		resp, err := client.Validate(ctx, id)
		if err != nil {
			return err
		}
		if resp.Valid {
			fmt.Println("ok")
			return nil
		}
		for _, issue := range resp.Issues {
			fmt.Println(issue.String())
		}
		return fmt.Errorf("%d invariant violation(s)", len(resp.Issues))
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func leagueArg(cmd string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s needs exactly one league id", cmd)
	}
	return args[0], nil
}

func leagueOp(ctx context.Context, cmd string, args []string, op func(context.Context, string) (*server.LeagueResponse, error)) error {
	id, err := leagueArg(cmd, args)
	if err != nil {
		return err
	}
	resp, err := op(ctx, id)
	if err != nil {
		return err
	}
	printLeague(os.Stdout, resp.State)
	return nil
}

func createCmd(ctx context.Context, client *api.LeagueClient, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	seed := fs.Uint("seed", 0, "season seed (0 = server picks)")
	seeded := fs.Bool("seeded", false, "deal rosters directly instead of running an auction")
	var opts league.Options
	fs.StringVar(&opts.Name, "name", "", "league name")
	fs.StringVar(&opts.PolicySet, "policy", "", "policy set (legacy, cyclical)")
	fs.IntVar(&opts.TeamCount, "teams", 0, "number of teams")
	fs.StringVar(&opts.StartDate, "start", "", "season start date (YYYY-MM-DD)")
	fs.IntVar(&opts.UserTeam, "user-team", 0, "zero-based index of the user team")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := service.CreateRequest{Seeded: *seeded, Options: opts}
	if *seed != 0 {
		s := uint32(*seed)
		req.Seed = &s
	}
	resp, err := client.CreateLeague(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("created league %s (version %d)\n", resp.ID, resp.Version)
	printLeague(os.Stdout, resp.State)
	return nil
}

func auctionCmd(ctx context.Context, client *api.LeagueClient, args []string) error {
	fs := flag.NewFlagSet("auction", flag.ContinueOnError)
	action := fs.String("action", "", "user action: bid, pass or auto")
	auto := fs.Bool("auto", false, "let the user team bid by intent")
	lots := fs.Int("lots", 0, "stop after this many lots (0 = no limit)")
	skip := fs.String("skip", "", "skip to this player id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := leagueArg("auction", fs.Args())
	if err != nil {
		return err
	}

	var resp *server.LeagueResponse
	if *skip != "" {
		resp, err = client.SkipToPlayer(ctx, id, *skip)
	} else {
		req := server.ProgressRequest{Automated: *auto, MaxLots: *lots}
		if *action != "" {
			kind := auction.ActionKind(*action)
			req.Action = &kind
		}
		resp, err = client.ProgressAuction(ctx, id, req)
	}
	if err != nil {
		return err
	}
	printAuction(os.Stdout, resp.State)
	return nil
}
