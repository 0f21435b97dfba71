package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"franchise-league/internal/auction"
	"franchise-league/internal/domain"
	"franchise-league/internal/league"
	"franchise-league/internal/season"

	"github.com/rs/zerolog"
)

// runLocal plays full seasons in-process: automated auction, season, rollover.
func runLocal(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("local", flag.ContinueOnError)
	seed := fs.Uint("seed", 1, "season seed")
	seasons := fs.Int("seasons", 1, "seasons to play")
	seeded := fs.Bool("seeded", false, "deal rosters directly instead of running an auction")
	verbose := fs.Bool("v", false, "log every simulated date")
	var opts league.Options
	fs.StringVar(&opts.PolicySet, "policy", "", "policy set (legacy, cyclical)")
	fs.IntVar(&opts.TeamCount, "teams", 0, "number of teams")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *seasons < 1 {
		return fmt.Errorf("seasons must be at least 1")
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()

	engine := league.New()
	var (
		gs  domain.GameState
		err error
	)
	if *seeded {
		gs, err = engine.GenerateSeededLeague(uint32(*seed), opts)
	} else {
		gs, err = engine.GenerateLeague(uint32(*seed), opts)
	}
	if err != nil {
		return err
	}
	logger.Info().Int("teams", len(gs.Teams)).Int("players", len(gs.Players)).Msg("league generated")

	for i := 0; i < *seasons; i++ {
		if gs.Phase == domain.PhaseAuction {
			gs, err = engine.ProgressAuction(gs, nil, auction.Options{Automated: true})
			if err != nil {
				return err
			}
			logger.Info().
				Int("sold", gs.Auction.LotsSold).
				Int("unsold", gs.Auction.LotsUnsold).
				Msg("auction complete")
		}
		if gs.Phase == domain.PhasePreseason {
			if gs, err = engine.StartSeason(gs); err != nil {
				return err
			}
		}

		run, err := engine.SimulateRemaining(ctx, gs, func(cp season.Checkpoint) {
			logger.Debug().
				Str("date", cp.Date).
				Str("phase", string(cp.Phase)).
				Int("completed", cp.Completed).
				Int("total", cp.Total).
				Msg("date simulated")
		})
		if err != nil {
			return err
		}
		gs = run.State
		if run.Cancelled {
			logger.Warn().Int("dates", run.Dates).Msg("simulation cancelled")
			printStandings(os.Stdout, gs)
			return ctx.Err()
		}

		fmt.Printf("Season %d (%d)\n", gs.Meta.Season, gs.Config.SeasonYear)
		printStandings(os.Stdout, gs)
		if champ := gs.Team(gs.ChampionTeamID); champ != nil {
			fmt.Printf("Champion: %s\n\n", champ.Name)
		}

		if i < *seasons-1 {
			if gs, err = engine.AdvanceSeason(gs); err != nil {
				return err
			}
		}
	}
	return nil
}
