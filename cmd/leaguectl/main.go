// Command leaguectl drives a league server from the terminal, or runs whole
// leagues in-process with the local subcommand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"franchise-league/internal/api"
)

const usage = `usage: leaguectl [-addr URL] <command> [flags] [args]

commands:
  create    generate a new league
  list      list stored leagues
  show      print a league summary
  auction   progress the auction of a league
  start     start the season of a seeded league
  next      simulate the next scheduled date
  simulate  simulate the rest of the season
  advance   roll a completed league into its next season
  validate  list invariant violations of a stored league
  local     run leagues in-process without a server
`

func main() {
	addr := flag.String("addr", envOr("LEAGUE_API_URL", "http://localhost:8080"), "league server base URL")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	var err error
	if cmd == "local" {
		err = runLocal(ctx, args)
	} else {
		err = runRemote(ctx, api.NewLeagueClient(*addr), cmd, args)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
