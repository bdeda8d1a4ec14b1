package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jordan-wolfaardt/screw/pkg/config"
	"github.com/jordan-wolfaardt/screw/pkg/game"
	"github.com/jordan-wolfaardt/screw/pkg/messaging"
	"github.com/jordan-wolfaardt/screw/pkg/transport"
	"github.com/jordan-wolfaardt/screw/pkg/utils"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		players    int
		seed       int64
		endpoint   string
		debugLevel string
	)
	flag.IntVar(&players, "players", 0, "Number of players (2-4)")
	flag.Int64Var(&seed, "seed", cfg.Seed, "Deterministic RNG seed for the deck (0 = random)")
	flag.StringVar(&endpoint, "endpoint", cfg.PlayerEndpoint, "Player endpoint pattern, expanded per player number")
	flag.StringVar(&debugLevel, "debuglevel", cfg.DebugLevel, "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	// Bare positional N is also accepted: screwsrv 3
	if players == 0 && flag.NArg() == 1 {
		fmt.Sscanf(flag.Arg(0), "%d", &players)
	}
	if players < game.MinPlayers || players > game.MaxPlayers {
		fmt.Fprintf(os.Stderr, "players must be in [%d,%d]\n", game.MinPlayers, game.MaxPlayers)
		os.Exit(1)
	}
	cfg.PlayerEndpoint = endpoint

	log := utils.Logger("SRVR", debugLevel, os.Stdout)

	router, err := transport.DialPlayers(cfg.Endpoints(players), log)
	if err != nil {
		log.Errorf("failed to connect to players: %v", err)
		os.Exit(1)
	}
	defer router.Close()

	msg := messaging.New(players, router, log)
	g, err := game.NewGame(game.Config{
		NumPlayers: players,
		Seed:       seed,
		Log:        log,
		Messaging:  msg,
	})
	if err != nil {
		log.Errorf("failed to create game: %v", err)
		os.Exit(1)
	}

	if err := g.Run(); err != nil {
		log.Errorf("game aborted: %v", err)
		os.Exit(1)
	}
	log.Infof("game over, player %d wins", g.Winner())
}
