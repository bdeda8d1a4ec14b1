package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/decred/slog"

	"github.com/jordan-wolfaardt/screw/pkg/config"
	"github.com/jordan-wolfaardt/screw/pkg/players"
	"github.com/jordan-wolfaardt/screw/pkg/transport"
	"github.com/jordan-wolfaardt/screw/pkg/utils"
)

func main() {
	cfg, err := config.LoadPlayer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		number     int
		policyName string
		listenAddr string
		seed       int64
		debugLevel string
	)
	flag.IntVar(&number, "player", -1, "Player number assigned by the engine")
	flag.StringVar(&policyName, "policy", "greedy", "Policy: human, random, greedy, simpleMCTS")
	flag.StringVar(&listenAddr, "listen", cfg.ListenAddr, "Address to listen on for the engine")
	flag.Int64Var(&seed, "seed", cfg.Seed, "Deterministic RNG seed for the policy (0 = random)")
	flag.StringVar(&debugLevel, "debuglevel", cfg.DebugLevel, "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	// Bare positional arguments are also accepted: screwplayer 0 greedy
	if number < 0 && flag.NArg() >= 1 {
		fmt.Sscanf(flag.Arg(0), "%d", &number)
		if flag.NArg() >= 2 {
			policyName = flag.Arg(1)
		}
	}
	if number < 0 {
		fmt.Fprintln(os.Stderr, "-player is required")
		os.Exit(1)
	}

	log := utils.Logger(fmt.Sprintf("PLR%d", number), debugLevel, os.Stdout)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	policy, err := buildPolicy(policyName, rng, log)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	player := players.New(number, policy, log)
	listener := transport.NewListener(listenAddr, player.HandleMessage, log)
	log.Infof("listening on %s with policy %s", listenAddr, policyName)
	if err := listener.ListenAndServe(); err != nil {
		log.Errorf("listener failed: %v", err)
		os.Exit(1)
	}

	if win := player.State.Win; win != nil && *win == number {
		log.Infof("you won!")
	}
}

func buildPolicy(name string, rng *rand.Rand, log slog.Logger) (players.Policy, error) {
	switch strings.ToLower(name) {
	case "human":
		return players.NewHuman(os.Stdin, os.Stdout), nil
	case "random":
		return players.NewRandom(rng), nil
	case "greedy":
		return players.Greedy{}, nil
	case "simplemcts":
		return players.NewSimpleMCTS(rng, log), nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}
