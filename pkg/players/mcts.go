package players

import (
	"encoding/json"
	"math/rand"
	"runtime"

	"github.com/decred/slog"
	"golang.org/x/sync/errgroup"

	"github.com/jordan-wolfaardt/screw/pkg/game"
	"github.com/jordan-wolfaardt/screw/pkg/messaging"
	"github.com/jordan-wolfaardt/screw/pkg/playerstate"
	"github.com/jordan-wolfaardt/screw/pkg/transport"
	"github.com/jordan-wolfaardt/screw/pkg/wire"
)

const (
	// Rollouts per candidate action. The endgame count kicks in once
	// the deck runs low and positions become decidable.
	mctsIterations        = 5
	mctsEndgameIterations = 30
	mctsEndgameDeckLen    = 10
)

// SimpleMCTS is a one-ply uniform-weight Monte Carlo search. For each
// candidate action it reconstructs concrete games consistent with the
// belief, plays the action, lets greedy policies finish the match, and
// keeps the action with the best win rate.
type SimpleMCTS struct {
	rng     *rand.Rand
	log     slog.Logger
	workers int
}

// NewSimpleMCTS creates the policy over the given generator. Rollouts
// fan out across (action, trial) pairs on a bounded worker pool.
func NewSimpleMCTS(rng *rand.Rand, log slog.Logger) *SimpleMCTS {
	return &SimpleMCTS{rng: rng, log: log, workers: runtime.GOMAXPROCS(0)}
}

// SetTableCards searches over every three-card subset of the hand.
func (m *SimpleMCTS) SetTableCards(st *playerstate.PlayerState) (string, error) {
	options := combinations(st.HandCardCodes(), game.TableStacks)
	return m.choose(st, options, false)
}

// Play searches over picking up and every available play.
func (m *SimpleMCTS) Play(st *playerstate.PlayerState) (string, error) {
	var options []string
	if len(st.LastPlay) > 0 {
		options = append(options, PickUp)
	}
	options = append(options, AvailablePlays(st)...)
	if len(options) == 0 {
		return PickUp, nil
	}
	return m.choose(st, options, true)
}

func (m *SimpleMCTS) choose(st *playerstate.PlayerState, options []string, tableCardsSet bool) (string, error) {
	if len(options) == 1 {
		return options[0], nil
	}

	iterations := mctsIterations
	if st.DeckLength < mctsEndgameDeckLen {
		iterations = mctsEndgameIterations
	}
	m.log.Debugf("testing %d plays with %d iterations each", len(options), iterations)

	wins := make([][]bool, len(options))
	var g errgroup.Group
	g.SetLimit(m.workers)
	for i := range options {
		wins[i] = make([]bool, iterations)
		for j := 0; j < iterations; j++ {
			i, j := i, j
			option := options[i]
			belief := st.Clone()
			seed := m.rng.Int63()
			g.Go(func() error {
				won, err := m.simulate(belief, option, tableCardsSet, seed)
				if err != nil {
					return err
				}
				wins[i][j] = won
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	best := 0
	bestWins := -1
	for i, trials := range wins {
		count := 0
		for _, won := range trials {
			if won {
				count++
			}
		}
		m.log.Debugf("play %s wins %d/%d", options[i], count, iterations)
		if count > bestWins {
			best = i
			bestWins = count
		}
	}
	m.log.Debugf("choosing play %s", options[best])
	return options[best], nil
}

// simulate reconstructs one concrete game from the belief, forces the
// candidate action as the first self decision, and plays the match out
// with greedy policies on every seat.
func (m *SimpleMCTS) simulate(belief *playerstate.PlayerState, option string, tableCardsSet bool, seed int64) (bool, error) {
	rng := rand.New(rand.NewSource(seed))
	gs, err := belief.CreateGameState(rng, tableCardsSet)
	if err != nil {
		return false, err
	}

	states := playerstate.BuildPlayerStates(gs)
	handlers := make([]transport.Handler, gs.NumberOfPlayers)
	for i := range handlers {
		pl := New(i, Greedy{}, slog.Disabled)
		pl.State = states[i]
		if i == belief.PlayerNumber {
			handlers[i] = (&forcedFirst{play: option, inner: pl}).handle
		} else {
			handlers[i] = pl.HandleMessage
		}
	}

	msg := messaging.New(gs.NumberOfPlayers, transport.NewLocal(handlers), slog.Disabled)
	sim, err := game.NewGameFromState(gs, game.Config{
		Rng:        rng,
		SetupStart: belief.PlayerNumber,
		Log:        slog.Disabled,
		Messaging:  msg,
	})
	if err != nil {
		return false, err
	}
	if err := sim.Run(); err != nil {
		return false, err
	}
	return sim.Winner() == belief.PlayerNumber, nil
}

// forcedFirst answers the first request with the candidate action and
// delegates everything else to the wrapped greedy player.
type forcedFirst struct {
	play  string
	inner *Player
	used  bool
}

func (f *forcedFirst) handle(body []byte) ([]byte, error) {
	env, err := wire.DecodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if env.Type != wire.EnvelopeRequest || f.used {
		return f.inner.HandleMessage(body)
	}
	f.used = true
	var resp wire.Response
	switch {
	case env.RequestType == wire.RequestSetTableCards:
		resp = wire.Response{Action: wire.ActionSetTableCards, Cards: wire.Str(f.play)}
	case f.play == PickUp:
		resp = wire.Response{Action: wire.ActionPickUpDiscardPile}
	default:
		resp = wire.Response{Action: wire.ActionPlayKnownCards, Cards: wire.Str(f.play)}
	}
	return json.Marshal(resp)
}
