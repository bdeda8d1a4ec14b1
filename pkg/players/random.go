package players

import (
	"math/rand"

	"github.com/jordan-wolfaardt/screw/pkg/game"
	"github.com/jordan-wolfaardt/screw/pkg/playerstate"
)

// Random picks uniformly over the legal options. All randomness flows
// through the injected generator so games replay under a fixed seed.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random policy over the given generator.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

// SetTableCards picks a uniform three-card subset of the hand.
func (r *Random) SetTableCards(st *playerstate.PlayerState) (string, error) {
	options := combinations(st.HandCardCodes(), game.TableStacks)
	return options[r.rng.Intn(len(options))], nil
}

// Play picks uniformly over picking up (when there is a pile to pick
// up) and every available play.
func (r *Random) Play(st *playerstate.PlayerState) (string, error) {
	var options []string
	if len(st.LastPlay) > 0 {
		options = append(options, PickUp)
	}
	options = append(options, AvailablePlays(st)...)
	if len(options) == 0 {
		return PickUp, nil
	}
	return options[r.rng.Intn(len(options))], nil
}
