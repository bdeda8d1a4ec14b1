// Package players implements the policies: human console I/O, uniform
// random, greedy, and a one-ply Monte Carlo search. Every policy sits
// behind a Player that consumes the engine's event stream, keeps a
// belief tracker current, and answers requests.
package players

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/decred/slog"

	"github.com/jordan-wolfaardt/screw/pkg/cards"
	"github.com/jordan-wolfaardt/screw/pkg/playerstate"
	"github.com/jordan-wolfaardt/screw/pkg/wire"
)

// PickUp is the policy reply meaning "pick up the discard pile".
const PickUp = "1"

// Policy decides a player's moves from their belief state. Replies are
// card-code strings; Play may return PickUp.
type Policy interface {
	SetTableCards(st *playerstate.PlayerState) (string, error)
	Play(st *playerstate.PlayerState) (string, error)
}

// Player binds a policy to a belief tracker and speaks the wire
// protocol.
type Player struct {
	Number int
	State  *playerstate.PlayerState
	policy Policy
	log    slog.Logger
}

// New creates a player for the given seat.
func New(number int, policy Policy, log slog.Logger) *Player {
	return &Player{
		Number: number,
		State:  playerstate.New(number),
		policy: policy,
		log:    log,
	}
}

// HandleMessage consumes one routed frame: updates fold into the
// tracker and are acked empty, requests are answered by the policy.
func (p *Player) HandleMessage(body []byte) ([]byte, error) {
	env, err := wire.DecodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	switch env.Type {
	case wire.EnvelopeUpdate:
		p.logUpdate(*env.Update)
		if err := p.State.Apply(*env.Update); err != nil {
			return nil, err
		}
		return []byte{}, nil
	default:
		resp, err := p.handleRequest(env.RequestType)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resp)
	}
}

func (p *Player) handleRequest(rt wire.RequestType) (wire.Response, error) {
	switch rt {
	case wire.RequestSetTableCards:
		selected, err := p.policy.SetTableCards(p.State)
		if err != nil {
			return wire.Response{}, err
		}
		return wire.Response{Action: wire.ActionSetTableCards, Cards: wire.Str(selected)}, nil
	case wire.RequestPlay:
		move, err := p.policy.Play(p.State)
		if err != nil {
			return wire.Response{}, err
		}
		if move == PickUp {
			return wire.Response{Action: wire.ActionPickUpDiscardPile}, nil
		}
		return wire.Response{Action: wire.ActionPlayKnownCards, Cards: wire.Str(move)}, nil
	default:
		return wire.Response{}, fmt.Errorf("players: unknown request type %q", rt)
	}
}

func (p *Player) logUpdate(u wire.Update) {
	parts := []string{string(u.UpdateType)}
	if u.PlayerNumber != nil {
		parts = append(parts, fmt.Sprintf("player number: %d", *u.PlayerNumber))
	}
	if u.Cards != nil {
		parts = append(parts, "cards: "+*u.Cards)
	}
	if u.Message != nil {
		parts = append(parts, "message: "+*u.Message)
	}
	p.log.Infof("%s", strings.Join(parts, ", "))
}

// AvailablePlays lists the legal plays from the tracker's current
// state, lexically sorted for determinism.
func AvailablePlays(st *playerstate.PlayerState) []string {
	set := cards.AvailablePlays(st.AvailableCards(), st.LastPlay, st.DiscardPile)
	plays := make([]string, 0, len(set))
	for play := range set {
		plays = append(plays, play)
	}
	sort.Strings(plays)
	return plays
}

// playRank returns the shared rank of a serialised play.
func playRank(play string) cards.Rank {
	return cards.Rank(play[1:2])
}

// combinations returns every k-element subset of the given codes,
// joined with commas.
func combinations(codes []string, k int) []string {
	if k <= 0 || k > len(codes) {
		return nil
	}
	var out []string
	combo := make([]string, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			out = append(out, strings.Join(combo, ","))
			return
		}
		for i := start; i <= len(codes)-(k-depth); i++ {
			combo[depth] = codes[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}
