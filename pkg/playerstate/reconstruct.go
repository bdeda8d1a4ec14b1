package playerstate

import (
	"fmt"
	"math/rand"

	"github.com/jordan-wolfaardt/screw/pkg/cards"
	"github.com/jordan-wolfaardt/screw/pkg/game"
)

// CreateGameState reconstructs a concrete game consistent with the
// belief. Every observationally-known card lands where the belief puts
// it; unknown cards (face-down bottoms, opponents' uncounted hands) are
// drawn at random from the unseen pool. tableCardsSet records whether
// the match is past the table-card selection phase.
func (s *PlayerState) CreateGameState(rng *rand.Rand, tableCardsSet bool) (*game.GameState, error) {
	deck := cards.NewDeck(rng)

	removeKnown := func(cs []cards.Card) error {
		for _, c := range cs {
			if !deck.Remove(c) {
				return fmt.Errorf("playerstate: card %s tracked twice", c)
			}
		}
		return nil
	}

	known := [][]cards.Card{
		s.DiscardPile, s.EliminatedCards,
		s.Hand.HandStack, s.Hand.TableStack,
	}
	for _, opp := range s.Opponents {
		known = append(known, opp.KnownHand, opp.TableStack)
	}
	for _, cs := range known {
		if err := removeKnown(cs); err != nil {
			return nil, err
		}
	}

	hands := make([]*game.Hand, s.NumberOfPlayers)
	for p := 0; p < s.NumberOfPlayers; p++ {
		var handStack, faceUp []cards.Card
		var remaining int
		if p == s.PlayerNumber {
			handStack = s.Hand.HandStack
			faceUp = s.Hand.TableStack
			remaining = s.Hand.TableStacksRemaining
		} else {
			opp := s.Opponents[p]
			handStack = opp.KnownHand
			faceUp = opp.TableStack
			remaining = opp.TableStacksRemaining
		}
		if len(faceUp) > remaining {
			return nil, fmt.Errorf("playerstate: player %d has %d face-up cards on %d stacks",
				p, len(faceUp), remaining)
		}

		hand := &game.Hand{
			HandStack:   append([]cards.Card(nil), handStack...),
			TableStacks: make([]game.TableStack, remaining),
		}
		for i := range faceUp {
			top := faceUp[i]
			hand.TableStacks[i].Top = &top
		}
		hands[p] = hand
	}

	// Unknown cards: bottoms for every remaining stack, then opponents'
	// uncounted hand cards.
	for _, hand := range hands {
		for i := range hand.TableStacks {
			bottom, ok := deck.Draw()
			if !ok {
				return nil, fmt.Errorf("playerstate: unseen pool exhausted dealing bottoms")
			}
			hand.TableStacks[i].Bottom = bottom
		}
	}
	for p := 0; p < s.NumberOfPlayers; p++ {
		opp, ok := s.Opponents[p]
		if !ok {
			continue
		}
		for i := 0; i < opp.HandCountUnknown; i++ {
			card, ok := deck.Draw()
			if !ok {
				return nil, fmt.Errorf("playerstate: unseen pool exhausted dealing to player %d", p)
			}
			hands[p].HandStack = append(hands[p].HandStack, card)
		}
	}

	if deck.Size() != s.DeckLength {
		return nil, fmt.Errorf("playerstate: reconstructed deck has %d cards, tracker says %d",
			deck.Size(), s.DeckLength)
	}

	return &game.GameState{
		NumberOfPlayers: s.NumberOfPlayers,
		Deck:            deck.Cards(),
		DiscardPile:     append([]cards.Card(nil), s.DiscardPile...),
		EliminatedCards: append([]cards.Card(nil), s.EliminatedCards...),
		LastPlay:        append([]cards.Card(nil), s.LastPlay...),
		Hands:           hands,
		PlayerTurn:      s.PlayerNumber,
		TableCardsSet:   tableCardsSet,
	}, nil
}

// BuildPlayerStates derives a belief view for every seat of a concrete
// game. Each seat sees its own cards in full; other hands count as
// unknown.
func BuildPlayerStates(gs *game.GameState) []*PlayerState {
	states := make([]*PlayerState, gs.NumberOfPlayers)
	for p := 0; p < gs.NumberOfPlayers; p++ {
		st := New(p)
		st.NumberOfPlayers = gs.NumberOfPlayers
		st.DeckLength = len(gs.Deck)
		st.DiscardPile = append([]cards.Card(nil), gs.DiscardPile...)
		st.EliminatedCards = append([]cards.Card(nil), gs.EliminatedCards...)
		st.LastPlay = append([]cards.Card(nil), gs.LastPlay...)
		st.Hand = PlayerHand{
			HandStack:            append([]cards.Card(nil), gs.Hands[p].HandStack...),
			TableStack:           gs.Hands[p].FaceUpCards(),
			TableStacksRemaining: len(gs.Hands[p].TableStacks),
		}
		st.Opponents = make(map[int]*OpponentHand)
		for o := 0; o < gs.NumberOfPlayers; o++ {
			if o == p {
				continue
			}
			st.Opponents[o] = &OpponentHand{
				HandCountUnknown:     len(gs.Hands[o].HandStack),
				TableStack:           gs.Hands[o].FaceUpCards(),
				TableStacksRemaining: len(gs.Hands[o].TableStacks),
			}
		}
		states[p] = st
	}
	return states
}
