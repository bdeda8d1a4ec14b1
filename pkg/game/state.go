package game

import (
	"github.com/jordan-wolfaardt/screw/pkg/cards"
)

// GameState is a concrete snapshot of a match, detached from messaging
// and randomness. The belief-state reconstructor produces these, and
// tests use them to stack decks.
type GameState struct {
	NumberOfPlayers int
	Deck            []cards.Card
	DiscardPile     []cards.Card
	EliminatedCards []cards.Card
	LastPlay        []cards.Card
	Hands           []*Hand
	PlayerTurn      int
	TableCardsSet   bool
}

// NewGameFromState instantiates an engine mid-match from a snapshot.
// No GAME_INITIATED event is emitted; the players' trackers are assumed
// to already reflect the snapshot. cfg.NumPlayers is taken from the
// snapshot.
func NewGameFromState(st *GameState, cfg Config) (*Game, error) {
	cfg.NumPlayers = st.NumberOfPlayers
	g, err := newGame(cfg)
	if err != nil {
		return nil, err
	}

	g.deck = cards.NewDeckFromCards(st.Deck, g.rng)
	g.discard = append([]cards.Card(nil), st.DiscardPile...)
	g.eliminated = append([]cards.Card(nil), st.EliminatedCards...)
	g.lastPlay = append([]cards.Card(nil), st.LastPlay...)
	g.turn = st.PlayerTurn
	g.dealt = true
	g.tableCardsSet = st.TableCardsSet
	for i, h := range st.Hands {
		g.hands[i] = copyHand(h)
	}
	if err := g.assertConservation(); err != nil {
		return nil, err
	}
	return g, nil
}

// Snapshot deep-copies the game into a detached GameState.
func (g *Game) Snapshot() *GameState {
	st := &GameState{
		NumberOfPlayers: g.numPlayers,
		Deck:            g.deck.Cards(),
		DiscardPile:     append([]cards.Card(nil), g.discard...),
		EliminatedCards: append([]cards.Card(nil), g.eliminated...),
		LastPlay:        append([]cards.Card(nil), g.lastPlay...),
		Hands:           make([]*Hand, len(g.hands)),
		PlayerTurn:      g.turn,
		TableCardsSet:   g.tableCardsSet,
	}
	for i, h := range g.hands {
		st.Hands[i] = copyHand(h)
	}
	return st
}

func copyHand(h *Hand) *Hand {
	out := &Hand{
		HandStack:   append([]cards.Card(nil), h.HandStack...),
		TableStacks: make([]TableStack, len(h.TableStacks)),
	}
	for i, ts := range h.TableStacks {
		out.TableStacks[i] = TableStack{Bottom: ts.Bottom}
		if ts.Top != nil {
			top := *ts.Top
			out.TableStacks[i].Top = &top
		}
	}
	return out
}
