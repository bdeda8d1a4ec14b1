package playerstate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jordan-wolfaardt/screw/pkg/cards"
	"github.com/jordan-wolfaardt/screw/pkg/game"
	"github.com/jordan-wolfaardt/screw/pkg/wire"
)

func apply(t *testing.T, s *PlayerState, ut wire.UpdateType, player *int, cardCodes string) {
	t.Helper()
	u := wire.Update{UpdateType: ut, PlayerNumber: player}
	if cardCodes != "" {
		u.Cards = wire.Str(cardCodes)
	}
	require.NoError(t, s.Apply(u))
}

// trackedSetup walks a tracker for seat 0 of a two-player match through
// the deal: six cards each, then both table-card selections. Seat 0
// draws D3,D4,D5,D6,D7,D8 and banks D6,D7,D8.
func trackedSetup(t *testing.T) *PlayerState {
	t.Helper()
	s := New(0)
	u := wire.Update{UpdateType: wire.UpdateGameInitiated, NumberOfPlayers: wire.Int(2)}
	require.NoError(t, s.Apply(u))

	own := []string{"D3", "D4", "D5", "D6", "D7", "D8"}
	for _, code := range own {
		apply(t, s, wire.UpdateYouDrewCard, nil, code)
		apply(t, s, wire.UpdatePlayerDrewCard, wire.Int(1), "")
	}
	apply(t, s, wire.UpdateSetTableCards, wire.Int(0), "D6,D7,D8")
	apply(t, s, wire.UpdateSetTableCards, wire.Int(1), "C6,C7,C8")
	return s
}

func TestBuildOnGameInitiated(t *testing.T) {
	s := New(1)
	require.NoError(t, s.Apply(wire.Update{
		UpdateType:      wire.UpdateGameInitiated,
		NumberOfPlayers: wire.Int(3),
	}))

	require.Equal(t, 3, s.NumberOfPlayers)
	require.Equal(t, 52-3*game.TableStacks, s.DeckLength)
	require.Len(t, s.Opponents, 2)
	require.Equal(t, game.TableStacks, s.Hand.TableStacksRemaining)
	require.Equal(t, 52, s.sumCards())
}

func TestSetupTracking(t *testing.T) {
	s := trackedSetup(t)

	require.Equal(t, 46-12, s.DeckLength)
	require.Equal(t, []string{"D3", "D4", "D5"}, s.HandCardCodes())
	require.Equal(t, []string{"D6", "D7", "D8"}, s.TableCardCodes())

	opp := s.Opponents[1]
	require.Equal(t, 3, opp.HandCountUnknown)
	require.Equal(t, []string{"C6", "C7", "C8"}, cards.Codes(opp.TableStack))
	require.Equal(t, 52, s.sumCards())
}

func TestPlayFromHandSelfAndOpponent(t *testing.T) {
	s := trackedSetup(t)

	apply(t, s, wire.UpdatePlayFromHand, wire.Int(0), "D3")
	require.Equal(t, []string{"D4", "D5"}, s.HandCardCodes())
	require.Equal(t, "D3", cards.Encode(s.LastPlay))
	require.Equal(t, "D3", cards.Encode(s.DiscardPile))

	// Opponent plays an unseen card: their unknown count absorbs it.
	apply(t, s, wire.UpdatePlayFromHand, wire.Int(1), "H4")
	require.Equal(t, 2, s.Opponents[1].HandCountUnknown)
	require.Equal(t, "D3,H4", cards.Encode(s.DiscardPile))
	require.Equal(t, 52, s.sumCards())
}

func TestOpponentPickupMakesCardsKnown(t *testing.T) {
	s := trackedSetup(t)

	apply(t, s, wire.UpdatePlayFromHand, wire.Int(0), "D3")
	apply(t, s, wire.UpdatePlayerPickedUpDiscardPile, wire.Int(1), "")

	opp := s.Opponents[1]
	require.Equal(t, []string{"D3"}, cards.Codes(opp.KnownHand))
	require.Empty(t, s.DiscardPile)
	require.Nil(t, s.LastPlay)

	// When the opponent later plays the known card, it comes out of the
	// known hand, not the unknown count.
	apply(t, s, wire.UpdatePlayFromHand, wire.Int(1), "D3")
	require.Empty(t, opp.KnownHand)
	require.Equal(t, 3, opp.HandCountUnknown)
	require.Equal(t, 52, s.sumCards())
}

func TestBurnMovesDiscardToEliminated(t *testing.T) {
	s := trackedSetup(t)

	apply(t, s, wire.UpdatePlayFromHand, wire.Int(0), "D3")
	apply(t, s, wire.UpdateBurnDiscardPile, nil, "")

	require.Empty(t, s.DiscardPile)
	require.Nil(t, s.LastPlay)
	require.Equal(t, []string{"D3"}, cards.Codes(s.EliminatedCards))
	require.Equal(t, 52, s.sumCards())
}

func TestFacedownEvents(t *testing.T) {
	s := trackedSetup(t)

	// Opponent's reveal holds up: card hits the pile, one stack gone.
	apply(t, s, wire.UpdatePlayFromFacedownSuccess, wire.Int(1), "SA")
	require.Equal(t, 2, s.Opponents[1].TableStacksRemaining)
	require.Equal(t, "SA", cards.Encode(s.LastPlay))

	// Our own reveal fails: the card lands in our hand.
	apply(t, s, wire.UpdatePlayFromFacedownFailure, wire.Int(0), "H3")
	require.Equal(t, 2, s.Hand.TableStacksRemaining)
	require.Contains(t, s.HandCardCodes(), "H3")
	require.Equal(t, 52, s.sumCards())
}

func TestFaceupFailureReturnsCardsToHand(t *testing.T) {
	s := trackedSetup(t)

	apply(t, s, wire.UpdatePlayFromFaceupFailure, wire.Int(0), "D6")
	require.Contains(t, s.HandCardCodes(), "D6")
	require.Equal(t, []string{"D7", "D8"}, s.TableCardCodes())
	require.Equal(t, 52, s.sumCards())
}

func TestPlayerWins(t *testing.T) {
	s := trackedSetup(t)
	apply(t, s, wire.UpdatePlayerWins, wire.Int(1), "")
	require.NotNil(t, s.Win)
	require.Equal(t, 1, *s.Win)
}

func TestDeckDepletedChecksTracking(t *testing.T) {
	s := trackedSetup(t)
	err := s.Apply(wire.Update{UpdateType: wire.UpdateDeckDepleted})
	var invariantErr *game.InvariantError
	require.ErrorAs(t, err, &invariantErr)
}

func TestUpdatesBeforeGameInitiatedAreRejected(t *testing.T) {
	s := New(0)
	err := s.Apply(wire.Update{UpdateType: wire.UpdateBurnDiscardPile})
	require.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	s := trackedSetup(t)
	clone := s.Clone()

	apply(t, s, wire.UpdatePlayFromHand, wire.Int(0), "D3")
	require.Contains(t, clone.HandCardCodes(), "D3")
	require.Equal(t, 52, clone.sumCards())
}

func TestCreateGameState(t *testing.T) {
	s := trackedSetup(t)
	apply(t, s, wire.UpdatePlayFromHand, wire.Int(0), "D3")

	gs, err := s.CreateGameState(rand.New(rand.NewSource(7)), true)
	require.NoError(t, err)

	require.Equal(t, 2, gs.NumberOfPlayers)
	require.Equal(t, s.DeckLength, len(gs.Deck))
	require.Equal(t, 0, gs.PlayerTurn)
	require.True(t, gs.TableCardsSet)
	require.Equal(t, "D3", cards.Encode(gs.DiscardPile))
	require.Equal(t, "D3", cards.Encode(gs.LastPlay))

	// Our own cards land exactly where the belief puts them.
	require.Equal(t, []string{"D4", "D5"}, cards.Codes(gs.Hands[0].HandStack))
	require.Equal(t, []string{"D6", "D7", "D8"}, cards.Codes(gs.Hands[0].FaceUpCards()))

	// The opponent's hand is their unknown count plus nothing known.
	require.Len(t, gs.Hands[1].HandStack, 3)
	require.Equal(t, []string{"C6", "C7", "C8"}, cards.Codes(gs.Hands[1].FaceUpCards()))

	// Every stack got a hidden bottom card and conservation holds.
	total := len(gs.Deck) + len(gs.DiscardPile) + len(gs.EliminatedCards)
	for _, h := range gs.Hands {
		total += h.CardCount()
	}
	require.Equal(t, 52, total)

	// Known cards never appear among the unseen draws.
	for _, c := range gs.Deck {
		require.NotContains(t, s.HandCardCodes(), c.Code())
	}
}

func TestCreateGameStateIsDeterministic(t *testing.T) {
	s := trackedSetup(t)

	first, err := s.CreateGameState(rand.New(rand.NewSource(11)), true)
	require.NoError(t, err)
	second, err := s.CreateGameState(rand.New(rand.NewSource(11)), true)
	require.NoError(t, err)
	require.Equal(t, cards.Encode(first.Deck), cards.Encode(second.Deck))
	require.Equal(t,
		cards.Encode(first.Hands[1].HandStack),
		cards.Encode(second.Hands[1].HandStack))
}

func TestBuildPlayerStates(t *testing.T) {
	s := trackedSetup(t)
	gs, err := s.CreateGameState(rand.New(rand.NewSource(3)), true)
	require.NoError(t, err)

	states := BuildPlayerStates(gs)
	require.Len(t, states, 2)
	for i, st := range states {
		require.Equal(t, i, st.PlayerNumber)
		require.Equal(t, 52, st.sumCards())
		require.Equal(t,
			cards.Codes(gs.Hands[i].HandStack),
			st.HandCardCodes())
	}
	// Opposing hands are opaque counts.
	require.Empty(t, states[0].Opponents[1].KnownHand)
	require.Equal(t, len(gs.Hands[1].HandStack), states[0].Opponents[1].HandCountUnknown)
}
