// Package playerstate maintains one player's belief over the hidden
// parts of a match. The tracker consumes observation events and keeps a
// conservation-checked account of every card: seen, inferred, or merely
// counted. From a belief it can reconstruct a concrete, plausible game
// state for simulation.
package playerstate

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/jordan-wolfaardt/screw/pkg/cards"
	"github.com/jordan-wolfaardt/screw/pkg/game"
	"github.com/jordan-wolfaardt/screw/pkg/wire"
)

// PlayerHand is what the player knows about their own holdings.
type PlayerHand struct {
	HandStack            []cards.Card
	TableStack           []cards.Card // face-up cards
	TableStacksRemaining int
}

// OpponentHand is what the player knows about one opponent: cards the
// opponent demonstrably holds, a count of the rest, and the visible
// table cards.
type OpponentHand struct {
	KnownHand            []cards.Card
	HandCountUnknown     int
	TableStack           []cards.Card // face-up cards
	TableStacksRemaining int
}

// PlayerState is one player's belief over the match.
type PlayerState struct {
	PlayerNumber    int
	NumberOfPlayers int

	Hand      PlayerHand
	Opponents map[int]*OpponentHand

	DeckLength      int
	DiscardPile     []cards.Card
	EliminatedCards []cards.Card
	LastPlay        []cards.Card
	Win             *int
}

// New creates an empty tracker for the given seat. State is built on
// the GAME_INITIATED event.
func New(playerNumber int) *PlayerState {
	return &PlayerState{PlayerNumber: playerNumber}
}

// Apply folds one observation event into the belief and verifies belief
// conservation. A conservation failure is a programmer error.
func (s *PlayerState) Apply(u wire.Update) error {
	var cs []cards.Card
	if u.Cards != nil {
		var err error
		cs, err = cards.ParseCards(*u.Cards)
		if err != nil {
			return err
		}
	}

	if u.UpdateType != wire.UpdateGameInitiated && s.NumberOfPlayers == 0 {
		return fmt.Errorf("playerstate: %s before GAME_INITIATED", u.UpdateType)
	}

	switch u.UpdateType {
	case wire.UpdateGameInitiated:
		if u.NumberOfPlayers == nil {
			return fmt.Errorf("playerstate: GAME_INITIATED without number_of_players")
		}
		s.build(*u.NumberOfPlayers)

	case wire.UpdateDeckDepleted:
		if s.DeckLength != 0 {
			return s.invariant(fmt.Sprintf("DECK_DEPLETED with %d cards tracked", s.DeckLength))
		}

	case wire.UpdatePlayerWins:
		if u.PlayerNumber == nil {
			return missingField(u.UpdateType, "player_number")
		}
		winner := *u.PlayerNumber
		s.Win = &winner

	case wire.UpdateYouDrewCard:
		if len(cs) == 0 {
			return missingField(u.UpdateType, "cards")
		}
		s.DeckLength--
		s.Hand.HandStack = append(s.Hand.HandStack, cs...)

	case wire.UpdatePlayerDrewCard:
		opp, err := s.opponent(u)
		if err != nil {
			return err
		}
		s.DeckLength--
		opp.HandCountUnknown++

	case wire.UpdateYouPickedUpDiscardPile:
		s.Hand.HandStack = append(s.Hand.HandStack, cs...)
		s.DiscardPile = nil
		s.LastPlay = nil

	case wire.UpdatePlayerPickedUpDiscardPile:
		opp, err := s.opponent(u)
		if err != nil {
			return err
		}
		opp.KnownHand = append(opp.KnownHand, s.DiscardPile...)
		s.DiscardPile = nil
		s.LastPlay = nil

	case wire.UpdateBurnDiscardPile:
		s.EliminatedCards = append(s.EliminatedCards, s.DiscardPile...)
		s.DiscardPile = nil
		s.LastPlay = nil

	case wire.UpdatePlayFromHand:
		if err := s.observePlay(u, cs); err != nil {
			return err
		}
		if s.isSelf(u) {
			s.removeFromOwnHand(cs)
		} else {
			opp, err := s.opponent(u)
			if err != nil {
				return err
			}
			removeFromOpponentHand(opp, cs)
		}

	case wire.UpdatePlayFromTable:
		if err := s.observePlay(u, cs); err != nil {
			return err
		}
		if s.isSelf(u) {
			s.Hand.TableStack = removeCards(s.Hand.TableStack, cs)
		} else {
			opp, err := s.opponent(u)
			if err != nil {
				return err
			}
			opp.TableStack = removeCards(opp.TableStack, cs)
		}

	case wire.UpdatePlayFromFacedownSuccess:
		if err := s.observePlay(u, cs); err != nil {
			return err
		}
		if s.isSelf(u) {
			s.Hand.TableStacksRemaining--
		} else {
			opp, err := s.opponent(u)
			if err != nil {
				return err
			}
			opp.TableStacksRemaining--
		}

	case wire.UpdatePlayFromFacedownFailure:
		if s.isSelf(u) {
			s.Hand.HandStack = append(s.Hand.HandStack, cs...)
			s.Hand.TableStacksRemaining--
		} else {
			opp, err := s.opponent(u)
			if err != nil {
				return err
			}
			opp.KnownHand = append(opp.KnownHand, cs...)
			opp.TableStacksRemaining--
		}

	case wire.UpdatePlayFromFaceupFailure:
		if s.isSelf(u) {
			s.Hand.HandStack = append(s.Hand.HandStack, cs...)
			s.Hand.TableStack = removeCards(s.Hand.TableStack, cs)
		} else {
			opp, err := s.opponent(u)
			if err != nil {
				return err
			}
			opp.KnownHand = append(opp.KnownHand, cs...)
			opp.TableStack = removeCards(opp.TableStack, cs)
		}

	case wire.UpdateSetTableCards:
		if s.isSelf(u) {
			s.Hand.TableStack = append(s.Hand.TableStack, cs...)
			s.removeFromOwnHand(cs)
		} else {
			opp, err := s.opponent(u)
			if err != nil {
				return err
			}
			opp.TableStack = append(opp.TableStack, cs...)
			opp.HandCountUnknown -= len(cs)
		}

	case wire.UpdateInvalidAction:
		// Carries no state.

	default:
		return fmt.Errorf("playerstate: unknown update type %q", u.UpdateType)
	}

	if s.NumberOfPlayers > 0 {
		if total := s.sumCards(); total != game.DeckLen {
			return s.invariant(fmt.Sprintf("belief card count %d != %d after %s",
				total, game.DeckLen, u.UpdateType))
		}
	}
	return nil
}

func (s *PlayerState) build(numPlayers int) {
	s.NumberOfPlayers = numPlayers
	s.DeckLength = game.DeckLen - game.TableStacks*numPlayers
	s.DiscardPile = nil
	s.EliminatedCards = nil
	s.LastPlay = nil
	s.Win = nil
	s.Hand = PlayerHand{TableStacksRemaining: game.TableStacks}
	s.Opponents = make(map[int]*OpponentHand)
	for i := 0; i < numPlayers; i++ {
		if i != s.PlayerNumber {
			s.Opponents[i] = &OpponentHand{TableStacksRemaining: game.TableStacks}
		}
	}
}

// sumCards totals every card the belief accounts for.
func (s *PlayerState) sumCards() int {
	total := s.DeckLength + len(s.DiscardPile) + len(s.EliminatedCards)
	total += len(s.Hand.HandStack) + len(s.Hand.TableStack) + s.Hand.TableStacksRemaining
	for _, opp := range s.Opponents {
		total += len(opp.KnownHand) + opp.HandCountUnknown +
			len(opp.TableStack) + opp.TableStacksRemaining
	}
	return total
}

// observePlay records a successful play on the shared piles.
func (s *PlayerState) observePlay(u wire.Update, cs []cards.Card) error {
	if len(cs) == 0 {
		return missingField(u.UpdateType, "cards")
	}
	s.LastPlay = append([]cards.Card(nil), cs...)
	s.DiscardPile = append(s.DiscardPile, cs...)
	return nil
}

func (s *PlayerState) isSelf(u wire.Update) bool {
	return u.PlayerNumber != nil && *u.PlayerNumber == s.PlayerNumber
}

func (s *PlayerState) opponent(u wire.Update) (*OpponentHand, error) {
	if u.PlayerNumber == nil {
		return nil, missingField(u.UpdateType, "player_number")
	}
	opp, ok := s.Opponents[*u.PlayerNumber]
	if !ok {
		return nil, fmt.Errorf("playerstate: unknown opponent %d", *u.PlayerNumber)
	}
	return opp, nil
}

func (s *PlayerState) removeFromOwnHand(cs []cards.Card) {
	s.Hand.HandStack = removeCards(s.Hand.HandStack, cs)
}

// removeFromOpponentHand removes played cards from an opponent's known
// hand where possible; cards not known decrement the unknown count.
func removeFromOpponentHand(opp *OpponentHand, cs []cards.Card) {
	unaccounted := len(cs)
	for _, c := range cs {
		if contains(opp.KnownHand, c) {
			opp.KnownHand = removeCards(opp.KnownHand, []cards.Card{c})
			unaccounted--
		}
	}
	opp.HandCountUnknown -= unaccounted
}

func (s *PlayerState) invariant(reason string) error {
	return &game.InvariantError{Reason: reason, Dump: spew.Sdump(s)}
}

func missingField(ut wire.UpdateType, field string) error {
	return fmt.Errorf("playerstate: %s without %s", ut, field)
}

// AvailableCards returns the stack the player would play from right
// now: the hand while it has cards, otherwise the face-up table cards.
func (s *PlayerState) AvailableCards() []cards.Card {
	if len(s.Hand.HandStack) > 0 {
		return s.Hand.HandStack
	}
	return s.Hand.TableStack
}

// HandCardCodes returns the codes of the player's hand cards.
func (s *PlayerState) HandCardCodes() []string {
	return cards.Codes(s.Hand.HandStack)
}

// TableCardCodes returns the codes of the player's face-up cards.
func (s *PlayerState) TableCardCodes() []string {
	return cards.Codes(s.Hand.TableStack)
}

// Clone deep-copies the belief, for concurrent rollouts.
func (s *PlayerState) Clone() *PlayerState {
	out := &PlayerState{
		PlayerNumber:    s.PlayerNumber,
		NumberOfPlayers: s.NumberOfPlayers,
		Hand: PlayerHand{
			HandStack:            append([]cards.Card(nil), s.Hand.HandStack...),
			TableStack:           append([]cards.Card(nil), s.Hand.TableStack...),
			TableStacksRemaining: s.Hand.TableStacksRemaining,
		},
		DeckLength:      s.DeckLength,
		DiscardPile:     append([]cards.Card(nil), s.DiscardPile...),
		EliminatedCards: append([]cards.Card(nil), s.EliminatedCards...),
		LastPlay:        append([]cards.Card(nil), s.LastPlay...),
	}
	if s.Win != nil {
		win := *s.Win
		out.Win = &win
	}
	if s.Opponents != nil {
		out.Opponents = make(map[int]*OpponentHand, len(s.Opponents))
		for i, opp := range s.Opponents {
			out.Opponents[i] = &OpponentHand{
				KnownHand:            append([]cards.Card(nil), opp.KnownHand...),
				HandCountUnknown:     opp.HandCountUnknown,
				TableStack:           append([]cards.Card(nil), opp.TableStack...),
				TableStacksRemaining: opp.TableStacksRemaining,
			}
		}
	}
	return out
}

func contains(cs []cards.Card, c cards.Card) bool {
	for _, have := range cs {
		if have == c {
			return true
		}
	}
	return false
}

func removeCards(cs []cards.Card, remove []cards.Card) []cards.Card {
	for _, c := range remove {
		for i, have := range cs {
			if have == c {
				cs = append(cs[:i], cs[i+1:]...)
				break
			}
		}
	}
	return cs
}
