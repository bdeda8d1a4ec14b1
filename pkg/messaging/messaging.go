// Package messaging multiplexes the engine's observation events and
// blocking requests onto one synchronous request/reply channel. The
// channel's peer routes each frame to the addressed player and returns
// that player's reply; updates are acknowledged with an empty body so
// the channel carries one message at a time.
package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/decred/slog"

	"github.com/jordan-wolfaardt/screw/pkg/cards"
	"github.com/jordan-wolfaardt/screw/pkg/wire"
)

// Channel is a synchronous duplex transport: one frame out, one reply
// back. Implementations must not reorder or interleave frames.
type Channel interface {
	Roundtrip(body []byte) ([]byte, error)
}

// Messaging emits observation events and issues requests for the engine.
type Messaging struct {
	numPlayers int
	ch         Channel
	log        slog.Logger
}

// New creates a messaging adapter over the given channel.
func New(numPlayers int, ch Channel, log slog.Logger) *Messaging {
	return &Messaging{numPlayers: numPlayers, ch: ch, log: log}
}

// GameInitiated announces a new match to every player.
func (m *Messaging) GameInitiated() error {
	return m.updatePlayers(wire.Update{
		UpdateType:      wire.UpdateGameInitiated,
		NumberOfPlayers: wire.Int(m.numPlayers),
	}, -1)
}

// DeckDepleted announces that the deck just emptied.
func (m *Messaging) DeckDepleted() error {
	return m.updatePlayers(wire.Update{UpdateType: wire.UpdateDeckDepleted}, -1)
}

// PlayerWins announces the winner to every player.
func (m *Messaging) PlayerWins(player int) error {
	return m.updatePlayers(wire.Update{
		UpdateType:   wire.UpdatePlayerWins,
		PlayerNumber: wire.Int(player),
	}, -1)
}

// CardDraw reports a draw: the card privately to the actor, the fact of
// the draw publicly to everyone else.
func (m *Messaging) CardDraw(player int, card cards.Card) error {
	err := m.updatePlayer(player, wire.Update{
		UpdateType: wire.UpdateYouDrewCard,
		Cards:      wire.Str(card.Code()),
	})
	if err != nil {
		return err
	}
	return m.updatePlayers(wire.Update{
		UpdateType:   wire.UpdatePlayerDrewCard,
		PlayerNumber: wire.Int(player),
	}, player)
}

// DiscardPilePickup reports a pickup: the card list privately to the
// actor, the fact publicly to everyone else.
func (m *Messaging) DiscardPilePickup(player int, picked []cards.Card) error {
	err := m.updatePlayer(player, wire.Update{
		UpdateType: wire.UpdateYouPickedUpDiscardPile,
		Cards:      wire.Str(cards.Encode(picked)),
	})
	if err != nil {
		return err
	}
	return m.updatePlayers(wire.Update{
		UpdateType:   wire.UpdatePlayerPickedUpDiscardPile,
		PlayerNumber: wire.Int(player),
	}, player)
}

// BurnDiscardPile announces that the discard pile was eliminated.
func (m *Messaging) BurnDiscardPile() error {
	return m.updatePlayers(wire.Update{UpdateType: wire.UpdateBurnDiscardPile}, -1)
}

// PlayFromHand broadcasts a successful play from a hand.
func (m *Messaging) PlayFromHand(player int, played []cards.Card) error {
	return m.broadcastPlay(wire.UpdatePlayFromHand, player, played)
}

// PlayFromTable broadcasts a successful play from face-up table cards.
func (m *Messaging) PlayFromTable(player int, played []cards.Card) error {
	return m.broadcastPlay(wire.UpdatePlayFromTable, player, played)
}

// PlayFromFacedownSuccess broadcasts a face-down reveal that held up.
func (m *Messaging) PlayFromFacedownSuccess(player int, card cards.Card) error {
	return m.broadcastPlay(wire.UpdatePlayFromFacedownSuccess, player, []cards.Card{card})
}

// PlayFromFacedownFailure broadcasts a face-down reveal that failed.
func (m *Messaging) PlayFromFacedownFailure(player int, card cards.Card) error {
	return m.broadcastPlay(wire.UpdatePlayFromFacedownFailure, player, []cards.Card{card})
}

// PlayFromFaceupFailure broadcasts a face-up attempt that was illegal by
// rank and returned to the player's hand.
func (m *Messaging) PlayFromFaceupFailure(player int, played []cards.Card) error {
	return m.broadcastPlay(wire.UpdatePlayFromFaceupFailure, player, played)
}

// SetTableCards broadcasts a player's face-up table card selection.
func (m *Messaging) SetTableCards(player int, selected []cards.Card) error {
	return m.broadcastPlay(wire.UpdateSetTableCards, player, selected)
}

// InvalidAction tells the offending player their action was rejected.
func (m *Messaging) InvalidAction(player int, message string) error {
	return m.updatePlayer(player, wire.Update{
		UpdateType: wire.UpdateInvalidAction,
		Message:    wire.Str(message),
	})
}

// Request blocks until the player answers the given request.
func (m *Messaging) Request(player int, rt wire.RequestType) (wire.Response, error) {
	body, err := json.Marshal(wire.NewRequestEnvelope(player, rt))
	if err != nil {
		return wire.Response{}, err
	}
	reply, err := m.ch.Roundtrip(body)
	if err != nil {
		return wire.Response{}, fmt.Errorf("messaging: request to player %d: %w", player, err)
	}
	return wire.DecodeResponse(reply)
}

func (m *Messaging) broadcastPlay(ut wire.UpdateType, player int, played []cards.Card) error {
	return m.updatePlayers(wire.Update{
		UpdateType:   ut,
		PlayerNumber: wire.Int(player),
		Cards:        wire.Str(cards.Encode(played)),
	}, -1)
}

// updatePlayers sends the update to every player except exclude (-1 for
// no exclusion), in seat order.
func (m *Messaging) updatePlayers(u wire.Update, exclude int) error {
	for player := 0; player < m.numPlayers; player++ {
		if player == exclude {
			continue
		}
		if err := m.updatePlayer(player, u); err != nil {
			return err
		}
	}
	return nil
}

func (m *Messaging) updatePlayer(player int, u wire.Update) error {
	body, err := json.Marshal(wire.NewUpdateEnvelope(player, u))
	if err != nil {
		return err
	}
	m.log.Tracef("update %s -> player %d", u.UpdateType, player)
	if _, err := m.ch.Roundtrip(body); err != nil {
		return fmt.Errorf("messaging: update to player %d: %w", player, err)
	}
	return nil
}
