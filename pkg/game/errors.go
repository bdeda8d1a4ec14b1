package game

import (
	"errors"
	"fmt"
)

// ErrCardsNotAvailable indicates the requested cards are absent from the
// stack they would be played from. Recoverable: the player is
// re-prompted.
var ErrCardsNotAvailable = errors.New("cards not available")

// ErrIllegalPlay indicates the cards are possessed but the play does not
// satisfy legality. Recoverable: the player is re-prompted.
var ErrIllegalPlay = errors.New("illegal play")

func errCardsNotAvailable(msg string) error {
	return fmt.Errorf("%w: %s", ErrCardsNotAvailable, msg)
}

func errIllegalPlay(msg string) error {
	return fmt.Errorf("%w: %s", ErrIllegalPlay, msg)
}

// InvariantError indicates a broken conservation or state-machine
// invariant. It is a programmer error: the engine aborts the match.
type InvariantError struct {
	Reason string
	Dump   string
}

func (e *InvariantError) Error() string {
	return "game: invariant violation: " + e.Reason
}
