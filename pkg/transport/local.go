// Package transport provides channel implementations for the messaging
// adapter: an in-process router used by simulations and tests, and a
// websocket pair carrying the JSON protocol between the engine and
// player processes. All routing is strictly sequential; one frame is in
// flight at a time.
package transport

import (
	"fmt"

	"github.com/jordan-wolfaardt/screw/pkg/wire"
)

// Handler consumes one routed frame and returns the reply body. Updates
// are answered with an empty body.
type Handler func(body []byte) ([]byte, error)

// Local routes frames directly to in-process player handlers.
type Local struct {
	handlers []Handler
}

// NewLocal creates a local channel over per-player handlers indexed by
// seat.
func NewLocal(handlers []Handler) *Local {
	return &Local{handlers: handlers}
}

// Roundtrip delivers the frame to the addressed handler and returns its
// reply.
func (l *Local) Roundtrip(body []byte) ([]byte, error) {
	env, err := wire.DecodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if env.Recipient < 0 || env.Recipient >= len(l.handlers) {
		return nil, fmt.Errorf("transport: no player %d", env.Recipient)
	}
	return l.handlers[env.Recipient](body)
}
