// Package utils holds small helpers shared by the binaries.
package utils

import (
	"io"
	"strings"

	"github.com/decred/slog"

	"github.com/jordan-wolfaardt/screw/pkg/cards"
)

// FormatCards is a helper function for displaying cards.
func FormatCards(cs []cards.Card) string {
	if len(cs) == 0 {
		return "None"
	}
	return strings.Join(cards.Codes(cs), " ")
}

// Logger builds a tagged logger on w at the given debug level. Unknown
// levels fall back to info.
func Logger(tag, debugLevel string, w io.Writer) slog.Logger {
	backend := slog.NewBackend(w)
	log := backend.Logger(tag)
	level, ok := slog.LevelFromString(debugLevel)
	if !ok {
		level = slog.LevelInfo
	}
	log.SetLevel(level)
	return log
}
