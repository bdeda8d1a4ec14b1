package game

import (
	"github.com/jordan-wolfaardt/screw/pkg/cards"
)

// TableStacks is the number of table stacks dealt to each player.
const TableStacks = 3

// HandCards is the number of hand cards dealt beyond the table-card
// selection pool.
const HandCards = 3

// TableStack is one face-down card with an optional face-up card on top.
// The bottom card stays hidden until the stack is the player's only
// remaining source of a play.
type TableStack struct {
	Bottom cards.Card
	Top    *cards.Card
}

// Hand aggregates everything a player holds: loose hand cards plus the
// table stacks in front of them.
type Hand struct {
	HandStack   []cards.Card
	TableStacks []TableStack
}

// CardCount returns the player's total card count: hand cards plus two
// per topped table stack and one per bare stack.
func (h *Hand) CardCount() int {
	count := len(h.HandStack)
	for _, ts := range h.TableStacks {
		if ts.Top != nil {
			count += 2
		} else {
			count++
		}
	}
	return count
}

// FaceUpCards returns the visible top cards of the table stacks.
func (h *Hand) FaceUpCards() []cards.Card {
	var out []cards.Card
	for _, ts := range h.TableStacks {
		if ts.Top != nil {
			out = append(out, *ts.Top)
		}
	}
	return out
}

// HasKnownCards reports whether the player can still play a card they
// have seen: anything in hand or face up on the table.
func (h *Hand) HasKnownCards() bool {
	return len(h.HandStack) > 0 || len(h.FaceUpCards()) > 0
}

// removeFromHandStack removes the given cards from the hand stack. If
// any card is missing nothing is removed.
func (h *Hand) removeFromHandStack(cs []cards.Card) error {
	if !containsAll(h.HandStack, cs) {
		return errCardsNotAvailable("cards not available to be played from hand")
	}
	for _, c := range cs {
		h.HandStack = removeCard(h.HandStack, c)
	}
	return nil
}

// removeFromFaceUp clears the top cards matching cs from the table
// stacks. All requested cards must be present face up; otherwise the
// whole operation fails and no card is removed.
func (h *Hand) removeFromFaceUp(cs []cards.Card) error {
	if !containsAll(h.FaceUpCards(), cs) {
		return errCardsNotAvailable("cards not available to be played from table")
	}
	for _, c := range cs {
		for i := range h.TableStacks {
			if h.TableStacks[i].Top != nil && *h.TableStacks[i].Top == c {
				h.TableStacks[i].Top = nil
				break
			}
		}
	}
	return nil
}

func containsAll(have, want []cards.Card) bool {
	pool := make(map[cards.Card]int, len(have))
	for _, c := range have {
		pool[c]++
	}
	for _, c := range want {
		if pool[c] == 0 {
			return false
		}
		pool[c]--
	}
	return true
}

func removeCard(cs []cards.Card, c cards.Card) []cards.Card {
	for i, have := range cs {
		if have == c {
			return append(cs[:i], cs[i+1:]...)
		}
	}
	return cs
}
