package cards

import (
	"math/rand"
)

// Deck represents an ordered deck of cards drawn from the top.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a full 52-card deck shuffled with the given random
// number generator.
func NewDeck(rng *rand.Rand) *Deck {
	d := NewOrderedDeck(rng)
	d.Shuffle()
	return d
}

// NewOrderedDeck creates a full 52-card deck without shuffling, suit by
// suit (D, C, H, S) with ranks in natural order within each suit. Used
// by NewDeck and by tests.
func NewOrderedDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, Card{Suit: suit, Rank: rank})
		}
	}
	return d
}

// NewDeckFromCards creates a deck holding exactly the given cards.
func NewDeckFromCards(cs []Card, rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, len(cs)),
		rng:   rng,
	}
	copy(d.cards, cs)
	return d
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Remove deletes a specific card from anywhere in the deck. It reports
// whether the card was present.
func (d *Deck) Remove(c Card) bool {
	for i, card := range d.cards {
		if card == c {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return true
		}
	}
	return false
}

// Size returns the number of cards remaining in the deck
func (d *Deck) Size() int {
	return len(d.cards)
}

// Cards returns the remaining cards in deck order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
