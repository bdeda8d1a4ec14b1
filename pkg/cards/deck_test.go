package cards

import (
	"math/rand"
	"testing"
)

func TestNewDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	deck := NewDeck(rng)

	if deck.Size() != 52 {
		t.Errorf("Expected deck size 52, got %d", deck.Size())
	}

	// Check that all cards are unique
	seen := make(map[Card]bool)
	for _, card := range deck.cards {
		if seen[card] {
			t.Errorf("Duplicate card found: %v", card)
		}
		seen[card] = true
	}

	// Check suit and rank distribution
	suitCount := make(map[Suit]int)
	rankCount := make(map[Rank]int)
	for _, card := range deck.cards {
		suitCount[card.Suit]++
		rankCount[card.Rank]++
	}
	for suit, count := range suitCount {
		if count != 13 {
			t.Errorf("Expected 13 cards of suit %v, got %d", suit, count)
		}
	}
	for rank, count := range rankCount {
		if count != 4 {
			t.Errorf("Expected 4 cards of rank %v, got %d", rank, count)
		}
	}
}

func TestDeckShuffleIsDeterministic(t *testing.T) {
	deck1 := NewDeck(rand.New(rand.NewSource(42)))
	deck2 := NewDeck(rand.New(rand.NewSource(42)))

	for i := 0; i < 52; i++ {
		if deck1.cards[i] != deck2.cards[i] {
			t.Errorf("Decks with same seed should have same order at position %d", i)
		}
	}

	deck3 := NewDeck(rand.New(rand.NewSource(43)))
	sameOrder := true
	for i := 0; i < 52; i++ {
		if deck1.cards[i] != deck3.cards[i] {
			sameOrder = false
			break
		}
	}
	if sameOrder {
		t.Error("Decks with different seeds should have different orders")
	}
}

func TestDeckDraw(t *testing.T) {
	deck := NewDeck(rand.New(rand.NewSource(42)))

	for i := 0; i < 52; i++ {
		card, ok := deck.Draw()
		if !ok {
			t.Fatalf("Expected to draw card %d, but deck was empty", i)
		}
		if deck.Size() != 51-i {
			t.Errorf("Expected deck size %d after drawing, got %d", 51-i, deck.Size())
		}
		if card.Suit == "" || card.Rank == "" {
			t.Errorf("Drawn card %d is invalid: %v", i, card)
		}
	}

	if _, ok := deck.Draw(); ok {
		t.Error("Expected drawing from an empty deck to fail")
	}
}

func TestDeckRemove(t *testing.T) {
	deck := NewOrderedDeck(rand.New(rand.NewSource(42)))
	target := Card{Suit: Hearts, Rank: Queen}

	if !deck.Remove(target) {
		t.Fatal("Expected to remove a card present in the deck")
	}
	if deck.Size() != 51 {
		t.Errorf("Expected deck size 51 after removal, got %d", deck.Size())
	}
	if deck.Remove(target) {
		t.Error("Expected removing the same card twice to fail")
	}
}
