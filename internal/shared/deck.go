package shared

import (
	"log"
	"math/rand/v2"
)

// Deck represents the 40-card Spanish deck used for dealing. A fresh deck is
// built for every hand; nothing is recycled from previous hands.
type Deck struct {
	Cards []Card
}

// NewDeck creates the full deck in suit-major, value-minor order.
func NewDeck() *Deck {
	cards := make([]Card, 0, len(Suits)*len(Values))
	for _, suit := range Suits {
		for _, value := range Values {
			cards = append(cards, Card{Suit: suit, Value: value})
		}
	}
	return &Deck{Cards: cards}
}

// Shuffle randomizes the order of cards in the deck.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Deal removes the front n cards from the deck and returns them as a hand.
// Returns nil if the deck does not hold enough cards.
func (d *Deck) Deal(n int) []Card {
	if len(d.Cards) < n {
		log.Printf("Error: Not enough cards in deck (%d) to deal %d.", len(d.Cards), n)
		return nil
	}
	hand := make([]Card, n)
	copy(hand, d.Cards[:n])
	d.Cards = d.Cards[n:]
	return hand
}
