package shared

import (
	"fmt"
	"log"
)

// Suit represents the suit of a Spanish-deck card.
type Suit string

const (
	Espadas Suit = "Espadas"
	Bastos  Suit = "Bastos"
	Oros    Suit = "Oros"
	Copas   Suit = "Copas"
)

// Suits lists the four suits in canonical order.
var Suits = []Suit{Espadas, Bastos, Oros, Copas}

// Values lists the card values of the Spanish deck. There are no 8s or 9s.
var Values = []int{1, 2, 3, 4, 5, 6, 7, 10, 11, 12}

// Face card values.
const (
	Sota    = 10
	Caballo = 11
	Rey     = 12
)

// Card represents a single card in the Truco game. Identity is (Suit, Value)
// equality; a card carries no hidden state.
type Card struct {
	Suit  Suit `json:"suit"`
	Value int  `json:"value"`
}

func (c Card) String() string {
	switch c.Value {
	case Sota:
		return fmt.Sprintf("Sota de %s", c.Suit)
	case Caballo:
		return fmt.Sprintf("Caballo de %s", c.Suit)
	case Rey:
		return fmt.Sprintf("Rey de %s", c.Suit)
	default:
		return fmt.Sprintf("%d de %s", c.Value, c.Suit)
	}
}

// CompareResult is the outcome of comparing two cards for trick strength.
type CompareResult int

const (
	AWins CompareResult = iota
	BWins
	Tie
)

// rankOrder lists all 40 cards from strongest to weakest. Truco strength is
// not a function of the value alone: the four top cards are fixed, the
// remaining values group into tiers, and the two leftover 7s fall below the
// face cards.
var rankOrder = []Card{
	{Espadas, 1}, {Bastos, 1}, {Espadas, 7}, {Oros, 7},
	{Espadas, 3}, {Bastos, 3}, {Oros, 3}, {Copas, 3},
	{Espadas, 2}, {Bastos, 2}, {Oros, 2}, {Copas, 2},
	{Oros, 1}, {Copas, 1},
	{Espadas, Rey}, {Bastos, Rey}, {Oros, Rey}, {Copas, Rey},
	{Espadas, Caballo}, {Bastos, Caballo}, {Oros, Caballo}, {Copas, Caballo},
	{Espadas, Sota}, {Bastos, Sota}, {Oros, Sota}, {Copas, Sota},
	{Copas, 7}, {Bastos, 7},
	{Espadas, 6}, {Bastos, 6}, {Oros, 6}, {Copas, 6},
	{Espadas, 5}, {Bastos, 5}, {Oros, 5}, {Copas, 5},
	{Espadas, 4}, {Bastos, 4}, {Oros, 4}, {Copas, 4},
}

// Ranking is the immutable strength lookup over all 40 cards. Build it once
// and pass it to whatever needs to compare cards.
type Ranking struct {
	rank map[Card]int
}

// NewRanking builds the rank table from rankOrder. A table that does not
// cover every (suit, value) pair exactly once is a programmer error.
func NewRanking() *Ranking {
	rank := make(map[Card]int, len(rankOrder))
	for i, c := range rankOrder {
		if _, dup := rank[c]; dup {
			log.Panicf("Rank table corrupt: duplicate entry %s", c)
		}
		rank[c] = i
	}
	if len(rank) != len(Suits)*len(Values) {
		log.Panicf("Rank table corrupt: %d entries, expected %d", len(rank), len(Suits)*len(Values))
	}
	return &Ranking{rank: rank}
}

// Rank returns the card's position in the strength order. 0 is the strongest
// card (the 1 de Espadas), 39 the weakest.
func (r *Ranking) Rank(c Card) int {
	idx, ok := r.rank[c]
	if !ok {
		log.Panicf("Rank lookup for card not in table: %s", c)
	}
	return idx
}

// Compare returns which of two cards wins a trick. Lower rank index wins;
// the result is a tie only when both cards are the same card.
func (r *Ranking) Compare(a, b Card) CompareResult {
	ra, rb := r.Rank(a), r.Rank(b)
	switch {
	case ra < rb:
		return AWins
	case rb < ra:
		return BWins
	default:
		return Tie
	}
}
