package shared

// Player represents one seat in a Truco match, holding the cards dealt to it
// for the current hand.
type Player struct {
	ID   string // Unique identifier for the player
	Name string // Player's chosen name
	Hand []Card // Cards currently held by the player
}

// NewPlayer creates a new player with the given ID and name.
func NewPlayer(id string, name string) *Player {
	return &Player{
		ID:   id,
		Name: name,
		Hand: []Card{},
	}
}

// AddCards appends cards to the player's hand.
func (p *Player) AddCards(cards []Card) {
	p.Hand = append(p.Hand, cards...)
}

// RemoveCard removes a card from the player's hand.
func (p *Player) RemoveCard(card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// FindCard looks a card up in the player's hand by suit and value.
func (p *Player) FindCard(suit Suit, value int) (Card, bool) {
	for _, card := range p.Hand {
		if card.Suit == suit && card.Value == value {
			return card, true
		}
	}
	return Card{}, false
}

// HasCard reports whether the exact card is in the player's hand.
func (p *Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}
