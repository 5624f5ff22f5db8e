package shared

// Side identifies which seat won a trick or a hand.
type Side string

const (
	SideNone     Side = "none" // tie, or no winner
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// Trick records one exchange of cards within a hand. It is created once both
// cards are played and is immutable afterwards.
type Trick struct {
	PlayerCard   Card `json:"player_card"`
	OpponentCard Card `json:"opponent_card"`
	Winner       Side `json:"winner"`
}

// ResolveTrick determines the winner of a trick from the two played cards.
func ResolveTrick(ranking *Ranking, playerCard, opponentCard Card) Trick {
	t := Trick{PlayerCard: playerCard, OpponentCard: opponentCard}
	switch ranking.Compare(playerCard, opponentCard) {
	case AWins:
		t.Winner = SidePlayer
	case BWins:
		t.Winner = SideOpponent
	default:
		t.Winner = SideNone
	}
	return t
}
