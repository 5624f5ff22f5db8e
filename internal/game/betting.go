package game

import "fmt"

// Truco escalation levels. The level is the point value the hand is worth.
const (
	TrucoLevelNone       = 1 // no call, hand is worth a single point
	TrucoLevelTruco      = 2
	TrucoLevelRetruco    = 3
	TrucoLevelValeCuatro = 4 // terminal, no further raise
)

// EnvidoPointValue is the fixed award for winning the Envido.
const EnvidoPointValue = 2

// BettingState tracks the Truco escalation and the Envido side bet for the
// current hand. Calls are auto-accepted in this variant; there is no
// fold/decline branch. The state is reset at the start of every hand.
type BettingState struct {
	TrucoCalled  bool `json:"truco_called"`
	TrucoLevel   int  `json:"truco_level"`
	EnvidoCalled bool `json:"envido_called"`
}

// NewBettingState returns the initial state for a fresh hand.
func NewBettingState() *BettingState {
	return &BettingState{TrucoLevel: TrucoLevelNone}
}

// CallTruco escalates the hand's point value one level. Vale Cuatro is the
// ceiling: a further raise is rejected.
func (b *BettingState) CallTruco() error {
	if b.TrucoLevel >= TrucoLevelValeCuatro {
		return fmt.Errorf("%w: already at Vale Cuatro", ErrIllegalCall)
	}
	b.TrucoLevel++
	b.TrucoCalled = true
	return nil
}

// CallEnvido marks the Envido as called. It is single-shot per hand; the
// first-trick window check belongs to the match, which knows the trick count.
func (b *BettingState) CallEnvido() error {
	if b.EnvidoCalled {
		return fmt.Errorf("%w: Envido already called this hand", ErrIllegalCall)
	}
	b.EnvidoCalled = true
	return nil
}

// CallName returns the spoken name of the current escalation level.
func (b *BettingState) CallName() string {
	switch b.TrucoLevel {
	case TrucoLevelTruco:
		return "Truco"
	case TrucoLevelRetruco:
		return "Retruco"
	case TrucoLevelValeCuatro:
		return "Vale Cuatro"
	default:
		return "No bet"
	}
}
