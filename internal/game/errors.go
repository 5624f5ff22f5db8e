package game

import "errors"

// Command failures. A command that fails with one of these leaves the match
// state untouched; the caller can report the error and carry on.
var (
	// ErrInvalidMove covers playing a card that is not in the acting hand,
	// or playing into a trick slot that is already filled.
	ErrInvalidMove = errors.New("invalid move")

	// ErrIllegalCall covers Truco or Envido calls made outside their window:
	// Envido after the first trick or twice in a hand, Truco past Vale Cuatro.
	ErrIllegalCall = errors.New("illegal call")

	// ErrIllegalStateTransition covers commands issued in a phase that does
	// not allow them, such as playing a card after the hand is complete.
	ErrIllegalStateTransition = errors.New("illegal state transition")
)
