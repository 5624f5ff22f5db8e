package game

import (
	"fmt"

	"truco-game/internal/shared"
)

// Phase identifies where the match state machine is.
type Phase string

const (
	PhaseDealing      Phase = "Dealing"      // cards are being dealt
	PhasePlaying      Phase = "Playing"      // a trick is in progress
	PhaseRoundEnd     Phase = "RoundEnd"     // a trick was just resolved
	PhaseHandComplete Phase = "HandComplete" // the hand is over, waiting for the next deal
	PhaseGameEnd      Phase = "GameEnd"      // a side reached the winning score
)

// Match geometry.
const (
	WinningScore  = 15
	CardsPerHand  = 3
	TricksPerHand = 3
)

// MatchScore holds the cumulative match points for both sides. It only ever
// grows within a match; StartNewMatch resets it.
type MatchScore struct {
	Player   int `json:"player"`
	Opponent int `json:"opponent"`
}

// Match is the Truco state machine. It owns the cumulative score, the betting
// state and everything about the hand currently being played. All commands
// are synchronous; a command that returns an error has changed nothing.
//
// The player always lays the first card of a trick and the opponent answers.
// PlayCard and OpponentRespond are separate commands so the caller can pause
// between them: the opponent's card is only computed once the player's is
// known.
type Match struct {
	Phase      Phase
	Score      MatchScore
	Betting    *BettingState
	HandNumber int
	Message    string // last human-readable outcome

	ranking *shared.Ranking
	policy  *OpponentPolicy

	player   *shared.Player
	opponent *shared.Player

	tricks       []shared.Trick
	tableCard    *shared.Card // player's card awaiting the opponent's answer
	playerWins   int
	opponentWins int

	playerEnvido   int
	opponentEnvido int

	lastHandWinner shared.Side
	lastHandPoints int
}

// NewMatch creates a match between the two seats. Call StartNewMatch to deal
// the first hand.
func NewMatch(player, opponent *shared.Player) *Match {
	ranking := shared.NewRanking()
	return &Match{
		Phase:    PhaseDealing,
		Betting:  NewBettingState(),
		ranking:  ranking,
		policy:   NewOpponentPolicy(ranking),
		player:   player,
		opponent: opponent,
	}
}

// StartNewMatch resets the score and deals the first hand. Valid at any time;
// whatever was in progress is discarded.
func (m *Match) StartNewMatch() error {
	m.Phase = PhaseDealing
	m.Score = MatchScore{}
	m.HandNumber = 0
	return m.StartNewHand()
}

// StartNewHand discards any hand in progress and deals a fresh one. Only a
// finished match refuses the command; it needs StartNewMatch.
func (m *Match) StartNewHand() error {
	if m.Phase == PhaseGameEnd {
		return fmt.Errorf("%w: match is over, start a new match", ErrIllegalStateTransition)
	}
	m.Phase = PhaseDealing
	m.HandNumber++
	m.Betting = NewBettingState()
	m.tricks = nil
	m.tableCard = nil
	m.playerWins = 0
	m.opponentWins = 0

	deck := shared.NewDeck()
	deck.Shuffle()
	m.player.Hand = deck.Deal(CardsPerHand)
	m.opponent.Hand = deck.Deal(CardsPerHand)
	m.playerEnvido = shared.EnvidoPoints(m.player.Hand)
	m.opponentEnvido = shared.EnvidoPoints(m.opponent.Hand)

	m.Phase = PhasePlaying
	m.Message = fmt.Sprintf("Hand %d dealt.", m.HandNumber)
	return nil
}

// PlayCard lays the player's card for the current trick. The trick stays open
// until OpponentRespond resolves it.
func (m *Match) PlayCard(card shared.Card) error {
	if m.Phase != PhasePlaying {
		return fmt.Errorf("%w: cannot play a card during %s", ErrIllegalStateTransition, m.Phase)
	}
	if m.tableCard != nil {
		return fmt.Errorf("%w: a card is already on the table", ErrInvalidMove)
	}
	if !m.player.HasCard(card) {
		return fmt.Errorf("%w: %s is not in your hand", ErrInvalidMove, card)
	}

	m.player.RemoveCard(card)
	laid := card
	m.tableCard = &laid
	m.Message = fmt.Sprintf("You played %s.", card)
	return nil
}

// OpponentRespond plays the opponent's answer to the card on the table and
// resolves the trick.
func (m *Match) OpponentRespond() error {
	if m.Phase != PhasePlaying {
		return fmt.Errorf("%w: cannot respond during %s", ErrIllegalStateTransition, m.Phase)
	}
	if m.tableCard == nil {
		return fmt.Errorf("%w: no card on the table to respond to", ErrIllegalStateTransition)
	}

	reply := m.policy.ChooseCard(m.opponent.Hand, m.tableCard)
	m.opponent.RemoveCard(reply)
	trick := shared.ResolveTrick(m.ranking, *m.tableCard, reply)
	m.tricks = append(m.tricks, trick)
	m.tableCard = nil

	switch trick.Winner {
	case shared.SidePlayer:
		m.playerWins++
		m.Message = fmt.Sprintf("Opponent played %s. You win the trick.", reply)
	case shared.SideOpponent:
		m.opponentWins++
		m.Message = fmt.Sprintf("Opponent played %s. Opponent wins the trick.", reply)
	default:
		m.Message = fmt.Sprintf("Opponent played %s. The trick is tied.", reply)
	}

	m.endRound()
	return nil
}

// CallTruco escalates the hand's point value. Allowed only while a trick is
// open, before both of its cards are laid; once both are laid the trick has
// already resolved and the table is clear again.
func (m *Match) CallTruco() error {
	if m.Phase != PhasePlaying {
		return fmt.Errorf("%w: cannot call Truco during %s", ErrIllegalStateTransition, m.Phase)
	}
	if err := m.Betting.CallTruco(); err != nil {
		return err
	}
	m.Message = fmt.Sprintf("%s! The hand is now worth %d points.", m.Betting.CallName(), m.Betting.TrucoLevel)
	return nil
}

// CallEnvido resolves the Envido side bet. Callable once per hand, only while
// the first trick is unresolved. The award is applied to the score
// immediately, before and separate from any Truco points.
func (m *Match) CallEnvido() error {
	if m.Phase != PhasePlaying {
		return fmt.Errorf("%w: cannot call Envido during %s", ErrIllegalStateTransition, m.Phase)
	}
	if len(m.tricks) > 0 {
		return fmt.Errorf("%w: Envido is only open during the first trick", ErrIllegalCall)
	}
	if err := m.Betting.CallEnvido(); err != nil {
		return err
	}

	// The opponent deals every hand in this variant, so a tied Envido goes
	// to the opponent.
	if m.playerEnvido > m.opponentEnvido {
		m.Score.Player += EnvidoPointValue
		m.Message = fmt.Sprintf("Envido: %d to %d. You win %d points.", m.playerEnvido, m.opponentEnvido, EnvidoPointValue)
	} else {
		m.Score.Opponent += EnvidoPointValue
		m.Message = fmt.Sprintf("Envido: %d to %d. Opponent wins %d points.", m.playerEnvido, m.opponentEnvido, EnvidoPointValue)
	}
	m.checkGameEnd()
	return nil
}

// endRound decides whether the hand continues or is over: a side with two
// trick wins ends it, as does exhausting all three tricks.
func (m *Match) endRound() {
	m.Phase = PhaseRoundEnd
	if m.playerWins >= 2 || m.opponentWins >= 2 || len(m.tricks) == TricksPerHand {
		m.completeHand()
		return
	}
	m.Phase = PhasePlaying
}

// completeHand awards the hand's point value and checks for match end.
func (m *Match) completeHand() {
	m.Phase = PhaseHandComplete
	points := m.Betting.TrucoLevel
	winner := m.handWinner()
	switch winner {
	case shared.SidePlayer:
		m.Score.Player += points
		m.Message = fmt.Sprintf("You win the hand, %d point(s).", points)
	case shared.SideOpponent:
		m.Score.Opponent += points
		m.Message = fmt.Sprintf("Opponent wins the hand, %d point(s).", points)
	default:
		points = 0
		m.Message = "The hand ends in a complete tie. No points awarded."
	}
	m.lastHandWinner = winner
	m.lastHandPoints = points
	m.checkGameEnd()
}

// LastHandResult reports the winner and point value of the most recently
// completed hand.
func (m *Match) LastHandResult() (shared.Side, int) {
	return m.lastHandWinner, m.lastHandPoints
}

// handWinner applies the tie-break rule: most trick wins, otherwise the
// winner of the first non-tied trick. A fully tied hand has no winner.
func (m *Match) handWinner() shared.Side {
	if m.playerWins > m.opponentWins {
		return shared.SidePlayer
	}
	if m.opponentWins > m.playerWins {
		return shared.SideOpponent
	}
	for _, t := range m.tricks {
		if t.Winner != shared.SideNone {
			return t.Winner
		}
	}
	return shared.SideNone
}

// checkGameEnd moves the match to GameEnd once either side has reached the
// winning score. Called whenever the score changes, so an Envido award can
// finish the match mid-hand.
func (m *Match) checkGameEnd() {
	switch {
	case m.Score.Player >= WinningScore:
		m.Phase = PhaseGameEnd
		m.Message = fmt.Sprintf("You win the match %d to %d!", m.Score.Player, m.Score.Opponent)
	case m.Score.Opponent >= WinningScore:
		m.Phase = PhaseGameEnd
		m.Message = fmt.Sprintf("Opponent wins the match %d to %d.", m.Score.Opponent, m.Score.Player)
	}
}

// Winner reports the overall match winner, or SideNone while the match is
// still running.
func (m *Match) Winner() shared.Side {
	if m.Phase != PhaseGameEnd {
		return shared.SideNone
	}
	if m.Score.Player >= WinningScore {
		return shared.SidePlayer
	}
	return shared.SideOpponent
}

// Finished reports whether the match has reached GameEnd.
func (m *Match) Finished() bool {
	return m.Phase == PhaseGameEnd
}

// LegalActions lists the commands the caller may issue in the current state.
func (m *Match) LegalActions() []string {
	switch m.Phase {
	case PhasePlaying:
		var actions []string
		if m.tableCard == nil {
			actions = append(actions, "play_card")
		} else {
			actions = append(actions, "opponent_respond")
		}
		if m.Betting.TrucoLevel < TrucoLevelValeCuatro {
			actions = append(actions, "call_truco")
		}
		if !m.Betting.EnvidoCalled && len(m.tricks) == 0 {
			actions = append(actions, "call_envido")
		}
		return actions
	case PhaseHandComplete:
		return []string{"next_hand", "new_match"}
	case PhaseGameEnd:
		return []string{"new_match"}
	default:
		return nil
	}
}

// Snapshot is the caller-facing view of the match. The opponent's held cards
// are reported only as a count; its Envido points appear only once the
// Envido has been called and resolved.
type Snapshot struct {
	Phase             Phase          `json:"phase"`
	HandNumber        int            `json:"hand_number"`
	Score             MatchScore     `json:"score"`
	Betting           BettingState   `json:"betting"`
	PlayerHand        []shared.Card  `json:"player_hand"`
	OpponentCardCount int            `json:"opponent_card_count"`
	TableCard         *shared.Card   `json:"table_card,omitempty"`
	Tricks            []shared.Trick `json:"tricks"`
	PlayerTrickWins   int            `json:"player_trick_wins"`
	OpponentTrickWins int            `json:"opponent_trick_wins"`
	PlayerEnvido      int            `json:"player_envido,omitempty"`
	OpponentEnvido    int            `json:"opponent_envido,omitempty"`
	LegalActions      []string       `json:"legal_actions"`
	Message           string         `json:"message"`
}

// Snapshot captures the observable state of the match. Slices are copied so
// the caller cannot mutate engine state through them.
func (m *Match) Snapshot() Snapshot {
	hand := make([]shared.Card, len(m.player.Hand))
	copy(hand, m.player.Hand)
	tricks := make([]shared.Trick, len(m.tricks))
	copy(tricks, m.tricks)

	var table *shared.Card
	if m.tableCard != nil {
		laid := *m.tableCard
		table = &laid
	}

	snap := Snapshot{
		Phase:             m.Phase,
		HandNumber:        m.HandNumber,
		Score:             m.Score,
		Betting:           *m.Betting,
		PlayerHand:        hand,
		OpponentCardCount: len(m.opponent.Hand),
		TableCard:         table,
		Tricks:            tricks,
		PlayerTrickWins:   m.playerWins,
		OpponentTrickWins: m.opponentWins,
		LegalActions:      m.LegalActions(),
		Message:           m.Message,
	}
	if m.Betting.EnvidoCalled {
		snap.PlayerEnvido = m.playerEnvido
		snap.OpponentEnvido = m.opponentEnvido
	}
	return snap
}
