package game

import (
	"errors"
	"slices"
	"testing"

	"truco-game/internal/shared"
)

func card(s shared.Suit, v int) shared.Card {
	return shared.Card{Suit: s, Value: v}
}

func newTestMatch(t *testing.T) *Match {
	t.Helper()
	m := NewMatch(shared.NewPlayer("p1", "Ana"), shared.NewPlayer("p2", "Opponent"))
	if err := m.StartNewMatch(); err != nil {
		t.Fatalf("StartNewMatch: %v", err)
	}
	return m
}

// setHands replaces the randomly dealt hands with known ones, keeping the
// derived Envido points consistent.
func setHands(m *Match, playerHand, opponentHand []shared.Card) {
	m.player.Hand = append([]shared.Card(nil), playerHand...)
	m.opponent.Hand = append([]shared.Card(nil), opponentHand...)
	m.playerEnvido = shared.EnvidoPoints(m.player.Hand)
	m.opponentEnvido = shared.EnvidoPoints(m.opponent.Hand)
}

func TestPlayCardNotInHandIsRejected(t *testing.T) {
	m := newTestMatch(t)
	setHands(m,
		[]shared.Card{card(shared.Espadas, 4), card(shared.Oros, 5), card(shared.Copas, 6)},
		[]shared.Card{card(shared.Bastos, 4), card(shared.Bastos, 5), card(shared.Bastos, 6)})

	err := m.PlayCard(card(shared.Espadas, 1))
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("playing a card not in hand returned %v, want ErrInvalidMove", err)
	}
	if len(m.player.Hand) != 3 || m.tableCard != nil {
		t.Error("rejected play mutated the match state")
	}
}

func TestPlayCardIntoFilledSlotIsRejected(t *testing.T) {
	m := newTestMatch(t)
	setHands(m,
		[]shared.Card{card(shared.Espadas, 4), card(shared.Oros, 5), card(shared.Copas, 6)},
		[]shared.Card{card(shared.Bastos, 4), card(shared.Bastos, 5), card(shared.Bastos, 6)})

	if err := m.PlayCard(card(shared.Espadas, 4)); err != nil {
		t.Fatalf("first play failed: %v", err)
	}
	err := m.PlayCard(card(shared.Oros, 5))
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("playing into a filled slot returned %v, want ErrInvalidMove", err)
	}
	if len(m.player.Hand) != 2 {
		t.Error("rejected play mutated the hand")
	}
}

func TestCommandsRejectedOutsidePlaying(t *testing.T) {
	m := newTestMatch(t)
	m.Phase = PhaseHandComplete

	if err := m.PlayCard(card(shared.Espadas, 1)); !errors.Is(err, ErrIllegalStateTransition) {
		t.Errorf("PlayCard during HandComplete returned %v, want ErrIllegalStateTransition", err)
	}
	if err := m.CallTruco(); !errors.Is(err, ErrIllegalStateTransition) {
		t.Errorf("CallTruco during HandComplete returned %v, want ErrIllegalStateTransition", err)
	}
	if err := m.CallEnvido(); !errors.Is(err, ErrIllegalStateTransition) {
		t.Errorf("CallEnvido during HandComplete returned %v, want ErrIllegalStateTransition", err)
	}
	if err := m.OpponentRespond(); !errors.Is(err, ErrIllegalStateTransition) {
		t.Errorf("OpponentRespond during HandComplete returned %v, want ErrIllegalStateTransition", err)
	}
}

func TestOpponentRespondNeedsTableCard(t *testing.T) {
	m := newTestMatch(t)
	if err := m.OpponentRespond(); !errors.Is(err, ErrIllegalStateTransition) {
		t.Errorf("OpponentRespond with an empty table returned %v, want ErrIllegalStateTransition", err)
	}
}

func TestHandEndsWhenOneSideTakesTwoTricks(t *testing.T) {
	m := newTestMatch(t)
	setHands(m,
		[]shared.Card{card(shared.Espadas, 1), card(shared.Bastos, 1), card(shared.Espadas, 7)},
		[]shared.Card{card(shared.Copas, 4), card(shared.Copas, 5), card(shared.Copas, 6)})

	for _, c := range []shared.Card{card(shared.Espadas, 1), card(shared.Bastos, 1)} {
		if err := m.PlayCard(c); err != nil {
			t.Fatalf("PlayCard(%s): %v", c, err)
		}
		if err := m.OpponentRespond(); err != nil {
			t.Fatalf("OpponentRespond after %s: %v", c, err)
		}
	}

	if m.Phase != PhaseHandComplete {
		t.Fatalf("phase = %s after two player trick wins, want HandComplete", m.Phase)
	}
	if m.Score.Player != 1 || m.Score.Opponent != 0 {
		t.Errorf("score = %+v, want 1-0", m.Score)
	}
	winner, points := m.LastHandResult()
	if winner != shared.SidePlayer || points != 1 {
		t.Errorf("hand result = %s/%d, want player/1", winner, points)
	}
	if len(m.player.Hand) != 1 || len(m.opponent.Hand) != 1 {
		t.Errorf("unplayed cards: player %d, opponent %d, want 1 each", len(m.player.Hand), len(m.opponent.Hand))
	}
}

func TestTiedHandGoesToFirstNonTiedTrick(t *testing.T) {
	m := newTestMatch(t)
	m.tricks = []shared.Trick{
		{Winner: shared.SideNone},
		{Winner: shared.SidePlayer},
		{Winner: shared.SideOpponent},
	}
	m.playerWins, m.opponentWins = 1, 1

	m.completeHand()

	if m.Score.Player != 1 || m.Score.Opponent != 0 {
		t.Errorf("score = %+v, want the player to take the hand", m.Score)
	}
	winner, _ := m.LastHandResult()
	if winner != shared.SidePlayer {
		t.Errorf("hand winner = %s, want player", winner)
	}
}

func TestFullyTiedHandAwardsNothing(t *testing.T) {
	m := newTestMatch(t)
	m.tricks = []shared.Trick{
		{Winner: shared.SideNone},
		{Winner: shared.SideNone},
		{Winner: shared.SideNone},
	}

	m.completeHand()

	if m.Score.Player != 0 || m.Score.Opponent != 0 {
		t.Errorf("score = %+v, want 0-0", m.Score)
	}
	winner, points := m.LastHandResult()
	if winner != shared.SideNone || points != 0 {
		t.Errorf("hand result = %s/%d, want none/0", winner, points)
	}
}

func TestTrucoLevelSetsHandValue(t *testing.T) {
	m := newTestMatch(t)
	if err := m.CallTruco(); err != nil {
		t.Fatalf("CallTruco: %v", err)
	}
	if err := m.CallTruco(); err != nil {
		t.Fatalf("CallTruco (Retruco): %v", err)
	}

	m.tricks = []shared.Trick{{Winner: shared.SideOpponent}, {Winner: shared.SideOpponent}}
	m.opponentWins = 2
	m.completeHand()

	if m.Score.Opponent != 3 {
		t.Errorf("opponent score = %d after a Retruco hand, want 3", m.Score.Opponent)
	}
}

func TestEnvidoWindowClosesAfterFirstTrick(t *testing.T) {
	m := newTestMatch(t)
	setHands(m,
		[]shared.Card{card(shared.Espadas, 4), card(shared.Oros, 5), card(shared.Copas, 6)},
		[]shared.Card{card(shared.Bastos, 1), card(shared.Bastos, 5), card(shared.Bastos, 6)})

	if err := m.PlayCard(card(shared.Espadas, 4)); err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	if err := m.OpponentRespond(); err != nil {
		t.Fatalf("OpponentRespond: %v", err)
	}
	if m.Phase != PhasePlaying {
		t.Fatalf("phase = %s after one trick, want Playing", m.Phase)
	}

	err := m.CallEnvido()
	if !errors.Is(err, ErrIllegalCall) {
		t.Errorf("Envido after the first trick returned %v, want ErrIllegalCall", err)
	}
}

func TestEnvidoAwardIsImmediate(t *testing.T) {
	m := newTestMatch(t)
	m.playerEnvido, m.opponentEnvido = 31, 23

	if err := m.CallEnvido(); err != nil {
		t.Fatalf("CallEnvido: %v", err)
	}
	if m.Score.Player != EnvidoPointValue {
		t.Errorf("player score = %d right after Envido, want %d", m.Score.Player, EnvidoPointValue)
	}
	if m.Phase != PhasePlaying {
		t.Errorf("phase = %s, the hand should continue after Envido", m.Phase)
	}

	snap := m.Snapshot()
	if snap.PlayerEnvido != 31 || snap.OpponentEnvido != 23 {
		t.Errorf("snapshot envido = %d/%d, want 31/23 once called", snap.PlayerEnvido, snap.OpponentEnvido)
	}
}

func TestEnvidoTieGoesToTheDealer(t *testing.T) {
	m := newTestMatch(t)
	m.playerEnvido, m.opponentEnvido = 27, 27

	if err := m.CallEnvido(); err != nil {
		t.Fatalf("CallEnvido: %v", err)
	}
	if m.Score.Opponent != EnvidoPointValue || m.Score.Player != 0 {
		t.Errorf("score = %+v, a tied Envido goes to the opponent", m.Score)
	}
}

func TestMatchEndsExactlyAtWinningScore(t *testing.T) {
	m := newTestMatch(t)
	m.Score.Player = WinningScore - 1
	m.tricks = []shared.Trick{{Winner: shared.SidePlayer}, {Winner: shared.SidePlayer}}
	m.playerWins = 2
	m.completeHand()

	if m.Phase != PhaseGameEnd {
		t.Fatalf("phase = %s at %d points, want GameEnd", m.Phase, m.Score.Player)
	}
	if m.Winner() != shared.SidePlayer {
		t.Errorf("winner = %s, want player", m.Winner())
	}
	if err := m.StartNewHand(); !errors.Is(err, ErrIllegalStateTransition) {
		t.Errorf("StartNewHand after GameEnd returned %v, want ErrIllegalStateTransition", err)
	}
}

func TestFourteenPointsDoesNotEndTheMatch(t *testing.T) {
	m := newTestMatch(t)
	m.Score.Player = WinningScore - 2
	m.tricks = []shared.Trick{{Winner: shared.SidePlayer}, {Winner: shared.SidePlayer}}
	m.playerWins = 2
	m.completeHand()

	if m.Phase != PhaseHandComplete {
		t.Fatalf("phase = %s at 14 points, want HandComplete", m.Phase)
	}
	if err := m.StartNewHand(); err != nil {
		t.Errorf("StartNewHand at 14 points failed: %v", err)
	}
}

func TestStartNewHandResetsHandState(t *testing.T) {
	m := newTestMatch(t)
	setHands(m,
		[]shared.Card{card(shared.Espadas, 4), card(shared.Oros, 5), card(shared.Copas, 6)},
		[]shared.Card{card(shared.Bastos, 1), card(shared.Bastos, 5), card(shared.Bastos, 6)})
	if err := m.CallTruco(); err != nil {
		t.Fatalf("CallTruco: %v", err)
	}
	if err := m.PlayCard(card(shared.Oros, 5)); err != nil {
		t.Fatalf("PlayCard: %v", err)
	}

	if err := m.StartNewHand(); err != nil {
		t.Fatalf("StartNewHand: %v", err)
	}
	if m.Betting.TrucoLevel != TrucoLevelNone || m.Betting.EnvidoCalled {
		t.Errorf("betting state not reset: %+v", m.Betting)
	}
	if len(m.tricks) != 0 || m.tableCard != nil {
		t.Error("trick state not reset by the new deal")
	}
	if len(m.player.Hand) != CardsPerHand || len(m.opponent.Hand) != CardsPerHand {
		t.Errorf("hands have %d/%d cards, want %d each", len(m.player.Hand), len(m.opponent.Hand), CardsPerHand)
	}
	if m.HandNumber != 2 {
		t.Errorf("hand number = %d, want 2", m.HandNumber)
	}
}

func TestStartNewMatchResetsScore(t *testing.T) {
	m := newTestMatch(t)
	m.Score = MatchScore{Player: WinningScore, Opponent: 9}
	m.checkGameEnd()
	if m.Phase != PhaseGameEnd {
		t.Fatal("expected GameEnd before the reset")
	}

	if err := m.StartNewMatch(); err != nil {
		t.Fatalf("StartNewMatch: %v", err)
	}
	if m.Score.Player != 0 || m.Score.Opponent != 0 {
		t.Errorf("score = %+v after StartNewMatch, want 0-0", m.Score)
	}
	if m.Phase != PhasePlaying || m.HandNumber != 1 {
		t.Errorf("phase/hand = %s/%d, want Playing/1", m.Phase, m.HandNumber)
	}
}

func TestLegalActionsFollowTheWindows(t *testing.T) {
	m := newTestMatch(t)
	setHands(m,
		[]shared.Card{card(shared.Espadas, 4), card(shared.Oros, 5), card(shared.Copas, 6)},
		[]shared.Card{card(shared.Bastos, 1), card(shared.Bastos, 5), card(shared.Bastos, 6)})

	actions := m.LegalActions()
	for _, want := range []string{"play_card", "call_truco", "call_envido"} {
		if !slices.Contains(actions, want) {
			t.Errorf("fresh hand legal actions %v missing %q", actions, want)
		}
	}

	if err := m.PlayCard(card(shared.Espadas, 4)); err != nil {
		t.Fatalf("PlayCard: %v", err)
	}
	if !slices.Contains(m.LegalActions(), "opponent_respond") {
		t.Errorf("legal actions %v missing opponent_respond with a card on the table", m.LegalActions())
	}
	if err := m.OpponentRespond(); err != nil {
		t.Fatalf("OpponentRespond: %v", err)
	}
	if slices.Contains(m.LegalActions(), "call_envido") {
		t.Errorf("call_envido still legal after the first trick: %v", m.LegalActions())
	}
}

func TestSnapshotHidesOpponentHand(t *testing.T) {
	m := newTestMatch(t)
	snap := m.Snapshot()
	if snap.OpponentCardCount != CardsPerHand {
		t.Errorf("opponent card count = %d, want %d", snap.OpponentCardCount, CardsPerHand)
	}
	if snap.PlayerEnvido != 0 || snap.OpponentEnvido != 0 {
		t.Error("envido points exposed before the Envido was called")
	}
}
