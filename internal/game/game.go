package game

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"truco-game/internal/protocol"
	"truco-game/internal/shared"

	"github.com/google/uuid"
)

// MessageSender defines the function signature for sending messages back to
// clients. The Hub provides an implementation.
type MessageSender func(clientID string, message []byte)

const opponentName = "Opponent"

// Game binds one connected client to a Match against the built-in opponent.
// It translates protocol messages into engine commands and pushes the
// resulting state back over the sender callback.
type Game struct {
	ID         string
	ClientID   string
	PlayerName string

	match       *Match
	mu          sync.Mutex
	sendMessage MessageSender
}

// NewGame creates a game session for the given client.
func NewGame(clientID, playerName string, sender MessageSender) *Game {
	player := shared.NewPlayer(clientID, playerName)
	opponent := shared.NewPlayer(uuid.NewString(), opponentName)
	return &Game{
		ID:          uuid.NewString(),
		ClientID:    clientID,
		PlayerName:  playerName,
		match:       NewMatch(player, opponent),
		sendMessage: sender,
	}
}

// Start deals the first hand and sends the opening messages.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Printf("Game %s: Starting match for %s.", g.ID, g.PlayerName)

	startPayload := protocol.MatchStartPayload{
		GameID:       g.ID,
		PlayerName:   g.PlayerName,
		OpponentName: opponentName,
		WinningScore: WinningScore,
	}
	startMsg, _ := protocol.NewMessage("match_start", startPayload)
	g.send(startMsg)

	if err := g.match.StartNewMatch(); err != nil {
		log.Printf("Game %s: Error starting match: %v", g.ID, err)
		g.sendError("Internal server error while dealing.")
		return
	}
	g.sendDeal()
	g.sendState()
}

// HandlePlayerAction processes an incoming command from the client.
func (g *Game) HandlePlayerAction(msg protocol.Message) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch msg.Type {
	case "play_card":
		g.handlePlayCard(msg)
	case "call_truco":
		g.handleCallTruco()
	case "call_envido":
		g.handleCallEnvido()
	case "next_hand":
		g.handleNextHand()
	case "new_match":
		g.handleNewMatch()
	default:
		log.Printf("Game %s: Received unhandled action type '%s'", g.ID, msg.Type)
		g.sendError("Unknown action.")
	}
}

// handlePlayCard lays the player's card, lets the opponent answer and reports
// the resolved trick. The two engine steps run back to back here; pacing
// between them is the client's concern.
func (g *Game) handlePlayCard(msg protocol.Message) {
	var payload protocol.PlayCardPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Game %s: Error unmarshalling play_card payload: %v", g.ID, err)
		g.sendError("Invalid play_card message.")
		return
	}

	card := shared.Card{Suit: payload.Suit, Value: payload.Value}
	if err := g.match.PlayCard(card); err != nil {
		log.Printf("Game %s: Rejected play of %s: %v", g.ID, card, err)
		g.sendCommandError(err)
		return
	}
	g.sendState()

	if err := g.match.OpponentRespond(); err != nil {
		log.Printf("Game %s: Error resolving opponent response: %v", g.ID, err)
		g.sendError("Internal server error while resolving the trick.")
		return
	}

	snap := g.match.Snapshot()
	trick := snap.Tricks[len(snap.Tricks)-1]
	trickPayload := protocol.TrickEndPayload{
		TrickNumber:  len(snap.Tricks),
		PlayerCard:   trick.PlayerCard,
		OpponentCard: trick.OpponentCard,
		Winner:       trick.Winner,
	}
	trickMsg, _ := protocol.NewMessage("trick_end", trickPayload)
	g.send(trickMsg)
	g.sendState()

	if snap.Phase == PhaseHandComplete || snap.Phase == PhaseGameEnd {
		g.sendHandEnd()
	}
	if g.match.Finished() {
		g.sendMatchOver()
	}
}

func (g *Game) handleCallTruco() {
	if err := g.match.CallTruco(); err != nil {
		log.Printf("Game %s: Rejected Truco call: %v", g.ID, err)
		g.sendCommandError(err)
		return
	}
	payload := protocol.TrucoCalledPayload{
		CallName:   g.match.Betting.CallName(),
		TrucoLevel: g.match.Betting.TrucoLevel,
	}
	msgBytes, _ := protocol.NewMessage("truco_called", payload)
	g.send(msgBytes)
	g.sendState()
}

func (g *Game) handleCallEnvido() {
	if err := g.match.CallEnvido(); err != nil {
		log.Printf("Game %s: Rejected Envido call: %v", g.ID, err)
		g.sendCommandError(err)
		return
	}

	snap := g.match.Snapshot()
	winner := shared.SideOpponent // dealer side wins a tied Envido
	if snap.PlayerEnvido > snap.OpponentEnvido {
		winner = shared.SidePlayer
	}
	payload := protocol.EnvidoResultPayload{
		PlayerPoints:   snap.PlayerEnvido,
		OpponentPoints: snap.OpponentEnvido,
		Winner:         winner,
		PointsAwarded:  EnvidoPointValue,
	}
	msgBytes, _ := protocol.NewMessage("envido_result", payload)
	g.send(msgBytes)
	g.sendState()

	if g.match.Finished() {
		g.sendMatchOver()
	}
}

func (g *Game) handleNextHand() {
	if err := g.match.StartNewHand(); err != nil {
		log.Printf("Game %s: Rejected next_hand: %v", g.ID, err)
		g.sendCommandError(err)
		return
	}
	g.sendDeal()
	g.sendState()
}

func (g *Game) handleNewMatch() {
	log.Printf("Game %s: Starting a new match.", g.ID)
	if err := g.match.StartNewMatch(); err != nil {
		log.Printf("Game %s: Error starting new match: %v", g.ID, err)
		g.sendError("Internal server error while dealing.")
		return
	}
	g.sendDeal()
	g.sendState()
}

// Finished reports whether the match has ended. The Hub uses it to decide
// when to persist the result.
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.match.Finished()
}

// Result summarizes the match for persistence.
func (g *Game) Result() (winner shared.Side, playerScore, opponentScore, handsPlayed int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.match.Winner(), g.match.Score.Player, g.match.Score.Opponent, g.match.HandNumber
}

// --- Messaging helpers (assume lock is held) ---

func (g *Game) send(message []byte) {
	if g.sendMessage == nil {
		log.Printf("Game %s: Error - sendMessage callback is nil.", g.ID)
		return
	}
	g.sendMessage(g.ClientID, message)
}

func (g *Game) sendDeal() {
	snap := g.match.Snapshot()
	payload := protocol.DealHandPayload{
		HandNumber: snap.HandNumber,
		Hand:       snap.PlayerHand,
	}
	msgBytes, _ := protocol.NewMessage("deal_hand", payload)
	g.send(msgBytes)
}

func (g *Game) sendState() {
	snap := g.match.Snapshot()
	payload := protocol.GameStatePayload{
		Phase:             string(snap.Phase),
		HandNumber:        snap.HandNumber,
		PlayerScore:       snap.Score.Player,
		OpponentScore:     snap.Score.Opponent,
		TrucoLevel:        snap.Betting.TrucoLevel,
		EnvidoCalled:      snap.Betting.EnvidoCalled,
		PlayerHand:        snap.PlayerHand,
		OpponentCardCount: snap.OpponentCardCount,
		TableCard:         snap.TableCard,
		Tricks:            snap.Tricks,
		PlayerTrickWins:   snap.PlayerTrickWins,
		OpponentTrickWins: snap.OpponentTrickWins,
		LegalActions:      snap.LegalActions,
		Message:           snap.Message,
	}
	msgBytes, _ := protocol.NewMessage("game_state_update", payload)
	g.send(msgBytes)
}

func (g *Game) sendHandEnd() {
	winner, points := g.match.LastHandResult()
	payload := protocol.HandEndPayload{
		HandNumber:    g.match.HandNumber,
		Winner:        winner,
		PointsAwarded: points,
		PlayerScore:   g.match.Score.Player,
		OpponentScore: g.match.Score.Opponent,
	}
	msgBytes, _ := protocol.NewMessage("hand_end", payload)
	g.send(msgBytes)
}

func (g *Game) sendMatchOver() {
	payload := protocol.MatchOverPayload{
		Winner:        g.match.Winner(),
		PlayerScore:   g.match.Score.Player,
		OpponentScore: g.match.Score.Opponent,
		HandsPlayed:   g.match.HandNumber,
	}
	msgBytes, _ := protocol.NewMessage("match_over", payload)
	g.send(msgBytes)
	log.Printf("Game %s: Match over. Winner: %s (%d-%d)", g.ID, g.match.Winner(), g.match.Score.Player, g.match.Score.Opponent)
}

// sendCommandError reports an engine rejection to the client. Engine errors
// are recoverable; the state is unchanged.
func (g *Game) sendCommandError(err error) {
	switch {
	case errors.Is(err, ErrInvalidMove),
		errors.Is(err, ErrIllegalCall),
		errors.Is(err, ErrIllegalStateTransition):
		g.sendError(err.Error())
	default:
		g.sendError("Internal server error.")
	}
}

func (g *Game) sendError(errorMsg string) {
	payload := protocol.ErrorPayload{Message: errorMsg}
	msgBytes, err := protocol.NewMessage("error", payload)
	if err != nil {
		log.Printf("Game %s: Error creating error message: %v", g.ID, err)
		return
	}
	g.send(msgBytes)
}
