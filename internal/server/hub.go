package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"truco-game/internal/database"
	"truco-game/internal/game"
	"truco-game/internal/protocol"

	"github.com/google/uuid"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

// Hub manages active WebSocket connections and the match session bound to
// each of them. Every client plays solo against the built-in opponent, so a
// session belongs to exactly one client.
type Hub struct {
	db             *database.Service
	clients        map[*Client]bool
	games          map[*Client]*game.Game
	saved          map[string]bool // game IDs whose finished match was persisted
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
	gameMu         sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub(db *database.Service) *Hub {
	return &Hub{
		db:             db,
		clients:        make(map[*Client]bool),
		games:          make(map[*Client]*game.Game),
		saved:          make(map[string]bool),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString() // Assign a unique ID upon registration
			log.Printf("Client %s (%s) connected", client.ID, client.conn.RemoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.clientMu.Lock()
			_, clientExists := h.clients[client]
			if clientExists {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
			}
			h.clientMu.Unlock()

			// An in-progress match dies with its client; only finished
			// matches are ever persisted.
			h.gameMu.Lock()
			if g, inGame := h.games[client]; inGame {
				log.Printf("Client %s abandoned game %s.", client.ID, g.ID)
				delete(h.games, client)
				delete(h.saved, g.ID)
			}
			h.gameMu.Unlock()

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case "start_match":
		h.handleStartMatch(client, msg)
	case "play_card", "call_truco", "call_envido", "next_hand", "new_match":
		h.handleGameAction(client, msg)
	case "ping":
		pongMsg, _ := protocol.NewMessage("pong", nil)
		client.send <- pongMsg
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleStartMatch creates a match session for the client.
func (h *Hub) handleStartMatch(client *Client, msg protocol.Message) {
	h.gameMu.RLock()
	_, alreadyPlaying := h.games[client]
	h.gameMu.RUnlock()
	if alreadyPlaying {
		log.Printf("Client %s tried to start a match but already has one.", client.ID)
		h.sendErrorToClient(client, "Already in a match. Send new_match to restart it.")
		return
	}

	var payload protocol.StartMatchPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling start_match payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid start_match message format.")
		return
	}
	if payload.Name == "" {
		log.Printf("Client %s tried to start a match with an empty name.", client.ID)
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}

	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientMu.Unlock()

	newGame := game.NewGame(client.ID, payload.Name, h.sendMessageToClient)
	h.gameMu.Lock()
	h.games[client] = newGame
	h.gameMu.Unlock()

	log.Printf("Client %s (%s) started game %s", client.ID, client.Name, newGame.ID)
	newGame.Start()
}

// handleGameAction forwards actions like play_card or call_truco to the
// client's game instance.
func (h *Hub) handleGameAction(client *Client, msg protocol.Message) {
	h.gameMu.RLock()
	gameInstance, inGame := h.games[client]
	h.gameMu.RUnlock()

	if !inGame {
		log.Printf("Received '%s' from client %s with no active match.", msg.Type, client.ID)
		h.sendErrorToClient(client, "You are not in a match. Send start_match first.")
		return
	}

	gameInstance.HandlePlayerAction(msg)
	h.persistIfFinished(gameInstance)
}

// persistIfFinished saves the match result exactly once per finished match.
// A new_match command unfinishes the session and arms persistence again.
func (h *Hub) persistIfFinished(g *game.Game) {
	h.gameMu.Lock()
	defer h.gameMu.Unlock()

	if !g.Finished() {
		delete(h.saved, g.ID)
		return
	}
	if h.saved[g.ID] {
		return
	}

	winner, playerScore, opponentScore, handsPlayed := g.Result()
	result := database.MatchResult{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Player:        g.PlayerName,
		Opponent:      "Opponent",
		PlayerScore:   playerScore,
		OpponentScore: opponentScore,
		Winner:        string(winner),
		HandsPlayed:   handsPlayed,
	}
	if err := h.db.Insert(result); err != nil {
		log.Printf("Error persisting result of game %s: %v", g.ID, err)
		return
	}
	h.saved[g.ID] = true
	log.Printf("Game %s: Result persisted (%s, %d-%d).", g.ID, result.Winner, playerScore, opponentScore)
}

// sendMessageToClient allows the game logic to send messages back via the
// hub. This is passed as a callback to each game instance.
func (h *Hub) sendMessageToClient(clientID string, message []byte) {
	h.clientMu.RLock()
	var targetClient *Client
	for client := range h.clients {
		if client.ID == clientID {
			targetClient = client
			break
		}
	}
	h.clientMu.RUnlock()

	if targetClient == nil {
		log.Printf("Could not find client %s to send message (already disconnected?).", clientID)
		return
	}

	// Non-blocking send so a stuck client cannot block the hub or game.
	select {
	case targetClient.send <- message:
	default:
		log.Printf("Failed to send message to client %s (channel full or closed), initiating cleanup.", clientID)
		go func() {
			h.clientMu.RLock()
			_, stillConnected := h.clients[targetClient]
			h.clientMu.RUnlock()
			if stillConnected {
				h.unregister <- targetClient
			}
		}()
	}
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	payload := protocol.ErrorPayload{Message: errorMsg}
	msgBytes, err := protocol.NewMessage("error", payload)
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}
