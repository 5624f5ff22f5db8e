package protocol

import (
	"encoding/json"

	"truco-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "start_match", "play_card")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// --- Client -> Server Payload Structs ---

type StartMatchPayload struct {
	Name string `json:"name"`
}

type PlayCardPayload struct {
	Suit  shared.Suit `json:"suit"`
	Value int         `json:"value"`
}

// call_truco, call_envido, next_hand and new_match carry no payload.

// --- Server -> Client Payload Structs ---

type MatchStartPayload struct {
	GameID       string `json:"game_id"`
	PlayerName   string `json:"player_name"`
	OpponentName string `json:"opponent_name"`
	WinningScore int    `json:"winning_score"`
}

type DealHandPayload struct {
	HandNumber int           `json:"hand_number"`
	Hand       []shared.Card `json:"hand"`
}

// GameStatePayload carries the full observable match state after every
// transition. The opponent's hand appears only as a card count.
type GameStatePayload struct {
	Phase             string         `json:"phase"`
	HandNumber        int            `json:"hand_number"`
	PlayerScore       int            `json:"player_score"`
	OpponentScore     int            `json:"opponent_score"`
	TrucoLevel        int            `json:"truco_level"`
	EnvidoCalled      bool           `json:"envido_called"`
	PlayerHand        []shared.Card  `json:"player_hand"`
	OpponentCardCount int            `json:"opponent_card_count"`
	TableCard         *shared.Card   `json:"table_card,omitempty"`
	Tricks            []shared.Trick `json:"tricks"`
	PlayerTrickWins   int            `json:"player_trick_wins"`
	OpponentTrickWins int            `json:"opponent_trick_wins"`
	LegalActions      []string       `json:"legal_actions"`
	Message           string         `json:"message"`
}

type TrickEndPayload struct {
	TrickNumber  int          `json:"trick_number"`
	PlayerCard   shared.Card  `json:"player_card"`
	OpponentCard shared.Card  `json:"opponent_card"`
	Winner       shared.Side  `json:"winner"`
}

type TrucoCalledPayload struct {
	CallName   string `json:"call_name"`
	TrucoLevel int    `json:"truco_level"`
}

type EnvidoResultPayload struct {
	PlayerPoints   int         `json:"player_points"`
	OpponentPoints int         `json:"opponent_points"`
	Winner         shared.Side `json:"winner"`
	PointsAwarded  int         `json:"points_awarded"`
}

type HandEndPayload struct {
	HandNumber    int         `json:"hand_number"`
	Winner        shared.Side `json:"winner"` // "none" for a fully tied hand
	PointsAwarded int         `json:"points_awarded"`
	PlayerScore   int         `json:"player_score"`
	OpponentScore int         `json:"opponent_score"`
}

type MatchOverPayload struct {
	Winner        shared.Side `json:"winner"`
	PlayerScore   int         `json:"player_score"`
	OpponentScore int         `json:"opponent_score"`
	HandsPlayed   int         `json:"hands_played"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		msg := Message{
			Type:    msgType,
			Payload: nil,
		}
		return json.Marshal(msg)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
