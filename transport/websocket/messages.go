package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/tictactoe"
)

const (
	actionConnect     = "connect"
	actionGameNew     = "game:new"
	actionGameJoin    = "game:join"
	actionGameTurn    = "game:turn"
	actionGameHint    = "game:hint"
	actionGameRestart = "game:restart"
	actionGameLeave   = "game:leave"
	actionError       = "error"

	actionGameOpponentOut = "game:opponent-out"
)

const gameStatusLeave = "leave"

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player *entity.Player   `json:"player,omitempty"`
	Game   *entity.Game     `json:"game,omitempty"`
	Cell   *tictactoe.Coord `json:"cell,omitempty"`
	Error  string           `json:"error,omitempty"`
}

func newMessage(action string, payload Payload) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return Message{Action: action, Payload: data}, nil
}

func decodePayload(message *Message) (Payload, error) {
	var payload Payload
	if len(message.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}

// maskGameDetails hides the seating details from the game payload.
func maskGameDetails(game *entity.Game) *entity.Game {
	masked := *game
	masked.Players = nil
	masked.Type = ""

	return &masked
}
