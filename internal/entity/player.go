package entity

import "github.com/rocketscienceinc/qubic-backend/internal/tictactoe"

const botIDPrefix = "bot:"

type Player struct {
	ID     string         `json:"id"`
	Mark   tictactoe.Mark `json:"mark,omitempty"`
	GameID string         `json:"game_id,omitempty"`
	Bot    bool           `json:"bot,omitempty"`
}

// NewBotPlayer creates the automated opponent for a game.
func NewBotPlayer(gameID string, mark tictactoe.Mark) *Player {
	return &Player{
		ID:     botIDPrefix + gameID,
		Mark:   mark,
		GameID: gameID,
		Bot:    true,
	}
}

func (that *Player) IsBot() bool {
	return that.Bot
}

func (that *Player) InGame() bool {
	return that.GameID != ""
}
