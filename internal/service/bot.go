package service

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/tictactoe"
)

var (
	ErrBotNotFound      = errors.New("bot player not found")
	ErrNoAvailableMoves = errors.New("no available moves")
)

type BotService interface {
	MakeTurn(game *entity.Game) (tictactoe.Coord, error)
}

type botService struct{}

func NewBotService() BotService {
	return &botService{}
}

// MakeTurn - plays the recommended move for the bot and returns the chosen cell.
func (that *botService) MakeTurn(game *entity.Game) (tictactoe.Coord, error) {
	botPlayer, ok := game.Bot()
	if !ok {
		return tictactoe.Coord{}, ErrBotNotFound
	}

	cell, ok := game.Board.RecommendMove(botPlayer.Mark)
	if !ok {
		return tictactoe.Coord{}, ErrNoAvailableMoves
	}

	if err := game.MakeTurn(botPlayer.Mark, cell); err != nil {
		return tictactoe.Coord{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return cell, nil
}
