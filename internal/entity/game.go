package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/qubic-backend/internal/apperror"
	"github.com/rocketscienceinc/qubic-backend/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerTie = "-"
)

const (
	PrivateType = "private"
	WithBotType = "bot"
)

// In games against the bot the human always plays O and moves first.
const (
	HumanMark = tictactoe.PlayerO
	BotMark   = tictactoe.PlayerX
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID         string          `json:"id"`
	Board      *tictactoe.Game `json:"board"`
	Status     string          `json:"status"`
	Turn       tictactoe.Mark  `json:"player_turn,omitempty"`
	Players    []*Player       `json:"players,omitempty"`
	Type       string          `json:"type,omitempty"`
	LastMoveAt time.Time       `json:"last_move_at"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Board:  tictactoe.NewGame(),
		Turn:   HumanMark,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// MakeTurn - places mark at cell when it is that mark's turn, then passes the turn.
func (that *Game) MakeTurn(mark tictactoe.Mark, cell tictactoe.Coord) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if _, err := that.Board.ApplyMove(cell, mark); err != nil {
		return translateBoardError(err)
	}

	that.LastMoveAt = time.Now()
	that.UpdateGameState()

	return nil
}

// UpdateGameState - syncs status and turn with the board result.
func (that *Game) UpdateGameState() {
	if that.Board.IsFinished() {
		that.Status = StatusFinished
		that.Turn = ""
		return
	}

	that.Status = StatusOngoing
	that.Turn = that.Turn.Opponent()
}

// Restart - clears the board for a rematch between the same players.
func (that *Game) Restart() {
	that.Board.Reset()
	that.Status = StatusOngoing
	that.Turn = HumanMark
	that.LastMoveAt = time.Time{}
}

// Winner returns the winning mark, PlayerTie for a draw, or "" while the game runs.
func (that *Game) Winner() string {
	switch result := that.Board.Result(); result {
	case tictactoe.ResultDraw:
		return PlayerTie
	default:
		return string(result.Winner())
	}
}

func (that *Game) WinningLine() (tictactoe.Line, bool) {
	return that.Board.WinningLine()
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) IsFull() bool {
	return len(that.Players) >= 2
}

// Bot returns the automated player, if the game has one.
func (that *Game) Bot() (*Player, bool) {
	for _, player := range that.Players {
		if player.IsBot() {
			return player, true
		}
	}
	return nil, false
}

func (that *Game) IsBotTurn() bool {
	bot, ok := that.Bot()
	return ok && that.IsOngoing() && that.Turn == bot.Mark
}

func translateBoardError(err error) error {
	switch {
	case errors.Is(err, tictactoe.ErrCellOccupied):
		return fmt.Errorf("%w: %w", apperror.ErrCellOccupied, err)
	case errors.Is(err, tictactoe.ErrInvalidCoordinate), errors.Is(err, tictactoe.ErrInvalidMark):
		return fmt.Errorf("%w: %w", apperror.ErrInvalidCell, err)
	case errors.Is(err, tictactoe.ErrGameFinished):
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("failed to apply move: %w", err)
	}
}
