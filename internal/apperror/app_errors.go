package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrNoActiveGames    = errors.New("no active games")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell coordinate")
	ErrGameFull         = errors.New("game already has two players")
	ErrMoveTooSoon      = errors.New("move sent too soon after the previous one")
	ErrAlreadyInGame    = errors.New("player is already in another game")
)
