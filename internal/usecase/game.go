package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/qubic-backend/internal/apperror"
	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/repository"
	"github.com/rocketscienceinc/qubic-backend/internal/tictactoe"
)

type GameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGameByID(ctx context.Context, gameID string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, cell tictactoe.Coord) (*entity.Game, error)
	BotTurn(ctx context.Context, gameID string) (*entity.Game, tictactoe.Coord, error)
	Hint(ctx context.Context, playerID string) (tictactoe.Coord, error)

	Restart(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) (*entity.Game, error)
}

type playerService interface {
	CreatePlayer(ctx context.Context) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameService interface {
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

type gamePlayService interface {
	GetOrCreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, cell tictactoe.Coord) (*entity.Game, error)
	BotTurn(ctx context.Context, gameID string) (*entity.Game, tictactoe.Coord, error)
	Hint(ctx context.Context, playerID string) (tictactoe.Coord, error)

	Restart(ctx context.Context, playerID string) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)
}

type gameUseCase struct {
	playerService   playerService
	gameService     gameService
	gamePlayService gamePlayService
}

func NewGameUseCase(playerService playerService, gameService gameService, gamePlayService gamePlayService) GameUseCase {
	return &gameUseCase{
		playerService:   playerService,
		gameService:     gameService,
		gamePlayService: gamePlayService,
	}
}

// GetOrCreatePlayer - returns the stored player, or a new one when the id is empty or expired.
func (that *gameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID != "" {
		player, err := that.playerService.GetPlayerByID(ctx, playerID)
		if err == nil {
			return player, nil
		}

		if !errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, fmt.Errorf("failed to get player by id: %w", err)
		}
	}

	player, err := that.playerService.CreatePlayer(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create player: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error) {
	if gameType != entity.PrivateType && gameType != entity.WithBotType {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, gameType)
	}

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	game, err := that.gamePlayService.GetOrCreateGame(ctx, player, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.JoinGameByID(ctx, gameID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) GetGameByID(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by player: %w", err)
	}

	return game, nil
}

// MakeTurn - applies a human move. When the move ends the game the final state is
// returned together with apperror.ErrGameFinished.
func (that *gameUseCase) MakeTurn(ctx context.Context, playerID string, cell tictactoe.Coord) (*entity.Game, error) {
	game, err := that.gamePlayService.MakeTurn(ctx, playerID, cell)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsFinished() {
		return game, apperror.ErrGameFinished
	}

	return game, nil
}

// BotTurn - same contract as MakeTurn for the automated player.
func (that *gameUseCase) BotTurn(ctx context.Context, gameID string) (*entity.Game, tictactoe.Coord, error) {
	game, cell, err := that.gamePlayService.BotTurn(ctx, gameID)
	if err != nil {
		return nil, tictactoe.Coord{}, fmt.Errorf("failed to make bot turn: %w", err)
	}

	if game.IsFinished() {
		return game, cell, apperror.ErrGameFinished
	}

	return game, cell, nil
}

func (that *gameUseCase) Hint(ctx context.Context, playerID string) (tictactoe.Coord, error) {
	cell, err := that.gamePlayService.Hint(ctx, playerID)
	if err != nil {
		return tictactoe.Coord{}, fmt.Errorf("failed to get hint: %w", err)
	}

	return cell, nil
}

func (that *gameUseCase) Restart(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.Restart(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	return game, nil
}

// LeaveGame - ends the player's game for everybody seated in it.
func (that *gameUseCase) LeaveGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by player: %w", err)
	}

	that.gamePlayService.CleanupGame(ctx, game)

	return game, nil
}
