package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/pkg"
	"github.com/rocketscienceinc/qubic-backend/internal/repository"
)

// createAttempts - how many fresh ids CreateGame tries before giving up.
const createAttempts = 3

type GameService interface {
	CreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error)
	UpdateGame(ctx context.Context, game *entity.Game) error
	DeleteGame(ctx context.Context, gameID string) error

	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameService struct {
	gameRepo gameRepo
}

func NewGameService(gameRepo gameRepo) GameService {
	return &gameService{
		gameRepo: gameRepo,
	}
}

// CreateGame - creates a game with player seated as O. A taken id is retried with a new one.
func (that *gameService) CreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error) {
	seat := *player

	var err error
	for range createAttempts {
		game := entity.NewGame(pkg.GenerateGameID(), gameType)

		player.GameID = game.ID
		player.Mark = entity.HumanMark
		game.Players = []*entity.Player{player}

		if err = that.gameRepo.Create(ctx, game); err == nil {
			return game, nil
		}

		if !errors.Is(err, repository.ErrGameExists) {
			break
		}
	}

	*player = seat

	return nil, fmt.Errorf("failed to create game in storage: %w", err)
}

func (that *gameService) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game, nil
}

func (that *gameService) UpdateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *gameService) DeleteGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}
