package usecase

import (
	"context"

	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/tictactoe"
	"github.com/stretchr/testify/mock"
)

type mockPlayerService struct {
	mock.Mock
}

func (m *mockPlayerService) CreatePlayer(ctx context.Context) (*entity.Player, error) {
	args := m.Called(ctx)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (m *mockPlayerService) GetPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	args := m.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

type mockGameService struct {
	mock.Mock
}

func (m *mockGameService) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

type mockGamePlayService struct {
	mock.Mock
}

func (m *mockGamePlayService) GetOrCreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error) {
	args := m.Called(ctx, player, gameType)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGamePlayService) JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	args := m.Called(ctx, gameID, playerID)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGamePlayService) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	args := m.Called(ctx, playerID)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGamePlayService) MakeTurn(ctx context.Context, playerID string, cell tictactoe.Coord) (*entity.Game, error) {
	args := m.Called(ctx, playerID, cell)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGamePlayService) BotTurn(ctx context.Context, gameID string) (*entity.Game, tictactoe.Coord, error) {
	args := m.Called(ctx, gameID)
	game, _ := args.Get(0).(*entity.Game)
	cell, _ := args.Get(1).(tictactoe.Coord)
	return game, cell, args.Error(2)
}

func (m *mockGamePlayService) Hint(ctx context.Context, playerID string) (tictactoe.Coord, error) {
	args := m.Called(ctx, playerID)
	cell, _ := args.Get(0).(tictactoe.Coord)
	return cell, args.Error(1)
}

func (m *mockGamePlayService) Restart(ctx context.Context, playerID string) (*entity.Game, error) {
	args := m.Called(ctx, playerID)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGamePlayService) CleanupGame(ctx context.Context, game *entity.Game) {
	m.Called(ctx, game)
}

type useCaseMocks struct {
	players  *mockPlayerService
	games    *mockGameService
	gamePlay *mockGamePlayService
}

func newUseCase() (GameUseCase, *useCaseMocks) {
	mocks := &useCaseMocks{
		players:  new(mockPlayerService),
		games:    new(mockGameService),
		gamePlay: new(mockGamePlayService),
	}

	return NewGameUseCase(mocks.players, mocks.games, mocks.gamePlay), mocks
}
