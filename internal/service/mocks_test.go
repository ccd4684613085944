package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

type mockPlayerRepo struct {
	mock.Mock
}

func (m *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := m.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func (m *mockGameRepo) Create(ctx context.Context, game *entity.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// memoryStore keeps JSON copies, so every read decodes a fresh board like redis does.
type memoryStore struct {
	mu      sync.Mutex
	games   map[string][]byte
	players map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		games:   make(map[string][]byte),
		players: make(map[string][]byte),
	}
}

type memoryGames struct{ *memoryStore }

type memoryPlayers struct{ *memoryStore }

func (that memoryGames) Create(_ context.Context, game *entity.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[game.ID]; ok {
		return repository.ErrGameExists
	}
	that.games[game.ID] = data

	return nil
}

func (that memoryGames) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	that.mu.Lock()
	that.games[game.ID] = data
	that.mu.Unlock()

	return nil
}

func (that memoryGames) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	data, ok := that.games[id]
	that.mu.Unlock()

	if !ok {
		return nil, repository.ErrGameNotFound
	}

	var game entity.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}

	return &game, nil
}

func (that memoryGames) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return repository.ErrGameNotFound
	}
	delete(that.games, id)

	return nil
}

func (that memoryPlayers) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	that.mu.Lock()
	that.players[player.ID] = data
	that.mu.Unlock()

	return nil
}

func (that memoryPlayers) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.Lock()
	data, ok := that.players[id]
	that.mu.Unlock()

	if !ok {
		return nil, repository.ErrPlayerNotFound
	}

	var player entity.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}

	return &player, nil
}
