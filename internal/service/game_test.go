package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGameService_CreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Seats the creator as O", func(t *testing.T) {
		// Given: a repository that accepts the game
		repo := &mockGameRepo{}
		repo.On("Create", ctx, mock.AnythingOfType("*entity.Game")).Return(nil).Once()
		svc := NewGameService(repo)
		player := &entity.Player{ID: "p1"}

		// When: a private game is created
		game, err := svc.CreateGame(ctx, player, entity.PrivateType)

		// Then: the player is seated as O and the game waits for an opponent
		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, game.ID, player.GameID)
		assert.Equal(t, entity.HumanMark, player.Mark)
		assert.Equal(t, []*entity.Player{player}, game.Players)
		assert.True(t, game.IsWaiting())
		repo.AssertExpectations(t)
	})

	t.Run("Taken id is retried with a new one", func(t *testing.T) {
		// Given: a repository where the first generated id is already taken
		repo := &mockGameRepo{}
		var tried []string
		repo.On("Create", ctx, mock.AnythingOfType("*entity.Game")).
			Run(func(args mock.Arguments) { tried = append(tried, args.Get(1).(*entity.Game).ID) }).
			Return(fmt.Errorf("%w: taken", repository.ErrGameExists)).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*entity.Game")).
			Run(func(args mock.Arguments) { tried = append(tried, args.Get(1).(*entity.Game).ID) }).
			Return(nil).Once()
		svc := NewGameService(repo)
		player := &entity.Player{ID: "p1"}

		// When: a game is created
		game, err := svc.CreateGame(ctx, player, entity.PrivateType)

		// Then: the second id is used and the stored seat points at it
		require.NoError(t, err)
		require.Len(t, tried, 2)
		assert.Equal(t, tried[1], game.ID)
		assert.Equal(t, game.ID, player.GameID)
		assert.Equal(t, game.ID, game.Players[0].GameID)
		repo.AssertExpectations(t)
	})

	t.Run("Gives up when every id is taken", func(t *testing.T) {
		// Given: a repository that rejects every id
		repo := &mockGameRepo{}
		repo.On("Create", ctx, mock.AnythingOfType("*entity.Game")).Return(repository.ErrGameExists).Times(createAttempts)
		svc := NewGameService(repo)
		player := &entity.Player{ID: "p1"}

		// When: a game is created
		game, err := svc.CreateGame(ctx, player, entity.PrivateType)

		// Then: ErrGameExists is returned and the player is left unseated
		require.ErrorIs(t, err, repository.ErrGameExists)
		assert.Nil(t, game)
		assert.False(t, player.InGame())
		repo.AssertExpectations(t)
	})

	t.Run("Returns error if storage fails", func(t *testing.T) {
		repo := &mockGameRepo{}
		repo.On("Create", ctx, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()
		svc := NewGameService(repo)

		game, err := svc.CreateGame(ctx, &entity.Player{ID: "p1"}, entity.WithBotType)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
		repo.AssertNumberOfCalls(t, "Create", 1)
	})
}

func TestGameService_DeleteGame(t *testing.T) {
	ctx := context.Background()

	// Given: a repository that fails to delete
	repo := &mockGameRepo{}
	repo.On("DeleteByID", ctx, "g1").Return(errRedisDown).Once()
	svc := NewGameService(repo)

	// When: the game is deleted
	err := svc.DeleteGame(ctx, "g1")

	// Then: the error is wrapped
	require.ErrorIs(t, err, errRedisDown)
	repo.AssertExpectations(t)
}
