package repository

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/tictactoe"
	"github.com/rocketscienceinc/qubic-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	t.Run("CreateOrUpdate_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a new game
		game := entity.NewGame("123", entity.PrivateType)

		// When: CreateOrUpdate is called
		err := gameRepo.CreateOrUpdate(ctx, game)

		// Then: no error should be returned, and game is stored
		require.NoError(t, err)
	})

	t.Run("CreateOrUpdate_WithTTL", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, time.Hour)

		// Given: a game stored with a ttl
		game := entity.NewGame("ttl", entity.WithBotType)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the key ttl is read
		ttl, err := st.Storage.TTL(ctx, "game:ttl").Result()

		// Then: it expires within the hour
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Hour)
	})
}

func TestGameRepository_Create(t *testing.T) {
	t.Run("Create_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, time.Hour)

		// Given: a new game
		game := entity.NewGame("new", entity.PrivateType)

		// When: Create is called
		err := gameRepo.Create(ctx, game)

		// Then: the game is stored with the ttl
		require.NoError(t, err)

		ttl, err := st.Storage.TTL(ctx, "game:new").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("Create_TakenID", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: an ongoing game stored under an id
		live := entity.NewGame("taken", entity.WithBotType)
		live.Status = entity.StatusOngoing
		require.NoError(t, gameRepo.Create(ctx, live))

		// When: another game is created with the same id
		err := gameRepo.Create(ctx, entity.NewGame("taken", entity.PrivateType))

		// Then: ErrGameExists is returned and the live game is untouched
		require.ErrorIs(t, err, ErrGameExists)

		stored, err := gameRepo.GetByID(ctx, "taken")
		require.NoError(t, err)
		assert.Equal(t, entity.WithBotType, stored.Type)
		assert.True(t, stored.IsOngoing())
	})
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: an ongoing game where O holds the center
		game := entity.NewGame("123", entity.WithBotType)
		game.Status = entity.StatusOngoing
		game.Players = []*entity.Player{{ID: "p1", GameID: "123", Mark: entity.HumanMark}}
		require.NoError(t, game.MakeTurn(entity.HumanMark, tictactoe.Coord{X: 1, Y: 1, Z: 1}))

		err := gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game should match the saved game
		require.NoError(t, err)
		assert.Equal(t, game.ID, retrievedGame.ID)
		assert.Equal(t, game.Status, retrievedGame.Status)
		assert.Equal(t, game.Turn, retrievedGame.Turn)
		assert.Equal(t, game.Board.Cells(), retrievedGame.Board.Cells())
		assert.Equal(t, game.Players, retrievedGame.Players)
	})

	t.Run("GetByID_RestoresFinishedBoard", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a finished game stored in redis
		game := entity.NewGame("won", entity.PrivateType)
		game.Status = entity.StatusOngoing
		for _, move := range []tictactoe.Coord{{X: 0}, {Z: 2}, {X: 1}, {Y: 2, Z: 2}, {X: 2}} {
			require.NoError(t, game.MakeTurn(game.Turn, move))
		}
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the game is read back
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the board result and winning line survive the round trip
		require.NoError(t, err)
		assert.Equal(t, "O", retrievedGame.Winner())

		line, ok := retrievedGame.WinningLine()
		require.True(t, ok)
		assert.Equal(t, tictactoe.Coord{X: 2}, line.End)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored game
		game := entity.NewGame("123", entity.PrivateType)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: DeleteByID is called with existing ID
		err := gameRepo.DeleteByID(ctx, game.ID)

		// Then: no error should be returned and the game is gone
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, game.ID)
		require.ErrorIs(t, err, ErrGameNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: DeleteByID is called with non-existent ID
		err := gameRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrGameNotFound error should be returned
		require.ErrorIs(t, err, ErrGameNotFound)
	})
}
