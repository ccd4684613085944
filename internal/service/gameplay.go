package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/qubic-backend/internal/apperror"
	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/repository"
	"github.com/rocketscienceinc/qubic-backend/internal/tictactoe"
)

type GamePlayService interface {
	GetOrCreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error)
	JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, cell tictactoe.Coord) (*entity.Game, error)
	BotTurn(ctx context.Context, gameID string) (*entity.Game, tictactoe.Coord, error)
	Hint(ctx context.Context, playerID string) (tictactoe.Coord, error)

	Restart(ctx context.Context, playerID string) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)
}

type gamePlayService struct {
	logger *slog.Logger

	playerService PlayerService
	gameService   GameService
	botService    BotService

	moveCooldown time.Duration
	now          func() time.Time

	mu        sync.Mutex
	locks     map[string]*keyLock
	lastMoves map[string]time.Time
}

// keyLock - a mutex shared by everyone working on one key. The entry lives while holders > 0.
type keyLock struct {
	mu      sync.Mutex
	holders int
}

func NewGamePlayService(
	logger *slog.Logger,
	playerService PlayerService,
	gameService GameService,
	botService BotService,
	moveCooldown time.Duration,
) GamePlayService {
	return &gamePlayService{
		logger:        logger,
		playerService: playerService,
		gameService:   gameService,
		botService:    botService,
		moveCooldown:  moveCooldown,
		now:           time.Now,
		locks:         make(map[string]*keyLock),
		lastMoves:     make(map[string]time.Time),
	}
}

// lockGame - serialises every mutation of one game. The board is not safe for concurrent use.
func (that *gamePlayService) lockGame(gameID string) func() {
	return that.lock("game:" + gameID)
}

// lockPlayer - serialises seating one player, so one player never ends up in two new games.
func (that *gamePlayService) lockPlayer(playerID string) func() {
	return that.lock("player:" + playerID)
}

// lock - takes the mutex for key. Unlocking the last holder drops the entry, so games that
// expire in storage leave nothing behind.
func (that *gamePlayService) lock(key string) func() {
	that.mu.Lock()
	lock, ok := that.locks[key]
	if !ok {
		lock = &keyLock{}
		that.locks[key] = lock
	}
	lock.holders++
	that.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		that.mu.Lock()
		lock.holders--
		if lock.holders == 0 {
			delete(that.locks, key)
		}
		that.mu.Unlock()
	}
}

// GetOrCreateGame - returns the player's stored game, or seats the player in a new one.
func (that *gamePlayService) GetOrCreateGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error) {
	unlock := that.lockPlayer(player.ID)
	defer unlock()

	// a concurrent call may have seated the player while we waited
	stored, err := that.playerService.GetPlayerByID(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}
	*player = *stored

	if player.InGame() {
		game, err := that.gameService.GetGameByID(ctx, player.GameID)
		if err == nil {
			return game, nil
		}

		if !errors.Is(err, repository.ErrGameNotFound) {
			return nil, fmt.Errorf("failed to get game: %w", err)
		}

		// the stored game expired, seat the player in a fresh one
		that.logger.Info("player game expired", "playerID", player.ID, "gameID", player.GameID)
	}

	game, err := that.createGame(ctx, player, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to create new game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) createGame(ctx context.Context, player *entity.Player, gameType string) (*entity.Game, error) {
	game, err := that.gameService.CreateGame(ctx, player, gameType)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if game.IsWithBot() {
		game.Players = append(game.Players, entity.NewBotPlayer(game.ID, entity.BotMark))
		game.Status = entity.StatusOngoing

		if err = that.gameService.UpdateGame(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to update game with bot: %w", err)
		}
	}

	return game, nil
}

func (that *gamePlayService) JoinGameByID(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	unlockPlayer := that.lockPlayer(playerID)
	defer unlockPlayer()

	unlock := that.lockGame(gameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == game.ID {
		return game, nil
	}

	if player.InGame() {
		if err = that.leftExpiredGame(ctx, player); err != nil {
			return nil, err
		}
	}

	if game.IsWithBot() || game.IsFull() {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameFull, gameID)
	}

	player.GameID = game.ID
	player.Mark = entity.HumanMark.Opponent()
	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	game.Status = entity.StatusOngoing
	game.Players = append(game.Players, player)
	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// leftExpiredGame - confirms the player's previous game is gone. A player still seated
// elsewhere has to leave that game first.
func (that *gamePlayService) leftExpiredGame(ctx context.Context, player *entity.Player) error {
	_, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err == nil {
		return fmt.Errorf("%w: game id %s", apperror.ErrAlreadyInGame, player.GameID)
	}

	if !errors.Is(err, repository.ErrGameNotFound) {
		return fmt.Errorf("failed to get current game: %w", err)
	}

	that.logger.Info("player game expired", "playerID", player.ID, "gameID", player.GameID)

	return nil
}

func (that *gamePlayService) GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if !player.InGame() {
		return nil, apperror.ErrNoActiveGames
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// MakeTurn - applies a human move. Moves closer together than the cooldown are dropped.
func (that *gamePlayService) MakeTurn(ctx context.Context, playerID string, cell tictactoe.Coord) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if !player.InGame() {
		return nil, apperror.ErrNoActiveGames
	}

	unlock := that.lockGame(player.GameID)
	defer unlock()

	if err = that.checkCooldown(player.ID); err != nil {
		return nil, err
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.MakeTurn(player.Mark, cell); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	that.recordMove(player.ID)

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// BotTurn - lets the bot answer. Pacing the reply is up to the caller.
func (that *gamePlayService) BotTurn(ctx context.Context, gameID string) (*entity.Game, tictactoe.Coord, error) {
	unlock := that.lockGame(gameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, tictactoe.Coord{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, tictactoe.Coord{}, err
	}

	if !game.IsBotTurn() {
		return game, tictactoe.Coord{}, apperror.ErrNotYourTurn
	}

	cell, err := that.botService.MakeTurn(game)
	if err != nil {
		return nil, tictactoe.Coord{}, fmt.Errorf("failed to make bot turn: %w", err)
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, tictactoe.Coord{}, fmt.Errorf("failed to update game: %w", err)
	}

	return game, cell, nil
}

func (that *gamePlayService) Hint(ctx context.Context, playerID string) (tictactoe.Coord, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return tictactoe.Coord{}, fmt.Errorf("failed to get player by id: %w", err)
	}

	if !player.InGame() {
		return tictactoe.Coord{}, apperror.ErrNoActiveGames
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return tictactoe.Coord{}, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return tictactoe.Coord{}, err
	}

	cell, ok := game.Board.RecommendMove(player.Mark)
	if !ok {
		return tictactoe.Coord{}, ErrNoAvailableMoves
	}

	return cell, nil
}

// Restart - clears the board of the player's game for a rematch.
func (that *gamePlayService) Restart(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if !player.InGame() {
		return nil, apperror.ErrNoActiveGames
	}

	unlock := that.lockGame(player.GameID)
	defer unlock()

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if game.IsWaiting() {
		return game, apperror.ErrGameIsNotStarted
	}

	game.Restart()

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) CleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "cleanupGame", "gameID", game.ID)

	if err := that.gameService.DeleteGame(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		that.forgetMove(player.ID)

		if player.IsBot() {
			continue
		}

		oldMark := player.Mark
		player.GameID = ""
		player.Mark = ""
		if err := that.playerService.UpdatePlayer(ctx, player); err != nil {
			log.Error("failed to update", "player", player.ID, "error", err)
		}
		player.Mark = oldMark
	}
}

func (that *gamePlayService) checkCooldown(playerID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	last, ok := that.lastMoves[playerID]
	if ok && that.now().Sub(last) < that.moveCooldown {
		return apperror.ErrMoveTooSoon
	}

	return nil
}

// recordMove - starts the cooldown for playerID and drops cooldowns that already ran out.
func (that *gamePlayService) recordMove(playerID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	for id, last := range that.lastMoves {
		if now.Sub(last) >= that.moveCooldown {
			delete(that.lastMoves, id)
		}
	}

	that.lastMoves[playerID] = now
}

func (that *gamePlayService) forgetMove(playerID string) {
	that.mu.Lock()
	delete(that.lastMoves, playerID)
	that.mu.Unlock()
}
