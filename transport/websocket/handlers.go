package websocket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/qubic-backend/internal/apperror"
	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/repository"
	"github.com/rocketscienceinc/qubic-backend/internal/service"
	"github.com/rocketscienceinc/qubic-backend/internal/tictactoe"
	"github.com/rocketscienceinc/qubic-backend/internal/usecase"
)

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "malformed payload")
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get", "player", playerID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new player")
	}

	that.register(player.ID, conn)

	payloadResp := Payload{Player: player}

	var resumed *entity.Game
	if player.InGame() {
		game, err := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
		if err == nil {
			resumed = game
			payloadResp.Game = maskGameDetails(game)
		} else {
			log.Warn("failed to resume game", "gameID", player.GameID, "error", err)
		}
	}

	if err = that.sendMessage(conn, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	// a bot reply may have been cut off by a restart of the server
	if resumed != nil && resumed.IsBotTurn() {
		that.scheduleBotTurn(ctx, resumed.ID)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, ok := that.requirePlayer(conn, msg)
	if !ok {
		return nil
	}

	if payloadReq.Game == nil {
		return that.sendErrorResponse(conn, msg.Action, "Game is required")
	}

	that.register(payloadReq.Player.ID, conn)

	game, err := that.gameUseCase.GetOrCreateGame(ctx, payloadReq.Player.ID, payloadReq.Game.Type)
	if err != nil {
		log.Error("failed to create or get", "player", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new game")
	}

	that.broadcast(msg.Action, game)

	if game.IsBotTurn() {
		that.scheduleBotTurn(ctx, game.ID)
	}

	log.Info("player is in game", "gameID", game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleJoinGame")

	payloadReq, ok := that.requirePlayer(conn, msg)
	if !ok {
		return nil
	}

	if payloadReq.Game == nil || payloadReq.Game.ID == "" {
		return that.sendErrorResponse(conn, msg.Action, "Game is required")
	}

	that.register(payloadReq.Player.ID, conn)

	log = log.With("playerID", payloadReq.Player.ID)

	game, err := that.gameUseCase.JoinGame(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to join game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, fmt.Sprintf("game %s: %s", payloadReq.Game.ID, errorMessage(err)))
	}

	that.broadcast(msg.Action, game)

	log.Info("player joined game", "gameID", game.ID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, ok := that.requirePlayer(conn, msg)
	if !ok {
		return nil
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(conn, msg.Action, "Cell is required")
	}

	that.register(payloadReq.Player.ID, conn)

	log = log.With("playerID", payloadReq.Player.ID)

	game, err := that.gameUseCase.MakeTurn(ctx, payloadReq.Player.ID, *payloadReq.Cell)
	if errors.Is(err, apperror.ErrGameFinished) && game != nil {
		that.broadcast(msg.Action, game)
		log.Info("game finished", "gameID", game.ID, "winner", game.Winner())

		return nil
	}

	if err != nil {
		log.Info("turn rejected", "error", err)
		return that.sendErrorResponse(conn, msg.Action, errorMessage(err))
	}

	that.broadcast(msg.Action, game)

	if game.IsBotTurn() {
		that.scheduleBotTurn(ctx, game.ID)
	}

	return nil
}

// scheduleBotTurn - answers for the bot after botDelay so the reply does not land instantly.
func (that *Server) scheduleBotTurn(ctx context.Context, gameID string) {
	log := that.logger.With("method", "scheduleBotTurn", "gameID", gameID)

	that.botTurns.Add(1)
	go func() {
		defer that.botTurns.Done()

		select {
		case <-ctx.Done():
			return
		case <-time.After(that.botDelay):
		}

		game, cell, err := that.gameUseCase.BotTurn(ctx, gameID)
		if errors.Is(err, apperror.ErrNotYourTurn) {
			// another scheduled reply already moved
			log.Debug("bot turn already taken")
			return
		}

		if err != nil && !(errors.Is(err, apperror.ErrGameFinished) && game != nil) {
			log.Error("failed to make bot turn", "error", err)
			return
		}

		that.broadcastWithCell(actionGameTurn, game, &cell)
	}()
}

func (that *Server) handleGameHint(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, ok := that.requirePlayer(conn, msg)
	if !ok {
		return nil
	}

	that.register(payloadReq.Player.ID, conn)

	cell, err := that.gameUseCase.Hint(ctx, payloadReq.Player.ID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, errorMessage(err))
	}

	return that.sendMessage(conn, msg.Action, Payload{Cell: &cell})
}

func (that *Server) handleGameRestart(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameRestart")

	payloadReq, ok := that.requirePlayer(conn, msg)
	if !ok {
		return nil
	}

	that.register(payloadReq.Player.ID, conn)

	game, err := that.gameUseCase.Restart(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Info("restart rejected", "playerID", payloadReq.Player.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, errorMessage(err))
	}

	that.broadcast(msg.Action, game)

	return nil
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameLeave")

	payloadReq, ok := that.requirePlayer(conn, msg)
	if !ok {
		return nil
	}

	that.register(payloadReq.Player.ID, conn)

	game, err := that.gameUseCase.LeaveGame(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to end game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "game doesn't exist")
	}

	left := *game
	left.Status = gameStatusLeave
	that.broadcast(msg.Action, &left)

	log.Info("player leaving", "playerID", payloadReq.Player.ID, "gameID", game.ID)

	return nil
}

// requirePlayer - decodes the payload and reports an error to the client when no player is given.
func (that *Server) requirePlayer(conn *connection, msg *Message) (Payload, bool) {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.reportSendError(that.sendErrorResponse(conn, msg.Action, "malformed payload"))
		return payloadReq, false
	}

	if payloadReq.Player == nil || payloadReq.Player.ID == "" {
		that.reportSendError(that.sendErrorResponse(conn, msg.Action, "Player is required"))
		return payloadReq, false
	}

	return payloadReq, true
}

func (that *Server) broadcast(action string, game *entity.Game) {
	that.broadcastWithCell(action, game, nil)
}

// broadcastWithCell - sends the game to every connected human seated in it.
func (that *Server) broadcastWithCell(action string, game *entity.Game, cell *tictactoe.Coord) {
	log := that.logger.With("method", "broadcast", "gameID", game.ID)

	for _, player := range game.Players {
		if player.IsBot() {
			continue
		}

		conn, ok := that.connectionOf(player.ID)
		if !ok {
			log.Warn("connection not found for player", "playerID", player.ID)
			continue
		}

		payloadResp := Payload{
			Player: player,
			Game:   maskGameDetails(game),
			Cell:   cell,
		}

		if err := that.sendMessage(conn, action, payloadResp); err != nil {
			log.Error("failed to send game update", "playerID", player.ID, "error", err)
		}
	}
}

func (that *Server) sendMessage(conn *connection, action string, payload Payload) error {
	message, err := newMessage(action, payload)
	if err != nil {
		return err
	}

	return conn.send(message)
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	if err := that.sendMessage(conn, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func (that *Server) reportSendError(err error) {
	if err != nil {
		that.logger.Error("failed to report error to client", "error", err)
	}
}

// errorMessage - maps domain errors to the text shown to players. Anything else stays internal.
func errorMessage(err error) string {
	known := []error{
		apperror.ErrGameFinished,
		apperror.ErrGameIsNotStarted,
		apperror.ErrNotYourTurn,
		apperror.ErrNoActiveGames,
		apperror.ErrCellOccupied,
		apperror.ErrInvalidCell,
		apperror.ErrGameFull,
		apperror.ErrMoveTooSoon,
		apperror.ErrAlreadyInGame,
		repository.ErrGameNotFound,
		service.ErrNoAvailableMoves,
		usecase.ErrUnknownGameType,
	}

	for _, target := range known {
		if errors.Is(err, target) {
			return target.Error()
		}
	}

	return "internal error"
}
