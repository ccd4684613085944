package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/repository"
	"github.com/rocketscienceinc/qubic-backend/internal/tictactoe"
)

type gameUseCase interface {
	GetGameByID(ctx context.Context, gameID string) (*entity.Game, error)
}

type handlers struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

type gameResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Turn   tictactoe.Mark  `json:"player_turn,omitempty"`
	Winner string          `json:"winner,omitempty"`
	Board  *tictactoe.Game `json:"board"`
}

type hintResponse struct {
	Cell  tictactoe.Coord `json:"cell"`
	Score int             `json:"score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *handlers) game(w http.ResponseWriter, r *http.Request) {
	game, ok := that.loadGame(w, r)
	if !ok {
		return
	}

	that.writeJSON(w, http.StatusOK, gameResponse{
		ID:     game.ID,
		Status: game.Status,
		Turn:   game.Turn,
		Winner: game.Winner(),
		Board:  game.Board,
	})
}

// hint - recommends a move for the mark in the query. 204 when the board is full.
func (that *handlers) hint(w http.ResponseWriter, r *http.Request) {
	mark := tictactoe.Mark(r.URL.Query().Get("mark"))
	if !mark.IsPlayer() {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "mark must be X or O"})
		return
	}

	game, ok := that.loadGame(w, r)
	if !ok {
		return
	}

	if game.Board.IsFinished() {
		that.writeJSON(w, http.StatusConflict, errorResponse{Error: "game is already finished"})
		return
	}

	cell, found := game.Board.RecommendMove(mark)
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	that.writeJSON(w, http.StatusOK, hintResponse{
		Cell:  cell,
		Score: game.Board.EvaluateCell(cell, mark),
	})
}

func (that *handlers) loadGame(w http.ResponseWriter, r *http.Request) (*entity.Game, bool) {
	id := chi.URLParam(r, "id")

	game, err := that.gameUseCase.GetGameByID(r.Context(), id)
	if errors.Is(err, repository.ErrGameNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: "game not found"})
		return nil, false
	}

	if err != nil {
		that.logger.Error("failed to load game", "gameID", id, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return nil, false
	}

	return game, true
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
