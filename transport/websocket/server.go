package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/qubic-backend/internal/entity"
	"github.com/rocketscienceinc/qubic-backend/internal/tictactoe"
)

const (
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	maxMessageSize  = 4096
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	GetOrCreateGame(ctx context.Context, playerID, gameType string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGameByPlayerID(ctx context.Context, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, cell tictactoe.Coord) (*entity.Game, error)
	BotTurn(ctx context.Context, gameID string) (*entity.Game, tictactoe.Coord, error)
	Hint(ctx context.Context, playerID string) (tictactoe.Coord, error)

	Restart(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, message *Message, conn *connection) error

// connection - a client socket. gorilla allows a single concurrent writer per socket.
type connection struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (that *connection) send(message Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	botDelay    time.Duration

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc

	connectionsMutex sync.RWMutex
	connections      map[string]*connection

	botTurns sync.WaitGroup
}

func New(logger *slog.Logger, gameUseCase gameUseCase, botDelay time.Duration) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		botDelay:    botDelay,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		handlers:    make(map[string]handlerFunc),
		connections: make(map[string]*connection),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameJoin] = server.handleJoinGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameHint] = server.handleGameHint
	server.handlers[actionGameRestart] = server.handleGameRestart
	server.handlers[actionGameLeave] = server.handleGameLeave

	return server
}

// Handler - returns the /ws endpoint. ctx bounds every game action started through it.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - serves WebSocket clients until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// hijacked sockets outlive Shutdown, wait for pending bot replies
	that.botTurns.Wait()

	return nil
}

func (that *Server) serveWS(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{ws: ws}
	defer func() {
		that.handleDisconnect(ctx, conn)
		_ = ws.Close()
	}()

	// unblock the read loop when the server stops
	stop := context.AfterFunc(ctx, func() {
		_ = ws.Close()
	})
	defer stop()

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Info("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client until the socket closes.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	conn.ws.SetReadLimit(maxMessageSize)

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)

			if err = that.sendErrorResponse(conn, actionError, "malformed message"); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = that.sendErrorResponse(conn, message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, &message, conn); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) register(playerID string, conn *connection) {
	that.connectionsMutex.Lock()
	that.connections[playerID] = conn
	that.connectionsMutex.Unlock()
}

func (that *Server) connectionOf(playerID string) (*connection, bool) {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	conn, ok := that.connections[playerID]
	return conn, ok
}

// handleDisconnect - forgets every player registered on conn. The game stays stored so
// the player can resume it with another connect.
func (that *Server) handleDisconnect(ctx context.Context, conn *connection) {
	var gone []string

	that.connectionsMutex.Lock()
	for playerID, registered := range that.connections {
		if registered == conn {
			delete(that.connections, playerID)
			gone = append(gone, playerID)
		}
	}
	that.connectionsMutex.Unlock()

	for _, playerID := range gone {
		that.logger.Info("player disconnected", "playerID", playerID)
		that.handleOpponentOut(ctx, playerID)
	}
}

// handleOpponentOut - tells the rest of a private game that playerID dropped.
func (that *Server) handleOpponentOut(ctx context.Context, playerID string) {
	if ctx.Err() != nil {
		return
	}

	game, err := that.gameUseCase.GetGameByPlayerID(ctx, playerID)
	if err != nil {
		that.logger.Debug("no game to notify", "playerID", playerID, "error", err)
		return
	}

	if game.IsWithBot() {
		return
	}

	others := *game
	others.Players = nil
	for _, player := range game.Players {
		if player.ID != playerID {
			others.Players = append(others.Players, player)
		}
	}

	that.broadcast(actionGameOpponentOut, &others)
}
