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

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

const shutdownTimeout = 5 * time.Second

type sessionUseCase interface {
	NewSession(ctx context.Context, mode entity.Mode) (*entity.SessionState, error)
	GetSession(ctx context.Context, id string) (*entity.SessionState, error)
	PlayAt(ctx context.Context, id string, cell int) (*entity.SessionState, *game.TurnResult, error)
	ChangeMode(ctx context.Context, id string, mode entity.Mode) (*entity.SessionState, error)
	StartNextRound(ctx context.Context, id string) (*entity.SessionState, error)
	StartNextRoundAfter(ctx context.Context, id string, round int) (*entity.SessionState, error)
}

type handlerFunc func(ctx context.Context, conn *connection, req *Request) error

// connection is one client socket bound to at most one session.
type connection struct {
	ws *websocket.Conn

	writeMu sync.Mutex

	sessionMu sync.Mutex
	sessionID string
}

func (that *connection) send(resp Response) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.ws.WriteJSON(resp); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) session() string {
	that.sessionMu.Lock()
	defer that.sessionMu.Unlock()

	return that.sessionID
}

func (that *connection) bind(id string) {
	that.sessionMu.Lock()
	that.sessionID = id
	that.sessionMu.Unlock()
}

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase

	defaultMode entity.Mode
	roundDelay  time.Duration

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

// New builds a server that starts the next round roundDelay after one ends.
func New(logger *slog.Logger, sessions sessionUseCase, defaultMode entity.Mode, roundDelay time.Duration) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,

		defaultMode: defaultMode,
		roundDelay:  roundDelay,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionNew] = server.handleNewSession
	server.handlers[actionResume] = server.handleResume
	server.handlers[actionPlay] = server.handlePlay
	server.handlers[actionMode] = server.handleMode
	server.handlers[actionNext] = server.handleNext

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer ws.Close()

	// Pending round timers stop with the connection.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("WebSocket connection established")

	that.handleMessages(ctx, &connection{ws: ws})
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := conn.ws.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}

			log.Info("WebSocket connection closed", "session_id", conn.session())

			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(conn, message.Action, fmt.Sprintf("unknown action %q", message.Action))

			continue
		}

		var req Request
		if len(message.Payload) > 0 {
			if err := json.Unmarshal(message.Payload, &req); err != nil {
				that.sendError(conn, message.Action, "malformed payload")
				continue
			}
		}

		if err := handler(ctx, conn, &req); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) sendError(conn *connection, action, reason string) {
	if err := conn.send(Response{Action: action, Error: reason}); err != nil {
		that.logger.Error("failed to send error response", "error", err)
	}
}
