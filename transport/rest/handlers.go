package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

type sessionUseCase interface {
	NewSession(ctx context.Context, mode entity.Mode) (*entity.SessionState, error)
	GetSession(ctx context.Context, id string) (*entity.SessionState, error)
	PlayAt(ctx context.Context, id string, cell int) (*entity.SessionState, *game.TurnResult, error)
	ChangeMode(ctx context.Context, id string, mode entity.Mode) (*entity.SessionState, error)
	StartNextRound(ctx context.Context, id string) (*entity.SessionState, error)
	DeleteSession(ctx context.Context, id string) error
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type sessionResponse struct {
	Session    *entity.SessionState `json:"session"`
	Status     string               `json:"status"`
	Scoreboard string               `json:"scoreboard"`
	Changes    []entity.Move        `json:"changes,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger      *slog.Logger
	sessions    sessionUseCase
	defaultMode entity.Mode
}

// NewRouter wires the session routes. Requests without a mode get defaultMode.
func NewRouter(logger *slog.Logger, sessions sessionUseCase, defaultMode entity.Mode) http.Handler {
	h := &handlers{
		logger:      logger.With("component", "rest"),
		sessions:    sessions,
		defaultMode: defaultMode,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", ping)
	r.Post("/sessions", h.createSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.getSession)
		r.Delete("/", h.deleteSession)
		r.Post("/moves", h.playMove)
		r.Put("/mode", h.changeMode)
		r.Post("/next", h.nextRound)
	})

	return r
}

func (that *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	// An empty body asks for the default mode.
	var req modeRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			that.writeError(w, r, "createSession", http.StatusBadRequest, err)
			return
		}
	}

	mode := that.defaultMode
	if req.Mode != "" {
		parsed, err := entity.ParseMode(req.Mode)
		if err != nil {
			that.writeFailure(w, r, "createSession", err)
			return
		}

		mode = parsed
	}

	state, err := that.sessions.NewSession(r.Context(), mode)
	if err != nil {
		that.writeFailure(w, r, "createSession", err)
		return
	}

	that.writeSession(w, http.StatusCreated, state, nil)
}

func (that *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeFailure(w, r, "getSession", err)
		return
	}

	that.writeSession(w, http.StatusOK, state, nil)
}

func (that *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeFailure(w, r, "deleteSession", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) playMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, r, "playMove", http.StatusBadRequest, err)
		return
	}

	if req.Cell == nil {
		that.writeError(w, r, "playMove", http.StatusBadRequest, errMissingCell)
		return
	}

	state, result, err := that.sessions.PlayAt(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		that.writeFailure(w, r, "playMove", err)
		return
	}

	that.writeSession(w, http.StatusOK, state, result.Changes)
}

func (that *handlers) changeMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, r, "changeMode", http.StatusBadRequest, err)
		return
	}

	mode, err := entity.ParseMode(req.Mode)
	if err != nil {
		that.writeFailure(w, r, "changeMode", err)
		return
	}

	state, err := that.sessions.ChangeMode(r.Context(), chi.URLParam(r, "id"), mode)
	if err != nil {
		that.writeFailure(w, r, "changeMode", err)
		return
	}

	that.writeSession(w, http.StatusOK, state, nil)
}

func (that *handlers) nextRound(w http.ResponseWriter, r *http.Request) {
	state, err := that.sessions.StartNextRound(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeFailure(w, r, "nextRound", err)
		return
	}

	that.writeSession(w, http.StatusOK, state, nil)
}

func (that *handlers) writeSession(w http.ResponseWriter, status int, state *entity.SessionState, changes []entity.Move) {
	writeJSON(w, status, sessionResponse{
		Session:    state,
		Status:     game.StatusText(state),
		Scoreboard: game.ScoreboardText(state.Score),
		Changes:    changes,
	})
}

func (that *handlers) writeFailure(w http.ResponseWriter, r *http.Request, method string, err error) {
	that.writeError(w, r, method, statusFor(err), err)
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, method string, status int, err error) {
	log := that.logger.With("method", method, "request_id", middleware.GetReqID(r.Context()))

	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: http.StatusText(status)})

		return
	}

	log.Debug("request rejected", "status", status, "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

var errMissingCell = errors.New("cell is required")

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrIllegalStateTransition):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrUnknownMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
