package websocket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

var errNoSession = errors.New("no session on this connection, send session:new first")

func (that *Server) handleNewSession(ctx context.Context, conn *connection, req *Request) error {
	mode := that.defaultMode
	if req.Mode != "" {
		parsed, err := entity.ParseMode(req.Mode)
		if err != nil {
			return that.reject(conn, actionNew, err)
		}

		mode = parsed
	}

	state, err := that.sessions.NewSession(ctx, mode)
	if err != nil {
		return that.reject(conn, actionNew, err)
	}

	conn.bind(state.ID)

	return that.sendState(conn, actionNew, state, nil)
}

func (that *Server) handleResume(ctx context.Context, conn *connection, req *Request) error {
	state, err := that.sessions.GetSession(ctx, req.SessionID)
	if err != nil {
		return that.reject(conn, actionResume, err)
	}

	conn.bind(state.ID)

	if state.IsRoundOver() {
		that.scheduleNextRound(ctx, conn, state.ID, state.Round)
	}

	return that.sendState(conn, actionResume, state, nil)
}

func (that *Server) handlePlay(ctx context.Context, conn *connection, req *Request) error {
	id := conn.session()
	if id == "" {
		return that.reject(conn, actionPlay, errNoSession)
	}

	if req.Cell == nil {
		return that.reject(conn, actionPlay, fmt.Errorf("%w: cell is required", apperror.ErrInvalidMove))
	}

	state, result, err := that.sessions.PlayAt(ctx, id, *req.Cell)
	if err != nil {
		return that.reject(conn, actionPlay, err)
	}

	if err = that.sendState(conn, actionPlay, state, result); err != nil {
		return err
	}

	if state.IsRoundOver() {
		that.scheduleNextRound(ctx, conn, id, state.Round)
	}

	return nil
}

func (that *Server) handleMode(ctx context.Context, conn *connection, req *Request) error {
	id := conn.session()
	if id == "" {
		return that.reject(conn, actionMode, errNoSession)
	}

	mode, err := entity.ParseMode(req.Mode)
	if err != nil {
		return that.reject(conn, actionMode, err)
	}

	state, err := that.sessions.ChangeMode(ctx, id, mode)
	if err != nil {
		return that.reject(conn, actionMode, err)
	}

	return that.sendState(conn, actionMode, state, nil)
}

func (that *Server) handleNext(ctx context.Context, conn *connection, _ *Request) error {
	id := conn.session()
	if id == "" {
		return that.reject(conn, actionNext, errNoSession)
	}

	state, err := that.sessions.StartNextRound(ctx, id)
	if err != nil {
		return that.reject(conn, actionNext, err)
	}

	return that.sendState(conn, actionNext, state, nil)
}

// scheduleNextRound ends the finished round after the configured delay.
// It does nothing once the session has moved past round.
func (that *Server) scheduleNextRound(ctx context.Context, conn *connection, id string, round int) {
	log := that.logger.With("method", "scheduleNextRound", "session_id", id, "round", round)

	go func() {
		timer := time.NewTimer(that.roundDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if conn.session() != id {
			return
		}

		state, err := that.sessions.StartNextRoundAfter(ctx, id, round)
		if errors.Is(err, apperror.ErrIllegalStateTransition) {
			log.Debug("round already restarted", "error", err)
			return
		}

		if err != nil {
			log.Error("failed to start next round", "error", err)
			return
		}

		if err = that.sendState(conn, actionNext, state, nil); err != nil {
			log.Error("failed to send next round", "error", err)
		}
	}()
}

func (that *Server) sendState(conn *connection, action string, state *entity.SessionState, result *game.TurnResult) error {
	resp := Response{
		Action:     action,
		Session:    state,
		Status:     game.StatusText(state),
		Scoreboard: game.ScoreboardText(state.Score),
	}

	if result != nil {
		resp.Changes = result.Changes
	}

	if err := conn.send(resp); err != nil {
		return fmt.Errorf("failed to send %s response: %w", action, err)
	}

	return nil
}

// reject reports a failed action to the client. Only failures to write are returned.
func (that *Server) reject(conn *connection, action string, reason error) error {
	that.logger.Debug("action rejected", "action", action, "error", reason)

	if err := conn.send(Response{Action: action, Error: reason.Error()}); err != nil {
		return fmt.Errorf("failed to send %s error: %w", action, err)
	}

	return nil
}
