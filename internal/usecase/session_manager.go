package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.SessionState) error
	GetByID(ctx context.Context, id string) (*entity.SessionState, error)
	DeleteByID(ctx context.Context, id string) error
}

type roundPublisher interface {
	PublishRoundFinished(ctx context.Context, event *entity.RoundFinished) error
}

// SessionManager runs game sessions stored by id. Calls on the same id are serialized.
type SessionManager struct {
	logger    *slog.Logger
	repo      sessionRepo
	publisher roundPublisher

	locks *keyedMutex

	seedMu sync.Mutex
	seeds  *rand.Rand
	now    func() time.Time
}

// NewSessionManager - seed 0 draws opponent randomness from the clock.
func NewSessionManager(logger *slog.Logger, repo sessionRepo, publisher roundPublisher, seed int64) *SessionManager {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &SessionManager{
		logger:    logger.With("component", "session_manager"),
		repo:      repo,
		publisher: publisher,

		locks: newKeyedMutex(),
		seeds: rand.New(rand.NewSource(seed)), //nolint: gosec // game randomness
		now:   time.Now,
	}
}

func (that *SessionManager) NewSession(ctx context.Context, mode entity.Mode) (*entity.SessionState, error) {
	session, err := game.NewSession(mode, that.options(uuid.NewString())...)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	state := session.State()
	if err = that.repo.CreateOrUpdate(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("session created", "session_id", state.ID, "mode", mode)

	return state, nil
}

func (that *SessionManager) GetSession(ctx context.Context, id string) (*entity.SessionState, error) {
	state, err := that.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return state, nil
}

// PlayAt applies a human move and the computer reply, if any. Rejected moves are not saved.
func (that *SessionManager) PlayAt(ctx context.Context, id string, cell int) (*entity.SessionState, *game.TurnResult, error) {
	var result *game.TurnResult

	state, err := that.mutate(ctx, id, func(session *game.Session) error {
		var playErr error
		result, playErr = session.PlayAt(cell)

		return playErr //nolint: wrapcheck // wrapped by mutate
	})
	if err != nil {
		return nil, nil, err
	}

	if state.IsRoundOver() {
		that.publishRoundFinished(ctx, state)
	}

	return state, result, nil
}

// ChangeMode switches the opponent, resets the score and starts a new round.
func (that *SessionManager) ChangeMode(ctx context.Context, id string, mode entity.Mode) (*entity.SessionState, error) {
	return that.mutate(ctx, id, func(session *game.Session) error {
		return session.ChangeMode(mode) //nolint: wrapcheck // wrapped by mutate
	})
}

func (that *SessionManager) StartNextRound(ctx context.Context, id string) (*entity.SessionState, error) {
	return that.mutate(ctx, id, func(session *game.Session) error {
		return session.StartNextRound() //nolint: wrapcheck // wrapped by mutate
	})
}

// StartNextRoundAfter starts the next round only while round is the current, finished round.
// Delayed restarts use it so they cannot end a round that began after they were scheduled.
func (that *SessionManager) StartNextRoundAfter(ctx context.Context, id string, round int) (*entity.SessionState, error) {
	return that.mutate(ctx, id, func(session *game.Session) error {
		if session.Round() != round {
			return fmt.Errorf("%w: scheduled after round %d, now at %d", apperror.ErrStaleRound, round, session.Round())
		}

		return session.StartNextRound() //nolint: wrapcheck // wrapped by mutate
	})
}

func (that *SessionManager) DeleteSession(ctx context.Context, id string) error {
	unlock := that.locks.Lock(id)
	defer unlock()

	if err := that.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session deleted", "session_id", id)

	return nil
}

func (that *SessionManager) mutate(ctx context.Context, id string, fn func(session *game.Session) error) (*entity.SessionState, error) {
	unlock := that.locks.Lock(id)
	defer unlock()

	stored, err := that.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session, err := game.Restore(stored, that.options(id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	if err = fn(session); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	state := session.State()
	if err = that.repo.CreateOrUpdate(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return state, nil
}

func (that *SessionManager) options(id string) []game.Option {
	that.seedMu.Lock()
	seed := that.seeds.Int63()
	that.seedMu.Unlock()

	return []game.Option{
		game.WithID(id),
		game.WithLogger(that.logger),
		game.WithRand(rand.New(rand.NewSource(seed))), //nolint: gosec // game randomness
	}
}

func (that *SessionManager) publishRoundFinished(ctx context.Context, state *entity.SessionState) {
	log := that.logger.With("method", "publishRoundFinished", "session_id", state.ID)

	event := &entity.RoundFinished{
		SessionID:  state.ID,
		Mode:       state.Mode,
		Round:      state.Round,
		Verdict:    state.Verdict,
		Moves:      state.Board.Count(entity.MarkX) + state.Board.Count(entity.MarkO),
		Score:      state.Score,
		FinishedAt: that.now().UTC(),
	}

	if err := that.publisher.PublishRoundFinished(ctx, event); err != nil {
		log.Error("failed to publish round result", "error", err)
	}
}
