package game

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/opponent"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// TurnResult describes what a PlayAt call changed.
type TurnResult struct {
	Verdict entity.Verdict `json:"verdict"`
	Changes []entity.Move  `json:"changes"`
	Mover   entity.Mark    `json:"mover"`
	Phase   entity.Phase   `json:"phase"`
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(that *Session) {
		that.logger = logger
	}
}

// WithRand fixes the random source of the easy and medium opponents.
func WithRand(rng *rand.Rand) Option {
	return func(that *Session) {
		that.rng = rng
	}
}

func WithID(id string) Option {
	return func(that *Session) {
		that.id = id
	}
}

// Session owns one board and plays rounds on it. It is not safe for concurrent use.
type Session struct {
	id     string
	logger *slog.Logger
	rng    *rand.Rand

	mode     entity.Mode
	opponent opponent.Strategy

	board   entity.Board
	mover   entity.Mark
	phase   entity.Phase
	verdict entity.Verdict
	score   entity.Score
	round   int
}

func NewSession(mode entity.Mode, opts ...Option) (*Session, error) {
	session := newSession(opts)

	if err := session.setMode(mode); err != nil {
		return nil, err
	}

	session.newRound()

	return session, nil
}

// Restore rebuilds a session from a snapshot produced by State.
func Restore(state *entity.SessionState, opts ...Option) (*Session, error) {
	if err := validateState(state); err != nil {
		return nil, err
	}

	session := newSession(append([]Option{WithID(state.ID)}, opts...))

	if err := session.setMode(state.Mode); err != nil {
		return nil, err
	}

	session.board = state.Board
	session.mover = state.Mover
	session.phase = state.Phase
	session.verdict = state.Verdict
	session.score = state.Score
	session.round = state.Round

	return session, nil
}

func newSession(opts []Option) *Session {
	session := &Session{}
	for _, opt := range opts {
		opt(session)
	}

	if session.logger == nil {
		session.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if session.rng == nil {
		session.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game randomness
	}

	session.logger = session.logger.With("component", "session", "session_id", session.id)

	return session
}

// PlayAt places the current mover's mark and, against the computer, applies its reply.
// A rejected call leaves the session unchanged.
func (that *Session) PlayAt(index int) (*TurnResult, error) {
	if that.phase != entity.PhaseAwaitingMove {
		return nil, fmt.Errorf("failed to play at %d: %w", index, apperror.ErrRoundOver)
	}

	result := &TurnResult{}
	if err := that.apply(index, result); err != nil {
		return nil, fmt.Errorf("failed to play at %d: %w", index, err)
	}

	if that.computerToMove() {
		board, mover := that.board, that.mover

		if err := that.reply(result); err != nil {
			that.board, that.mover = board, mover
			return nil, err
		}
	}

	result.Verdict = that.verdict
	result.Mover = that.mover
	result.Phase = that.phase

	return result, nil
}

func (that *Session) reply(result *TurnResult) error {
	index, err := that.opponent.ChooseMove(that.board)
	if err != nil {
		return fmt.Errorf("opponent failed to choose a move: %w", err)
	}

	that.logger.Debug("opponent moved", "strategy", that.opponent.Name(), "cell", index)

	if err = that.apply(index, result); err != nil {
		return fmt.Errorf("opponent chose an illegal move: %w", err)
	}

	return nil
}

func (that *Session) apply(index int, result *TurnResult) error {
	if err := that.board.Set(index, that.mover); err != nil {
		return err //nolint: wrapcheck // wrapped by the caller
	}

	result.Changes = append(result.Changes, entity.Move{Index: index, Mark: that.mover})

	if verdict := tictactoe.Evaluate(that.board); verdict.IsTerminal() {
		that.finishRound(verdict)
		return nil
	}

	that.mover = that.mover.Opponent()

	return nil
}

func (that *Session) finishRound(verdict entity.Verdict) {
	that.verdict = verdict
	that.phase = entity.PhaseRoundOver

	switch verdict.Winner {
	case entity.MarkX:
		that.score.X++
	case entity.MarkO:
		that.score.O++
	}

	that.logger.Info("round finished",
		"round", that.round, "mode", that.mode, "verdict", verdict.String(),
		"score_x", that.score.X, "score_o", that.score.O)
}

func (that *Session) computerToMove() bool {
	return that.phase == entity.PhaseAwaitingMove &&
		that.opponent != nil &&
		that.mover == entity.ComputerMark
}

// ChangeMode switches the opponent, clears the score and starts a new round.
func (that *Session) ChangeMode(mode entity.Mode) error {
	if err := that.setMode(mode); err != nil {
		return err
	}

	that.score = entity.Score{}
	that.newRound()

	that.logger.Info("mode changed", "mode", mode)

	return nil
}

// StartNextRound clears the board after a finished round. The score is kept.
func (that *Session) StartNextRound() error {
	if that.phase != entity.PhaseRoundOver {
		return fmt.Errorf("failed to start next round: %w", apperror.ErrRoundInProgress)
	}

	that.newRound()

	return nil
}

func (that *Session) setMode(mode entity.Mode) error {
	strategy, err := opponent.ForMode(mode, entity.ComputerMark, that.rng)
	if err != nil {
		return fmt.Errorf("failed to set mode: %w", err)
	}

	that.mode = mode
	that.opponent = strategy

	return nil
}

func (that *Session) newRound() {
	that.board = entity.Board{}
	that.mover = entity.HumanMark
	that.phase = entity.PhaseAwaitingMove
	that.verdict = entity.InProgress()
	that.round++
}

// Scores returns the rounds won by X and by O.
func (that *Session) Scores() (int, int) {
	return that.score.X, that.score.O
}

// Round is the 1-based number of the current round.
func (that *Session) Round() int {
	return that.round
}

func (that *Session) CurrentMover() entity.Mark {
	return that.mover
}

// IsActive reports whether the session accepts moves.
func (that *Session) IsActive() bool {
	return that.phase == entity.PhaseAwaitingMove
}

func (that *Session) Verdict() entity.Verdict {
	return that.verdict
}

func (that *Session) Board() entity.Board {
	return that.board
}

func (that *Session) Mode() entity.Mode {
	return that.mode
}

func (that *Session) ID() string {
	return that.id
}

func (that *Session) State() *entity.SessionState {
	return &entity.SessionState{
		ID:      that.id,
		Mode:    that.mode,
		Board:   that.board,
		Mover:   that.mover,
		Phase:   that.phase,
		Verdict: that.verdict,
		Score:   that.score,
		Round:   that.round,
	}
}
