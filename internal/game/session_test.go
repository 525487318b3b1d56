package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	x = entity.MarkX
	o = entity.MarkO
	e = entity.EmptyCell
)

var errNoIdea = errors.New("no idea")

type mockStrategy struct {
	mock.Mock
}

func (that *mockStrategy) ChooseMove(board entity.Board) (int, error) {
	args := that.Called(board)
	return args.Int(0), args.Error(1)
}

func (that *mockStrategy) Name() string {
	return "mock"
}

func newTestSession(t *testing.T, mode entity.Mode) *Session {
	t.Helper()

	session, err := NewSession(mode, WithRand(rand.New(rand.NewSource(1))), WithID("test"))
	require.NoError(t, err)

	return session
}

func playAll(t *testing.T, session *Session, cells ...int) *TurnResult {
	t.Helper()

	var result *TurnResult
	for _, cell := range cells {
		var err error
		result, err = session.PlayAt(cell)
		require.NoError(t, err, "cell %d", cell)
	}

	return result
}

func TestNewSession(t *testing.T) {
	t.Run("Starts with X to move on an empty board", func(t *testing.T) {
		// When: creating a session
		session := newTestSession(t, entity.ModeHard)

		// Then: the session is ready for X
		assert.Equal(t, entity.Board{}, session.Board())
		assert.Equal(t, x, session.CurrentMover())
		assert.True(t, session.IsActive())
		assert.Equal(t, entity.InProgress(), session.Verdict())
		assert.Equal(t, entity.ModeHard, session.Mode())
		assert.Equal(t, "test", session.ID())

		scoreX, scoreO := session.Scores()
		assert.Zero(t, scoreX)
		assert.Zero(t, scoreO)
	})

	t.Run("Rejects unknown modes", func(t *testing.T) {
		_, err := NewSession("expert")

		require.ErrorIs(t, err, apperror.ErrUnknownMode)
	})
}

func TestSession_PlayAt(t *testing.T) {
	t.Run("Occupied cell is rejected and nothing changes", func(t *testing.T) {
		// Given: a two-player session where X took the center
		session := newTestSession(t, entity.ModeVersus)
		playAll(t, session, 4)
		before := session.State()

		// When: O tries the same cell
		result, err := session.PlayAt(4)

		// Then: the move is invalid and the session is untouched
		require.ErrorIs(t, err, apperror.ErrInvalidMove)
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Nil(t, result)
		assert.Equal(t, before, session.State())
		assert.Equal(t, o, session.CurrentMover())
	})

	t.Run("Out of range cells are rejected", func(t *testing.T) {
		session := newTestSession(t, entity.ModeHard)

		for _, cell := range []int{-1, 9, 20} {
			_, err := session.PlayAt(cell)

			require.ErrorIs(t, err, apperror.ErrInvalidMove)
			require.ErrorIs(t, err, apperror.ErrCellOutOfRange)
		}

		assert.Equal(t, entity.Board{}, session.Board())
		assert.Equal(t, x, session.CurrentMover())
	})

	t.Run("Computer replies in the same call", func(t *testing.T) {
		// Given: a hard session
		session := newTestSession(t, entity.ModeHard)

		// When: X opens in the corner
		result, err := session.PlayAt(0)

		// Then: both moves are reported in play order and X is to move again
		require.NoError(t, err)
		assert.Equal(t, []entity.Move{{Index: 0, Mark: x}, {Index: 4, Mark: o}}, result.Changes)
		assert.Equal(t, entity.InProgress(), result.Verdict)
		assert.Equal(t, x, result.Mover)
		assert.Equal(t, entity.PhaseAwaitingMove, result.Phase)
		assert.Equal(t, entity.Board{x, e, e, e, o, e, e, e, e}, session.Board())
	})

	t.Run("Move after the round is over is an illegal transition", func(t *testing.T) {
		// Given: a finished two-player round
		session := newTestSession(t, entity.ModeVersus)
		playAll(t, session, 0, 3, 1, 4, 2)
		before := session.State()

		// When: someone plays on
		_, err := session.PlayAt(5)

		// Then: the call is rejected
		require.ErrorIs(t, err, apperror.ErrIllegalStateTransition)
		require.ErrorIs(t, err, apperror.ErrRoundOver)
		assert.False(t, session.IsActive())
		assert.Equal(t, before, session.State())
	})

	t.Run("Opponent failure rolls back the human move", func(t *testing.T) {
		// Given: a session whose opponent cannot decide
		session := newTestSession(t, entity.ModeHard)
		strategy := &mockStrategy{}
		strategy.On("ChooseMove", entity.Board{x, e, e, e, e, e, e, e, e}).Return(-1, errNoIdea).Once()
		session.opponent = strategy

		// When: X plays
		_, err := session.PlayAt(0)

		// Then: the error surfaces and the board is as before
		require.ErrorIs(t, err, errNoIdea)
		assert.Equal(t, entity.Board{}, session.Board())
		assert.Equal(t, x, session.CurrentMover())
		strategy.AssertExpectations(t)
	})

	t.Run("Opponent picking an occupied cell rolls back", func(t *testing.T) {
		session := newTestSession(t, entity.ModeHard)
		strategy := &mockStrategy{}
		strategy.On("ChooseMove", mock.Anything).Return(0, nil).Once()
		session.opponent = strategy

		_, err := session.PlayAt(0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, entity.Board{}, session.Board())
		assert.Equal(t, x, session.CurrentMover())
	})
}

func TestSession_HardOpponentForcesDraw(t *testing.T) {
	// Given: a hard session and a human who wants 0, 4 and 8, otherwise plays the best move for X
	session := newTestSession(t, entity.ModeHard)
	preferred := []int{0, 4, 8}
	moves := 0

	for session.IsActive() {
		board := session.Board()

		cell := -1
		for len(preferred) > 0 && cell < 0 {
			if board[preferred[0]] == e {
				cell = preferred[0]
			}
			preferred = preferred[1:]
		}

		if cell < 0 {
			var err error
			cell, err = tictactoe.BestMove(board, x)
			require.NoError(t, err)
		}

		// When: the human plays and the computer answers
		result, err := session.PlayAt(cell)
		require.NoError(t, err)
		moves += len(result.Changes)

		require.NotEqual(t, entity.Win(x), result.Verdict)
	}

	// Then: the round ends in a draw within nine moves
	assert.Equal(t, entity.Draw(), session.Verdict())
	assert.LessOrEqual(t, moves, 9)

	scoreX, scoreO := session.Scores()
	assert.Zero(t, scoreX)
	assert.Zero(t, scoreO)
}

func TestSession_LastCellWinsTheLeftColumn(t *testing.T) {
	for _, mode := range []entity.Mode{entity.ModeVersus, entity.ModeHard} {
		t.Run(string(mode), func(t *testing.T) {
			// Given: a session restored on X,O,X / X,O,O / _,_,X with X to move
			session, err := Restore(&entity.SessionState{
				ID:      "restored",
				Mode:    mode,
				Board:   entity.Board{x, o, x, x, o, o, e, e, x},
				Mover:   x,
				Phase:   entity.PhaseAwaitingMove,
				Verdict: entity.InProgress(),
				Round:   1,
			}, WithRand(rand.New(rand.NewSource(1))))
			require.NoError(t, err)

			// When: X plays 6
			result, err := session.PlayAt(6)

			// Then: X wins via 0, 3, 6 and nobody moves afterwards
			require.NoError(t, err)
			assert.Equal(t, entity.Win(x), result.Verdict)
			assert.Equal(t, entity.PhaseRoundOver, result.Phase)
			assert.Equal(t, []entity.Move{{Index: 6, Mark: x}}, result.Changes)

			scoreX, scoreO := session.Scores()
			assert.Equal(t, 1, scoreX)
			assert.Zero(t, scoreO)
		})
	}
}

func TestSession_VersusModeNeverAsksTheOpponent(t *testing.T) {
	// Given: a medium session switched to two-player mode
	session := newTestSession(t, entity.ModeMedium)
	require.NoError(t, session.ChangeMode(entity.ModeVersus))
	require.Nil(t, session.opponent)

	// When: five alternating moves complete the top row for X
	var result *TurnResult
	for _, cell := range []int{0, 3, 1, 4, 2} {
		var err error
		result, err = session.PlayAt(cell)
		require.NoError(t, err)

		// Then: every call changed a single cell
		require.Len(t, result.Changes, 1)
	}

	assert.Equal(t, entity.Win(x), result.Verdict)
	assert.Equal(t, entity.PhaseRoundOver, result.Phase)
	assert.False(t, session.IsActive())
}

func TestSession_Score(t *testing.T) {
	t.Run("Win counts once and draw never", func(t *testing.T) {
		// Given: a two-player session
		session := newTestSession(t, entity.ModeVersus)

		// When: X wins the first round
		playAll(t, session, 0, 3, 1, 4, 2)
		require.NoError(t, session.StartNextRound())

		// And: O wins the second round
		playAll(t, session, 0, 3, 1, 4, 8, 5)
		require.NoError(t, session.StartNextRound())

		// And: the third round is drawn
		result := playAll(t, session, 0, 1, 2, 4, 3, 5, 7, 6, 8)
		require.Equal(t, entity.Draw(), result.Verdict)

		// Then: each side has exactly one win
		scoreX, scoreO := session.Scores()
		assert.Equal(t, 1, scoreX)
		assert.Equal(t, 1, scoreO)
	})

	t.Run("Next round keeps the score and resets the board", func(t *testing.T) {
		session := newTestSession(t, entity.ModeVersus)
		playAll(t, session, 0, 3, 1, 4, 2)

		require.NoError(t, session.StartNextRound())

		assert.Equal(t, entity.Board{}, session.Board())
		assert.Equal(t, x, session.CurrentMover())
		assert.True(t, session.IsActive())
		assert.Equal(t, 2, session.State().Round)

		scoreX, _ := session.Scores()
		assert.Equal(t, 1, scoreX)
	})

	t.Run("Changing mode resets both counters", func(t *testing.T) {
		// Given: a session with a win for X
		session := newTestSession(t, entity.ModeVersus)
		playAll(t, session, 0, 3, 1, 4, 2)

		// When: changing the difficulty
		require.NoError(t, session.ChangeMode(entity.ModeEasy))

		// Then: the score and the board start over
		scoreX, scoreO := session.Scores()
		assert.Zero(t, scoreX)
		assert.Zero(t, scoreO)
		assert.Equal(t, entity.Board{}, session.Board())
		assert.True(t, session.IsActive())
		assert.Equal(t, entity.ModeEasy, session.Mode())
	})

	t.Run("Unknown mode leaves the session as it was", func(t *testing.T) {
		session := newTestSession(t, entity.ModeVersus)
		playAll(t, session, 0, 3, 1, 4, 2)
		before := session.State()

		err := session.ChangeMode("nightmare")

		require.ErrorIs(t, err, apperror.ErrUnknownMode)
		assert.Equal(t, before, session.State())
	})
}

func TestSession_StartNextRound(t *testing.T) {
	// Given: a round in progress
	session := newTestSession(t, entity.ModeHard)
	playAll(t, session, 0)
	before := session.State()

	// When: starting the next round early
	err := session.StartNextRound()

	// Then: it is an illegal transition
	require.ErrorIs(t, err, apperror.ErrIllegalStateTransition)
	require.ErrorIs(t, err, apperror.ErrRoundInProgress)
	assert.Equal(t, before, session.State())
}

func TestSession_SeededMediumIsReproducible(t *testing.T) {
	// Given: two medium sessions with the same seed
	first, err := NewSession(entity.ModeMedium, WithRand(rand.New(rand.NewSource(99))))
	require.NoError(t, err)
	second, err := NewSession(entity.ModeMedium, WithRand(rand.New(rand.NewSource(99))))
	require.NoError(t, err)

	// When: the human plays the lowest free cell in both
	for first.IsActive() {
		cell := first.Board().EmptyIndices()[0]

		a, err := first.PlayAt(cell)
		require.NoError(t, err)
		b, err := second.PlayAt(cell)
		require.NoError(t, err)

		// Then: the computer answers identically
		require.Equal(t, a, b)
	}
}

func TestRestore(t *testing.T) {
	valid := func() *entity.SessionState {
		return &entity.SessionState{
			ID:      "abc",
			Mode:    entity.ModeVersus,
			Board:   entity.Board{x, o, e, e, e, e, e, e, e},
			Mover:   x,
			Phase:   entity.PhaseAwaitingMove,
			Verdict: entity.InProgress(),
			Score:   entity.Score{X: 2, O: 1},
			Round:   4,
		}
	}

	t.Run("Round trips through State", func(t *testing.T) {
		state := valid()

		session, err := Restore(state)
		require.NoError(t, err)

		assert.Equal(t, state, session.State())
	})

	corrupt := map[string]func(state *entity.SessionState){
		"unknown mode":          func(state *entity.SessionState) { state.Mode = "chess" },
		"empty mover":           func(state *entity.SessionState) { state.Mover = e },
		"foreign mark":          func(state *entity.SessionState) { state.Board[8] = "Z" },
		"negative score":        func(state *entity.SessionState) { state.Score.O = -1 },
		"stale verdict":         func(state *entity.SessionState) { state.Verdict = entity.Draw() },
		"unknown phase":         func(state *entity.SessionState) { state.Phase = "paused" },
		"over without a result": func(state *entity.SessionState) { state.Phase = entity.PhaseRoundOver },

		"both marks complete a line": func(state *entity.SessionState) {
			state.Board = entity.Board{x, x, x, o, o, o, e, e, e}
			state.Phase = entity.PhaseRoundOver
			state.Verdict = entity.Win(x)
		},
		"finished but awaiting": func(state *entity.SessionState) {
			state.Board = entity.Board{x, x, x, o, o, e, e, e, e}
			state.Mover = o
			state.Verdict = entity.Win(x)
		},
	}

	for name, mutate := range corrupt {
		t.Run("Rejects "+name, func(t *testing.T) {
			state := valid()
			mutate(state)

			_, err := Restore(state)

			require.ErrorIs(t, err, apperror.ErrCorruptedSession)
		})
	}

	t.Run("Rejects nil", func(t *testing.T) {
		_, err := Restore(nil)

		require.ErrorIs(t, err, apperror.ErrCorruptedSession)
	})
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Player X's turn", StatusText(&entity.SessionState{Phase: entity.PhaseAwaitingMove, Mover: x}))
	assert.Equal(t, "Player O wins!", StatusText(&entity.SessionState{Phase: entity.PhaseRoundOver, Verdict: entity.Win(o)}))
	assert.Equal(t, "Draw!", StatusText(&entity.SessionState{Phase: entity.PhaseRoundOver, Verdict: entity.Draw()}))
	assert.Equal(t, "X = 3 | O = 1", ScoreboardText(entity.Score{X: 3, O: 1}))
}
