package game

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// validateState rejects snapshots the session could not continue from consistently.
// Turn parity is not checked, so a caller may set up an arbitrary position.
func validateState(state *entity.SessionState) error {
	if state == nil {
		return fmt.Errorf("%w: nil state", apperror.ErrCorruptedSession)
	}

	if _, err := entity.ParseMode(string(state.Mode)); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrCorruptedSession, err)
	}

	if !state.Mover.IsPlayer() {
		return fmt.Errorf("%w: mover %q", apperror.ErrCorruptedSession, state.Mover)
	}

	for i, cell := range state.Board {
		if cell != entity.EmptyCell && !cell.IsPlayer() {
			return fmt.Errorf("%w: cell %d holds %q", apperror.ErrCorruptedSession, i, cell)
		}
	}

	if winners := completedBy(state.Board); len(winners) > 1 {
		return fmt.Errorf("%w: both marks complete a line", apperror.ErrCorruptedSession)
	}

	if state.Score.X < 0 || state.Score.O < 0 {
		return fmt.Errorf("%w: negative score", apperror.ErrCorruptedSession)
	}

	verdict := tictactoe.Evaluate(state.Board)
	if verdict != state.Verdict {
		return fmt.Errorf("%w: stored verdict %s, board says %s", apperror.ErrCorruptedSession, state.Verdict, verdict)
	}

	switch state.Phase {
	case entity.PhaseAwaitingMove:
		if verdict.IsTerminal() {
			return fmt.Errorf("%w: finished board awaiting a move", apperror.ErrCorruptedSession)
		}
	case entity.PhaseRoundOver:
		if !verdict.IsTerminal() {
			return fmt.Errorf("%w: round over on an undecided board", apperror.ErrCorruptedSession)
		}
	default:
		return fmt.Errorf("%w: phase %q", apperror.ErrCorruptedSession, state.Phase)
	}

	return nil
}

func completedBy(board entity.Board) map[entity.Mark]bool {
	winners := make(map[entity.Mark]bool)
	for _, line := range tictactoe.WinLines() {
		a := board[line[0]]
		if a != entity.EmptyCell && a == board[line[1]] && a == board[line[2]] {
			winners[a] = true
		}
	}

	return winners
}
