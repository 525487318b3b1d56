package game

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// StatusText is the one-line status shown under the board.
func StatusText(state *entity.SessionState) string {
	switch {
	case state.Phase == entity.PhaseAwaitingMove:
		return fmt.Sprintf("Player %s's turn", state.Mover)
	case state.Verdict.Outcome == entity.OutcomeWin:
		return fmt.Sprintf("Player %s wins!", state.Verdict.Winner)
	default:
		return "Draw!"
	}
}

func ScoreboardText(score entity.Score) string {
	return fmt.Sprintf("X = %d | O = %d", score.X, score.O)
}
