package tictactoe

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	scoreWin  = 1
	scoreLoss = -1
	scoreDraw = 0
)

// BestMove runs an exhaustive minimax search and returns the cell mark should play.
// mark is the maximizing side at every ply. Equally scored moves resolve to the lowest index.
func BestMove(board entity.Board, mark entity.Mark) (int, error) {
	if !mark.IsPlayer() {
		return -1, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if board.IsFull() {
		return -1, apperror.ErrNoAvailableMoves
	}

	bestIndex, bestScore := -1, math.MinInt
	board.ForEachMove(mark, func(index int) bool {
		if score := minimax(&board, mark, false); score > bestScore {
			bestIndex, bestScore = index, score
		}

		return true
	})

	return bestIndex, nil
}

func minimax(board *entity.Board, maximizer entity.Mark, maximizing bool) int {
	if verdict := Evaluate(*board); verdict.IsTerminal() {
		return terminalScore(verdict, maximizer)
	}

	mover, best, better := maximizer.Opponent(), math.MaxInt, func(a, b int) bool { return a < b }
	if maximizing {
		mover, best, better = maximizer, math.MinInt, func(a, b int) bool { return a > b }
	}

	board.ForEachMove(mover, func(int) bool {
		if score := minimax(board, maximizer, !maximizing); better(score, best) {
			best = score
		}

		return true
	})

	return best
}

func terminalScore(verdict entity.Verdict, maximizer entity.Mark) int {
	switch {
	case verdict.Outcome == entity.OutcomeDraw:
		return scoreDraw
	case verdict.Winner == maximizer:
		return scoreWin
	default:
		return scoreLoss
	}
}
