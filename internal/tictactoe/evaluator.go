package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

var winLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// WinLines returns a copy of the 8 index triples that win the game.
func WinLines() [8][3]int {
	return winLines
}

// Evaluate reports the first completed line it finds, then a draw on a full board.
func Evaluate(board entity.Board) entity.Verdict {
	for _, line := range winLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return entity.Win(a)
		}
	}

	if board.IsFull() {
		return entity.Draw()
	}

	return entity.InProgress()
}
