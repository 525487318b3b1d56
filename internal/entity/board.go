package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const BoardSize = 9

// Board holds the 9 cells of a 3x3 grid in row-major order.
type Board [BoardSize]Mark

func (that Board) Get(index int) (Mark, error) {
	if !validIndex(index) {
		return EmptyCell, fmt.Errorf("%w: %d", apperror.ErrCellOutOfRange, index)
	}

	return that[index], nil
}

// Set places mark on an empty cell. It never overwrites a played cell.
func (that *Board) Set(index int, mark Mark) error {
	if !mark.IsPlayer() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if !validIndex(index) {
		return fmt.Errorf("%w: %d", apperror.ErrCellOutOfRange, index)
	}

	if that[index] != EmptyCell {
		return fmt.Errorf("%w: %d", apperror.ErrCellOccupied, index)
	}

	that[index] = mark

	return nil
}

// Try places mark at index, runs fn and clears the cell again on every exit path of fn.
func (that *Board) Try(index int, mark Mark, fn func()) error {
	if err := that.Set(index, mark); err != nil {
		return err
	}
	defer func() { that[index] = EmptyCell }()

	fn()

	return nil
}

// ForEachMove places mark on each empty cell in ascending order, calls fn and clears the cell again
// before moving on, also when fn panics. Returning false from fn stops the walk.
// mark must be a player mark.
func (that *Board) ForEachMove(mark Mark, fn func(index int) bool) {
	if !mark.IsPlayer() {
		panic(fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark))
	}

	for _, index := range that.EmptyIndices() {
		if !that.tryEmpty(index, mark, fn) {
			return
		}
	}
}

func (that *Board) tryEmpty(index int, mark Mark, fn func(index int) bool) bool {
	that[index] = mark
	defer func() { that[index] = EmptyCell }()

	return fn(index)
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// EmptyIndices returns the free cells in ascending order.
func (that Board) EmptyIndices() []int {
	indices := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			indices = append(indices, i)
		}
	}

	return indices
}

func (that Board) Count(mark Mark) int {
	var count int
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}

	return count
}

func validIndex(index int) bool {
	return index >= 0 && index < BoardSize
}
