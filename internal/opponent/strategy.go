package opponent

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// Strategy picks the next cell for the computer. Callers must not pass a finished board.
type Strategy interface {
	ChooseMove(board entity.Board) (int, error)
	Name() string
}

// Random picks uniformly among the empty cells.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (that *Random) ChooseMove(board entity.Board) (int, error) {
	available := board.EmptyIndices()
	if len(available) == 0 {
		return -1, apperror.ErrNoAvailableMoves
	}

	return available[that.rng.Intn(len(available))], nil
}

func (that *Random) Name() string {
	return "random"
}

// Search always plays the minimax move for its mark.
type Search struct {
	mark entity.Mark
}

func NewSearch(mark entity.Mark) *Search {
	return &Search{mark: mark}
}

func (that *Search) ChooseMove(board entity.Board) (int, error) {
	index, err := tictactoe.BestMove(board, that.mark)
	if err != nil {
		return -1, fmt.Errorf("search failed: %w", err)
	}

	return index, nil
}

func (that *Search) Name() string {
	return "search"
}

// CoinFlip delegates each call to heads or tails with equal probability.
type CoinFlip struct {
	rng   *rand.Rand
	heads Strategy
	tails Strategy
}

func NewCoinFlip(rng *rand.Rand, heads, tails Strategy) *CoinFlip {
	return &CoinFlip{rng: rng, heads: heads, tails: tails}
}

func (that *CoinFlip) ChooseMove(board entity.Board) (int, error) {
	if that.rng.Intn(2) == 0 {
		return that.heads.ChooseMove(board)
	}

	return that.tails.ChooseMove(board)
}

func (that *CoinFlip) Name() string {
	return "coin-flip(" + that.heads.Name() + "," + that.tails.Name() + ")"
}

// ForMode builds the strategy behind a difficulty. ModeVersus has no computer and yields nil.
func ForMode(mode entity.Mode, mark entity.Mark, rng *rand.Rand) (Strategy, error) {
	switch mode {
	case entity.ModeEasy:
		return NewRandom(rng), nil
	case entity.ModeMedium:
		return NewCoinFlip(rng, NewSearch(mark), NewRandom(rng)), nil
	case entity.ModeHard:
		return NewSearch(mark), nil
	case entity.ModeVersus:
		return nil, nil //nolint: nilnil // two humans, no strategy
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownMode, mode)
	}
}
