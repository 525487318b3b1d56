package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMove            = errors.New("invalid move")
	ErrIllegalStateTransition = errors.New("illegal state transition")

	ErrCellOccupied     = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrCellOutOfRange   = fmt.Errorf("%w: cell index out of range", ErrInvalidMove)
	ErrInvalidMark      = fmt.Errorf("%w: unknown mark", ErrInvalidMove)
	ErrNoAvailableMoves = errors.New("no available moves")

	ErrRoundOver       = fmt.Errorf("%w: round is over", ErrIllegalStateTransition)
	ErrRoundInProgress = fmt.Errorf("%w: round is still in progress", ErrIllegalStateTransition)
	ErrStaleRound      = fmt.Errorf("%w: round was already replaced", ErrIllegalStateTransition)

	ErrUnknownMode      = errors.New("unknown opponent mode")
	ErrSessionNotFound  = errors.New("session not found")
	ErrCorruptedSession = errors.New("corrupted session state")
)
