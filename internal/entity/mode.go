package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	ModeEasy   Mode = "easy"
	ModeMedium Mode = "medium"
	ModeHard   Mode = "hard"
	ModeVersus Mode = "vs"

	DefaultMode = ModeMedium
)

// Mode selects the opponent: a computer difficulty or ModeVersus for two humans.
type Mode string

func ParseMode(raw string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case ModeEasy, ModeMedium, ModeHard, ModeVersus:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownMode, raw)
	}
}

// VersusComputer reports whether ComputerMark is played by the opponent policy.
func (that Mode) VersusComputer() bool {
	return that != ModeVersus
}
