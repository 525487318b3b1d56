package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

func TestParseMode(t *testing.T) {
	t.Run("Known modes", func(t *testing.T) {
		for raw, expected := range map[string]Mode{
			"easy":   ModeEasy,
			"medium": ModeMedium,
			" Hard ": ModeHard,
			"vs":     ModeVersus,
		} {
			mode, err := ParseMode(raw)

			require.NoError(t, err)
			assert.Equal(t, expected, mode)
		}
	})

	t.Run("Unknown mode", func(t *testing.T) {
		_, err := ParseMode("impossible")

		require.ErrorIs(t, err, apperror.ErrUnknownMode)
	})

	t.Run("Only versus is played by two humans", func(t *testing.T) {
		assert.True(t, ModeEasy.VersusComputer())
		assert.True(t, ModeMedium.VersusComputer())
		assert.True(t, ModeHard.VersusComputer())
		assert.False(t, ModeVersus.VersusComputer())
	})
}

func TestMark_Opponent(t *testing.T) {
	assert.Equal(t, MarkO, MarkX.Opponent())
	assert.Equal(t, MarkX, MarkO.Opponent())
	assert.Equal(t, EmptyCell, EmptyCell.Opponent())
	assert.False(t, EmptyCell.IsPlayer())
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, "win(X)", Win(MarkX).String())
	assert.Equal(t, "draw", Draw().String())
	assert.Equal(t, "in_progress", InProgress().String())
	assert.False(t, InProgress().IsTerminal())
}
