package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

const rowSeparator = "---+---+---"

// Renderer draws session snapshots. Colours follow the detected terminal profile.
type Renderer struct {
	out *termenv.Output
}

func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, opts...)}
}

func (that *Renderer) Board(board entity.Board) string {
	rows := make([]string, 0, 5)

	for row := 0; row < 3; row++ {
		cells := make([]string, 0, 3)
		for col := 0; col < 3; col++ {
			index := row*3 + col
			cells = append(cells, " "+that.cell(index, board[index])+" ")
		}

		if row > 0 {
			rows = append(rows, rowSeparator)
		}

		rows = append(rows, strings.Join(cells, "|"))
	}

	return strings.Join(rows, "\n")
}

func (that *Renderer) cell(index int, mark entity.Mark) string {
	switch mark {
	case entity.MarkX:
		return that.out.String(string(mark)).Foreground(that.out.Color("#E06C75")).Bold().String()
	case entity.MarkO:
		return that.out.String(string(mark)).Foreground(that.out.Color("#61AFEF")).Bold().String()
	default:
		return that.out.String(strconv.Itoa(index)).Faint().String()
	}
}

// Screen is the board followed by the mode, status line and scoreboard.
func (that *Renderer) Screen(state *entity.SessionState) string {
	status := that.out.String(game.StatusText(state))
	if state.IsRoundOver() {
		status = status.Bold()
	}

	return fmt.Sprintf("%s\n\nmode: %s  round: %d\n%s\n%s\n",
		that.Board(state.Board), state.Mode, state.Round, status.String(), game.ScoreboardText(state.Score))
}

func (that *Renderer) Error(err error) string {
	return that.out.String("error: " + err.Error()).Foreground(that.out.Color("1")).String()
}
