package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

const helpText = `commands:
  0-8          place your mark on a cell
  mode <name>  switch to easy, medium, hard or vs (resets the score)
  next         start the next round
  help         show this help
  quit         leave the game`

var errUnknownCommand = errors.New("unknown command, type help")

// Client plays one local session over a line-based terminal.
type Client struct {
	logger   *slog.Logger
	session  *game.Session
	renderer *Renderer

	in  *bufio.Scanner
	out io.Writer

	roundDelay time.Duration
}

func NewClient(logger *slog.Logger, session *game.Session, renderer *Renderer, in io.Reader, out io.Writer, roundDelay time.Duration) *Client {
	return &Client{
		logger:   logger.With("component", "terminal"),
		session:  session,
		renderer: renderer,

		in:  bufio.NewScanner(in),
		out: out,

		roundDelay: roundDelay,
	}
}

// Run reads commands until quit, end of input or ctx cancellation.
func (that *Client) Run(ctx context.Context) error {
	that.print(that.renderer.Screen(that.session.State()))

	for {
		if err := ctx.Err(); err != nil {
			return nil //nolint: nilerr // cancellation is a normal exit
		}

		that.print("> ")

		if !that.in.Scan() {
			if err := that.in.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			return nil
		}

		quit, err := that.execute(ctx, strings.TrimSpace(that.in.Text()))
		if quit {
			return nil
		}

		if err != nil {
			that.logger.Debug("command rejected", "error", err)
			that.print(that.renderer.Error(err) + "\n")

			continue
		}
	}
}

func (that *Client) execute(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "quit", "exit", "q":
		that.print(game.ScoreboardText(that.session.State().Score) + "\n")
		return true, nil
	case "help", "?":
		that.print(helpText + "\n")
		return false, nil
	case "next":
		if err := that.session.StartNextRound(); err != nil {
			return false, err //nolint: wrapcheck // shown to the player
		}
	case "mode":
		if len(fields) != 2 {
			return false, fmt.Errorf("%w: usage mode <name>", apperror.ErrUnknownMode)
		}

		mode, err := entity.ParseMode(fields[1])
		if err != nil {
			return false, err //nolint: wrapcheck // shown to the player
		}

		if err = that.session.ChangeMode(mode); err != nil {
			return false, err //nolint: wrapcheck // shown to the player
		}
	default:
		cell, err := strconv.Atoi(fields[0])
		if err != nil {
			return false, errUnknownCommand
		}

		if _, err = that.session.PlayAt(cell); err != nil {
			return false, err //nolint: wrapcheck // shown to the player
		}
	}

	that.print(that.renderer.Screen(that.session.State()))

	if !that.session.IsActive() {
		that.autoNextRound(ctx)
	}

	return false, nil
}

func (that *Client) autoNextRound(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(that.roundDelay):
	}

	if err := that.session.StartNextRound(); err != nil {
		that.logger.Error("failed to start next round", "error", err)
		return
	}

	that.print("\n" + that.renderer.Screen(that.session.State()))
}

func (that *Client) print(text string) {
	if _, err := io.WriteString(that.out, text); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
