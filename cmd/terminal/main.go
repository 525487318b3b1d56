// Command terminal plays a local game against the computer or a second player at the same keyboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
	"github.com/rocketscienceinc/tictactoe-engine/internal/terminal"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the config file")
	modeName := flag.String("mode", "", "easy, medium, hard or vs (default from config)")
	flag.Parse()

	if err := run(*configPath, *modeName); err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, modeName string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	conf, err := config.Load(configPath)
	if err != nil {
		return err //nolint: wrapcheck // already describes the failure
	}

	if modeName == "" {
		modeName = conf.DefaultMode
	}

	mode, err := entity.ParseMode(modeName)
	if err != nil {
		return fmt.Errorf("invalid mode: %w", err)
	}

	// Logs go to stderr so they do not mix with the board.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(conf.LogLevel)}))

	seed := conf.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	session, err := game.NewSession(mode,
		game.WithID("local"),
		game.WithLogger(logger),
		game.WithRand(rand.New(rand.NewSource(seed))), //nolint: gosec // game randomness
	)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := terminal.NewClient(logger, session, terminal.NewRenderer(os.Stdout), os.Stdin, os.Stdout, conf.RoundDelay)

	return client.Run(ctx) //nolint: wrapcheck // terminal errors are already wrapped
}
