package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/casaval/posio/internal/channel"
	"github.com/casaval/posio/internal/config"
	"github.com/casaval/posio/internal/database"
	"github.com/casaval/posio/internal/migrations"
	"github.com/casaval/posio/internal/score"
	"github.com/casaval/posio/internal/session"
	"github.com/casaval/posio/internal/turn"
	"github.com/casaval/posio/internal/ui"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// One scanner over stdin, shared by the name prompt and the click
	// reader, so nothing buffered between the two is lost.
	input := bufio.NewScanner(stdin)

	// --- Local settings ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	store := session.NewSQLiteStore(db)
	playerName, err := store.PlayerName(ctx)
	switch {
	case errors.Is(err, session.ErrNotFound):
		playerName, err = session.PromptName(ctx, input, stdout)
		if err != nil {
			return fmt.Errorf("obtaining player name: %w", err)
		}
		if err := store.SavePlayerName(ctx, playerName); err != nil {
			return fmt.Errorf("saving player name: %w", err)
		}
	case err != nil:
		return fmt.Errorf("loading player name: %w", err)
	}

	// --- Transport ---
	ch, err := channel.Dial(ctx, cfg.ServerURL+"?game="+cfg.GameID, logger)
	if err != nil {
		return fmt.Errorf("connecting to server: %w", err)
	}
	defer ch.Close()
	logger.Info("connected", "url", cfg.ServerURL)

	// --- Views and core ---
	console := ui.NewConsole(logger, stdout)
	animator := score.New(console.SetScore)
	defer animator.Stop()

	machine := turn.NewMachine(cfg.GameID, cfg.MaxResponseTime, turn.Deps{
		Logger:    logger,
		Surface:   console,
		Countdown: console,
		Status:    console,
		Animator:  animator,
		Emit: func(event string, payload any) error {
			return ch.Emit(ctx, event, payload)
		},
	})
	sess := session.New(logger, ch, machine, console, console, cfg.GameID, playerName)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sess.Run(gctx)
	})

	g.Go(func() error {
		return console.ReadInput(gctx, input)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return ch.Close()
	})

	return g.Wait()
}
