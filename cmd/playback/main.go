package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/casaval/posio/internal/config"
	"github.com/casaval/posio/internal/playback"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.LoadPlayback()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	broker := playback.NewBroker(logger)
	game := playback.NewGame(logger, "default", cfg.TurnDuration, broker)
	srv := playback.New(cfg.HTTPAddr, logger, game, broker)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := game.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		logger.Info("starting practice server", "addr", cfg.HTTPAddr, "turn_duration", cfg.TurnDuration)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down practice server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
