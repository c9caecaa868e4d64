package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/desertthunder/soundx/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	configPath = "config.toml"
	envPath    = ".env"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load env file", "path", envPath, "error", err)
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "soundx",
		Usage:    "Search, play and organise tracks from the streaming backend",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = app.Run(ctx, os.Args)
	stop()

	if cerr := runner.Close(); cerr != nil {
		logger.Warn("failed to close database", "error", cerr)
	}

	if err != nil {
		if userFacing(err) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// userFacing reports errors that are printed as a single line instead of logged.
func userFacing(err error) bool {
	for _, target := range []error{
		shared.ErrValidation,
		shared.ErrAPIRequest,
		shared.ErrNotAuthenticated,
		shared.ErrNoRecentTrack,
		shared.ErrTrackNotFound,
		shared.ErrMissingArgument,
		shared.ErrInvalidArgument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
