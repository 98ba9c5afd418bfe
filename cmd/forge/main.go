// Package main provides the entry point for the forge CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mrz1836/forge/internal/cli"
	forgeerrors "github.com/mrz1836/forge/internal/errors"
	"github.com/mrz1836/forge/internal/signal"
	"github.com/mrz1836/forge/internal/tui"
)

// Set via ldflags at build time.
//
//nolint:gochecknoglobals // build metadata
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Provider keys may live in a local .env file; a missing file is fine.
	_ = godotenv.Load()

	h := signal.NewHandler(context.Background(), signal.WithOnInterrupt(func() {
		_, _ = fmt.Fprintln(os.Stderr, "\ninterrupted, stopping role calls")
	}))

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})
	interrupted := h.WasInterrupted()
	h.Stop()

	if interrupted {
		// The interrupt message is already printed; the error is just the canceled context.
		os.Exit(cli.ExitInterrupted)
	}
	if err != nil {
		if !errors.Is(err, forgeerrors.ErrJSONErrorOutput) {
			tui.NewOutput(os.Stderr, tui.FormatText).Error(err)
		}
		os.Exit(cli.ExitCodeForError(err))
	}
}
