// ABOUTME: Launches the interactive interface for the bare bookx command
// ABOUTME: Redirects logging to the debug file so the terminal stays clean

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/swapbook/bookx/cli/internal/logger"
	"github.com/swapbook/bookx/cli/internal/recommend"
	"github.com/swapbook/bookx/cli/internal/tui"
	"github.com/swapbook/bookx/cli/internal/tui/recentfiles"
)

var errNotTerminal = errors.New("interactive mode needs a terminal; see 'bookx --help' for scriptable commands")

// runTUI starts the interactive interface
func runTUI(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	dir := GetConfigDir()
	logFile, err := logger.OpenDebugFile(dir)
	if err != nil {
		return fmt.Errorf("opening debug log: %w", err)
	}
	defer logFile.Close()
	logger.Init(logFile, slog.LevelInfo)

	api := newAPIClient()
	slog.Info("Starting TUI", "api_url", GetAPIURL(), "config_dir", dir)

	resolver := recommend.NewResolver(api, recommend.DefaultSearchTTL)
	defer resolver.Close()

	return tui.Run(ctx, api, resolver, recentfiles.New(dir))
}
