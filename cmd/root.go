// ABOUTME: Root command for bookx CLI
// ABOUTME: Handles global flags, configuration, and launches the TUI when run bare

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/swapbook/bookx/cli/internal/auth"
	"github.com/swapbook/bookx/cli/internal/client"
	"github.com/swapbook/bookx/cli/internal/logger"
	"github.com/swapbook/bookx/cli/internal/tokenstore"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
)

const defaultAPIURL = "https://swapbook-1.onrender.com"

// Exit codes
const (
	exitOK              = 0
	exitFailed          = 1 // backend rejected the operation or input was invalid
	exitError           = 2 // transport failure, malformed response, or unhealthy backend
	exitUnauthenticated = 3 // not logged in or session expired
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "bookx",
	Short: "Terminal client for the BookX book exchange",
	Long: `bookx is a terminal client for the BookX peer-to-peer book exchange.

Run without a subcommand to open the interactive interface: browse books,
list your own, and ask the AI advisor for recommendations.

Environment Variables:
  BOOKX_API_URL      Backend API URL (default: https://swapbook-1.onrender.com)
  BOOKX_CONFIG_DIR   Directory for the session and recent images (default: ~/.config/bookx)
  BOOKX_LOG_LEVEL    debug, info, warn, error (default: warn, info in the TUI)
  BOOKX_LOG_FORMAT   text or json (default: text)
  BOOKX_NERD_FONTS   1 or 0 to force Nerd Font icons on or off

A .env file in the working directory is loaded first; existing variables win.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv(".env")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return runTUI(ctx)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides BOOKX_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (overrides BOOKX_CONFIG_DIR)")
}

// loadEnv reads path into the environment without overriding existing variables,
// then configures CLI logging
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	logger.Init(os.Stderr, slog.LevelWarn)
	return nil
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("BOOKX_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// GetConfigDir returns the config directory from flag, env, or the XDG default
func GetConfigDir() string {
	if configDir != "" {
		return configDir
	}
	return tokenstore.DefaultConfigDir()
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newAPIClient builds a client whose session persists in the config directory
func newAPIClient() *client.Client {
	store := tokenstore.NewFileStore(GetConfigDir())
	return client.New(auth.New(GetAPIURL(), store))
}

// exitCode maps an operation error to the CLI exit code
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if client.IsUnauthenticated(err) {
		return exitUnauthenticated
	}
	var apiErr *client.Error
	if errors.As(err, &apiErr) || errors.Is(err, client.ErrInvalidInput) || errors.Is(err, auth.ErrLoginFailed) {
		return exitFailed
	}
	return exitError
}

// reportError prints err and returns its exit code
func reportError(w io.Writer, err error) int {
	if client.IsUnauthenticated(err) {
		fmt.Fprintln(w, "Error: not logged in. Run 'bookx login' first.")
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return exitCode(err)
}

// formatJSON renders v as indented JSON
func formatJSON(v interface{}) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}

// runCommand runs fn with a signal-aware context and exits with its code
func runCommand(fn func(ctx context.Context) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := fn(ctx)
	cancel()

	if code != exitOK {
		os.Exit(code)
	}
}
