// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies environment variable, flag, and exit code configuration

package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/swapbook/bookx/cli/internal/auth"
	"github.com/swapbook/bookx/cli/internal/client"
	"github.com/swapbook/bookx/cli/internal/tokenstore"
)

// useBackend points the CLI at handler with a fresh config directory.
// With signedIn a token pair is stored first.
func useBackend(t *testing.T, handler http.HandlerFunc, signedIn bool) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	if signedIn {
		if err := tokenstore.NewFileStore(dir).SetTokens(tokenstore.Tokens{Access: "access-1", Refresh: "refresh-1"}); err != nil {
			t.Fatalf("storing tokens: %v", err)
		}
	}

	apiURL = server.URL
	configDir = dir
	t.Cleanup(func() {
		apiURL = ""
		configDir = ""
		jsonOutput = false
	})
	return dir
}

func TestGetAPIURL_Default(t *testing.T) {
	t.Setenv("BOOKX_API_URL", "")
	apiURL = "" // Reset flag

	url := GetAPIURL()
	if url != "https://swapbook-1.onrender.com" {
		t.Errorf("expected default URL https://swapbook-1.onrender.com, got %s", url)
	}
}

func TestGetAPIURL_FromEnv(t *testing.T) {
	t.Setenv("BOOKX_API_URL", "http://backend.example.com")
	apiURL = "" // Reset flag

	url := GetAPIURL()
	if url != "http://backend.example.com" {
		t.Errorf("expected http://backend.example.com, got %s", url)
	}
}

func TestGetAPIURL_FlagOverridesEnv(t *testing.T) {
	t.Setenv("BOOKX_API_URL", "http://backend.example.com")
	apiURL = "http://flag-override.example.com"
	defer func() { apiURL = "" }()

	url := GetAPIURL()
	if url != "http://flag-override.example.com" {
		t.Errorf("expected flag to override env, got %s", url)
	}
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv("BOOKX_CONFIG_DIR", "/env/bookx")
	configDir = ""

	if got := GetConfigDir(); got != "/env/bookx" {
		t.Errorf("expected env config dir, got %s", got)
	}

	configDir = "/flag/bookx"
	defer func() { configDir = "" }()

	if got := GetConfigDir(); got != "/flag/bookx" {
		t.Errorf("expected flag to override env, got %s", got)
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "BOOKX_DOTENV_TEST=from-file\nBOOKX_API_URL=http://from-file.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	os.Unsetenv("BOOKX_DOTENV_TEST")
	t.Cleanup(func() { os.Unsetenv("BOOKX_DOTENV_TEST") })
	t.Setenv("BOOKX_API_URL", "http://from-env.example.com")

	if err := loadEnv(path); err != nil {
		t.Fatalf("loadEnv: %v", err)
	}

	if got := os.Getenv("BOOKX_DOTENV_TEST"); got != "from-file" {
		t.Errorf("expected variable loaded from file, got %q", got)
	}
	if got := os.Getenv("BOOKX_API_URL"); got != "http://from-env.example.com" {
		t.Errorf("expected existing environment to win, got %q", got)
	}
}

func TestLoadEnv_MissingFile(t *testing.T) {
	if err := loadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("expected missing .env to be ignored, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"backend rejected", &client.Error{Op: "create book", StatusCode: 400}, exitFailed},
		{"invalid input", fmt.Errorf("%w: title is required", client.ErrInvalidInput), exitFailed},
		{"login failed", auth.ErrLoginFailed, exitFailed},
		{"unauthenticated", fmt.Errorf("list: %w", auth.ErrUnauthenticated), exitUnauthenticated},
		{"401 without refresh", &client.Error{Op: "fetch books", StatusCode: 401}, exitUnauthenticated},
		{"transport", errors.New("cannot connect to backend"), exitError},
		{"malformed", client.ErrMalformedResponse, exitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
