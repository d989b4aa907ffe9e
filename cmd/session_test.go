// ABOUTME: Tests for the login, logout, and whoami commands
// ABOUTME: Verifies session persistence in the config directory and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/swapbook/bookx/cli/internal/tokenstore"
)

func TestReadPasswordLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"newline", "s3cret\n", "s3cret", false},
		{"crlf", "s3cret\r\n", "s3cret", false},
		{"no newline", "s3cret", "s3cret", false},
		{"first line only", "s3cret\nextra\n", "s3cret", false},
		{"keeps spaces", " pass word \n", " pass word ", false},
		{"empty", "", "", true},
		{"blank line", "\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPasswordLine(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("readPasswordLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("readPasswordLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginCommand_Success(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/token/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" || body["password"] != "s3cret" {
			t.Errorf("unexpected credentials %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"access": "new-access", "refresh": "new-refresh"})
	}, false)

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), &buf, " alice ", "s3cret")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Logged in as alice") {
		t.Errorf("unexpected output %q", buf.String())
	}

	store := tokenstore.NewFileStore(dir)
	if store.AccessToken() != "new-access" || store.RefreshToken() != "new-refresh" {
		t.Error("expected tokens persisted in config dir")
	}
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, false)

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), &buf, "alice", "wrong")

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Login failed. Please check your credentials.") {
		t.Errorf("unexpected output %q", buf.String())
	}
	if tokenstore.IsAuthenticated(tokenstore.NewFileStore(dir)) {
		t.Error("expected no session after failed login")
	}
}

func TestLoginCommand_MissingUsername(t *testing.T) {
	useBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("expected no request")
	}, false)

	var buf bytes.Buffer
	if exitCode := runLogin(context.Background(), &buf, "  ", "pw"); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
}

func TestLogoutCommand(t *testing.T) {
	dir := useBackend(t, func(w http.ResponseWriter, r *http.Request) {}, true)

	var buf bytes.Buffer
	if exitCode := runLogout(&buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Logged out") {
		t.Errorf("unexpected output %q", buf.String())
	}
	if tokenstore.IsAuthenticated(tokenstore.NewFileStore(dir)) {
		t.Error("expected session cleared")
	}
}

func TestWhoamiCommand(t *testing.T) {
	t.Run("logged in", func(t *testing.T) {
		useBackend(t, func(w http.ResponseWriter, r *http.Request) {}, true)

		var buf bytes.Buffer
		if exitCode := runWhoami(&buf); exitCode != 0 {
			t.Errorf("expected exit code 0, got %d", exitCode)
		}
		if !strings.Contains(buf.String(), "Logged in") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("logged out", func(t *testing.T) {
		useBackend(t, func(w http.ResponseWriter, r *http.Request) {}, false)

		var buf bytes.Buffer
		if exitCode := runWhoami(&buf); exitCode != 3 {
			t.Errorf("expected exit code 3, got %d", exitCode)
		}
		if !strings.Contains(buf.String(), "Not logged in") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		useBackend(t, func(w http.ResponseWriter, r *http.Request) {}, true)
		jsonOutput = true

		var buf bytes.Buffer
		runWhoami(&buf)

		var parsed map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if parsed["logged_in"] != true {
			t.Errorf("expected logged_in true, got %v", parsed["logged_in"])
		}
	})
}
