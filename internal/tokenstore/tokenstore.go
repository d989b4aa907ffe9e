// ABOUTME: Credential storage for the BookX access/refresh token pair
// ABOUTME: Provides an injectable Store with in-memory and XDG file-backed implementations

package tokenstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Tokens is the credential pair issued by the backend on login
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store persists a single credential pair.
// Reads return "" when a value is absent or storage is unavailable.
type Store interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(t Tokens) error
	SetAccessToken(access string) error
	Clear() error
}

// IsAuthenticated reports whether an access token is present.
// Expiry is never checked client-side; the server's 401 is authoritative.
func IsAuthenticated(s Store) bool {
	return s != nil && s.AccessToken() != ""
}

// MemoryStore keeps tokens in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	tokens Tokens
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AccessToken returns the current access token
func (m *MemoryStore) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens.Access
}

// RefreshToken returns the current refresh token
func (m *MemoryStore) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens.Refresh
}

// SetTokens overwrites both tokens
func (m *MemoryStore) SetTokens(t Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = t
	return nil
}

// SetAccessToken replaces only the access token
func (m *MemoryStore) SetAccessToken(access string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens.Access = access
	return nil
}

// Clear removes both tokens
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = Tokens{}
	return nil
}

// FileStore persists tokens as JSON in the client config directory.
// An empty configDir disables persistence: writes are no-ops and reads return "".
type FileStore struct {
	mu        sync.Mutex
	configDir string
}

// NewFileStore creates a file-backed store rooted at configDir
func NewFileStore(configDir string) *FileStore {
	return &FileStore{configDir: configDir}
}

// DefaultConfigDir returns the config directory following the XDG spec.
// BOOKX_CONFIG_DIR takes precedence. Returns "" when no home directory exists.
func DefaultConfigDir() string {
	if dir := os.Getenv("BOOKX_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bookx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bookx")
}

// Path returns the token file location, or "" when persistence is disabled
func (f *FileStore) Path() string {
	if f.configDir == "" {
		return ""
	}
	return filepath.Join(f.configDir, "tokens.json")
}

// AccessToken returns the persisted access token
func (f *FileStore) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load().Access
}

// RefreshToken returns the persisted refresh token
func (f *FileStore) RefreshToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load().Refresh
}

// SetTokens overwrites the persisted pair
func (f *FileStore) SetTokens(t Tokens) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(t)
}

// SetAccessToken replaces the access token and keeps the refresh token
func (f *FileStore) SetAccessToken(access string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.load()
	t.Access = access
	return f.save(t)
}

// Clear deletes the token file
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.Path()
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// load reads the token file; missing or corrupt files read as empty
func (f *FileStore) load() Tokens {
	path := f.Path()
	if path == "" {
		return Tokens{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tokens{}
	}

	var t Tokens
	if err := json.Unmarshal(data, &t); err != nil {
		return Tokens{}
	}
	return t
}

func (f *FileStore) save(t Tokens) error {
	path := f.Path()
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(f.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
