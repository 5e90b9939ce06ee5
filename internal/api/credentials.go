package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CredentialStore persists the raw session cookie between runs so every
// invocation of the CLI is credentialed the way a browser session would be.
//
// The stored value is the literal Cookie header the browser login flow
// produced; the server owns issuance and expiry, this side only carries it.
type CredentialStore struct {
	path string
}

// NewCredentialStore creates a store backed by the given file path.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// DefaultCredentialPath returns the per-user location of the stored cookie.
func DefaultCredentialPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, "fessctl", "session"), nil
}

// Save writes the cookie, creating parent directories as needed. The file is
// user-readable only.
func (s *CredentialStore) Save(cookie string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(cookie+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write credential: %w", err)
	}
	return nil
}

// Load reads the stored cookie. A missing file is not an error; it yields an
// empty credential (signed out).
func (s *CredentialStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear discards the stored cookie. Clearing an absent credential is a no-op.
func (s *CredentialStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	return nil
}
