package api

import (
	"path/filepath"
	"testing"
)

func TestCredentialStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	store := NewCredentialStore(path)

	if err := store.Save("session=abc123"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != "session=abc123" {
		t.Errorf("expected stored cookie back, got %q", got)
	}
}

func TestCredentialStoreLoadMissing(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "absent"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("missing credential must not error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty credential, got %q", got)
	}
}

func TestCredentialStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	store := NewCredentialStore(path)

	if err := store.Save("session=abc"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got, _ := store.Load(); got != "" {
		t.Errorf("expected cleared credential, got %q", got)
	}

	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("clearing an absent credential must be a no-op: %v", err)
	}
}
