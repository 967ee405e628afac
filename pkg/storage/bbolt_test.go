package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBoltBackend(t *testing.T) {
	backendTestSuite(t, func(t *testing.T) Backend {
		backend, err := OpenBoltBackend(filepath.Join(t.TempDir(), "test.db"), BoltConfig{})
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		t.Cleanup(func() { backend.Close() })

		return backend
	})
}

func TestOpenBoltBackend_CreatesDirectory(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "results.db")

	backend, err := OpenBoltBackend(dbPath, BoltConfig{})
	if err != nil {
		t.Fatalf("OpenBoltBackend failed: %v", err)
	}
	defer backend.Close()

	if backend.Path() != dbPath {
		t.Errorf("Path() = %s, want %s", backend.Path(), dbPath)
	}
}

func TestOpenBoltBackend_LockedFileGivesUp(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "locked.db")

	holder, err := OpenBoltBackend(dbPath, BoltConfig{})
	if err != nil {
		t.Fatalf("OpenBoltBackend failed: %v", err)
	}
	defer holder.Close()

	_, err = OpenBoltBackend(dbPath, BoltConfig{LockTimeout: 20 * time.Millisecond, Attempts: 2})
	if err == nil {
		t.Fatal("opening a locked database should fail")
	}
}
