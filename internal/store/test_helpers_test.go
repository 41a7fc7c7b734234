package store

import (
	"path/filepath"
	"testing"
	"time"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id, imagePath, fingerprint string) Run {
	return Run{
		ID:          id,
		Name:        "animation",
		ImagePath:   imagePath,
		MetaPath:    imagePath + ".mcmeta",
		FrameCount:  3,
		FrameWidth:  16,
		FrameHeight: 16,
		FrameTime:   2,
		Fingerprint: fingerprint,
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
