package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/jirban/internal/testutil"
)

// createTestStore opens a fresh database with predictable revision ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithRevisionGenerator(testutil.NewSequentialRevisions("rev")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestConfig builds a raw config with a config blob derived from code.
func createTestConfig(id int64, code, name string) RawConfig {
	return RawConfig{
		ID:            id,
		Code:          code,
		Name:          name,
		OwningUserKey: "admin",
		Config:        []byte(`{"code":"` + code + `"}`),
		ConfigHash:    "hash-" + code,
	}
}
