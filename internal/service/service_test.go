package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/storage"
)

var (
	alice = &internal.User{ID: "u1", Token: "TOKEN-1", Name: "Alice"}
	bob   = &internal.User{ID: "u2", Token: "TOKEN-2", Name: "Bob"}
)

func setupStore(t *testing.T) *storage.FileStorage {
	t.Helper()
	dir := t.TempDir()
	users := `[{"id":"u1","token":"TOKEN-1","name":"Alice"},{"id":"u2","token":"TOKEN-2","name":"Bob"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(users), 0o644))
	s, err := storage.NewFileStorage(dir, internal.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func hours(h float64) *float64 { return &h }
