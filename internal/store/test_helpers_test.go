package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "drawer.db")
	db, err := OpenDB(dbPath)
	require.NoError(t, err, "open db")
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewStore(db)
}
