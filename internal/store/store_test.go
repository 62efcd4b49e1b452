package store_test

import (
	"testing"

	"github.com/shelflifeapp/shelflife-server/internal/store"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a Badger store in a temp directory.
// The returned cleanup closes the database; the temp dir is removed by the test framework.
func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	s, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)

	return s, func() {
		require.NoError(t, s.Close())
	}
}
