package bbolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Manager {
	t.Helper()
	manager := NewManager(t.TempDir())
	t.Cleanup(func() { _ = manager.Close() })
	return manager
}

func TestBBoltDB(t *testing.T) {
	manager := setupTestDB(t)
	ctx := context.Background()

	t.Run("Database Lifecycle", func(t *testing.T) {
		db, err := manager.OpenDB("test")
		require.NoError(t, err)

		require.NoError(t, db.Write(ctx, []byte("lifecycle-test"), []byte("test-value")))
		got, err := db.Read(ctx, []byte("lifecycle-test"))
		require.NoError(t, err)
		assert.Equal(t, "test-value", string(got))

		require.NoError(t, manager.CloseDB("test"))
		_, err = os.Stat(filepath.Join(manager.path, "test.bolt"))
		assert.NoError(t, err, "database file was not created")

		// Reopening sees the committed value.
		db, err = manager.OpenDB("test")
		require.NoError(t, err)
		got, err = db.Read(ctx, []byte("lifecycle-test"))
		require.NoError(t, err)
		assert.Equal(t, "test-value", string(got))
	})

	t.Run("Batch Operations", func(t *testing.T) {
		db, err := manager.OpenDB("batch-test")
		require.NoError(t, err)

		ops := []database.BatchOperation{
			database.Put([]byte("batch1"), []byte("value1")),
			database.Put([]byte("batch2"), []byte("value2")),
			database.Del([]byte("batch1")),
		}
		require.NoError(t, db.Batch(ctx, ops))

		_, err = db.Read(ctx, []byte("batch1"))
		assert.ErrorIs(t, err, database.ErrKeyNotFound)

		value, err := db.Read(ctx, []byte("batch2"))
		require.NoError(t, err)
		assert.Equal(t, "value2", string(value))
	})

	t.Run("Iterator", func(t *testing.T) {
		db, err := manager.OpenDB("iterator-test")
		require.NoError(t, err)

		for i := 1; i <= 3; i++ {
			require.NoError(t, db.Write(ctx, []byte(fmt.Sprintf("iter%d", i)), []byte(fmt.Sprintf("value%d", i))))
		}

		iter, err := db.Iterator(ctx, []byte("iter1"), []byte("iter3"))
		require.NoError(t, err)
		defer iter.Close()

		var keys []string
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
		}
		require.NoError(t, iter.Error())
		assert.Equal(t, []string{"iter1", "iter2"}, keys, "end bound is exclusive")
	})

	t.Run("Concurrent Access", func(t *testing.T) {
		db, err := manager.OpenDB("concurrent-test")
		require.NoError(t, err)

		const numGoroutines = 10
		const numOperations = 50

		errCh := make(chan error, numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			go func(id int) {
				var err error
				for j := 0; j < numOperations && err == nil; j++ {
					key := []byte(fmt.Sprintf("concurrent-%d-%d", id, j))
					if err = db.Write(ctx, key, []byte("v")); err == nil {
						_, err = db.Read(ctx, key)
					}
				}
				errCh <- err
			}(i)
		}
		for i := 0; i < numGoroutines; i++ {
			assert.NoError(t, <-errCh)
		}
	})
}
