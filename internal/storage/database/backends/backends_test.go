package backends

import (
	"context"
	"testing"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T) map[string]database.DB {
	t.Helper()
	dbs := make(map[string]database.DB)
	for _, name := range Names {
		mgr, err := NewManager(name, t.TempDir(), 0)
		require.NoError(t, err)
		t.Cleanup(func() { _ = mgr.Close() })

		db, err := mgr.OpenDB("state")
		require.NoError(t, err, "open %s", name)
		dbs[name] = db
	}
	return dbs
}

func TestReadWriteDelete(t *testing.T) {
	ctx := context.Background()
	for name, db := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			_, err := db.Read(ctx, []byte("missing"))
			require.ErrorIs(t, err, database.ErrKeyNotFound)

			require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))
			val, err := db.Read(ctx, []byte("k"))
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), val)

			require.NoError(t, db.Delete(ctx, []byte("k")))
			_, err = db.Read(ctx, []byte("k"))
			require.ErrorIs(t, err, database.ErrKeyNotFound)
		})
	}
}

func TestBatchAndPrefixIteration(t *testing.T) {
	ctx := context.Background()
	for name, db := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.Batch(ctx, []database.BatchOperation{
				database.Put([]byte("a1"), []byte("1")),
				database.Put([]byte("a2"), []byte("2")),
				database.Put([]byte("b1"), []byte("3")),
				database.Put([]byte("a3"), []byte("x")),
				database.Del([]byte("a3")),
			}))

			it, err := db.Iterator(ctx, []byte("a"), database.PrefixEnd([]byte("a")))
			require.NoError(t, err)
			defer it.Close()

			var keys []string
			for it.Next() {
				keys = append(keys, string(it.Key()))
			}
			require.NoError(t, it.Error())
			assert.Equal(t, []string{"a1", "a2"}, keys)
		})
	}
}

func TestUnknownBackend(t *testing.T) {
	_, err := NewManager("rocksdb", t.TempDir(), 0)
	require.ErrorIs(t, err, database.ErrUnknownBackend)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("b"), database.PrefixEnd([]byte("a")))
	assert.Equal(t, []byte{0x01}, database.PrefixEnd([]byte{0x00, 0xff}))
	assert.Nil(t, database.PrefixEnd([]byte{0xff, 0xff}))
}
