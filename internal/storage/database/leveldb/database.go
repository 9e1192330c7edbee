package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type DB struct {
	db *leveldb.DB
}

func NewDB(db *leveldb.DB) *DB {
	return &DB{db: db}
}

func (l *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if l.db == nil {
		return nil, database.ErrDBClosed
	}

	val, err := l.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, database.ErrKeyNotFound
		}
		return nil, err
	}
	return val, nil
}

func (l *DB) Write(ctx context.Context, key, value []byte) error {
	if l.db == nil {
		return database.ErrDBClosed
	}
	return l.db.Put(key, value, &opt.WriteOptions{Sync: true})
}

func (l *DB) Delete(ctx context.Context, key []byte) error {
	if l.db == nil {
		return database.ErrDBClosed
	}
	return l.db.Delete(key, &opt.WriteOptions{Sync: true})
}

func (l *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	if l.db == nil {
		return database.ErrDBClosed
	}

	batch := new(leveldb.Batch)
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			batch.Put(op.Key, op.Value)
		case database.BatchDelete:
			batch.Delete(op.Key)
		default:
			return fmt.Errorf("unknown batch operation type: %d", op.Type)
		}
	}
	return l.db.Write(batch, &opt.WriteOptions{Sync: true})
}

type Iterator struct {
	iter iterator.Iterator
}

func (l *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	if l.db == nil {
		return nil, database.ErrDBClosed
	}
	return &Iterator{iter: l.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)}, nil
}

func (it *Iterator) Next() bool {
	return it.iter.Next()
}

func (it *Iterator) Key() []byte {
	return append([]byte(nil), it.iter.Key()...)
}

func (it *Iterator) Value() []byte {
	return append([]byte(nil), it.iter.Value()...)
}

func (it *Iterator) Error() error {
	return it.iter.Error()
}

func (it *Iterator) Close() error {
	it.iter.Release()
	return nil
}
