package bbolt

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"go.etcd.io/bbolt"
)

type Manager struct {
	dbs  map[string]*bbolt.DB
	path string
	mu   sync.Mutex
}

func NewManager(path string) *Manager {
	return &Manager{
		dbs:  make(map[string]*bbolt.DB),
		path: path,
	}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, exists := m.dbs[name]; exists {
		return NewDB(db, DefaultBucket), nil
	}

	if err := os.MkdirAll(m.path, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbPath := filepath.Join(m.path, name+".bolt")
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(DefaultBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket in %s: %w", name, err)
	}

	m.dbs[name] = db
	return NewDB(db, DefaultBucket), nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, exists := m.dbs[name]
	if !exists {
		return fmt.Errorf("database %s not found", name)
	}
	delete(m.dbs, name)
	return db.Close()
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for name, db := range m.dbs {
		if err := db.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close database %s: %w", name, err)
		}
		delete(m.dbs, name)
	}
	return lastErr
}
