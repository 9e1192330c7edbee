package leveldb

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

type Manager struct {
	dbs  map[string]*leveldb.DB
	path string
	mu   sync.Mutex
}

func NewManager(path string) *Manager {
	return &Manager{
		dbs:  make(map[string]*leveldb.DB),
		path: path,
	}
}

func (m *Manager) OpenDB(name string) (database.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, exists := m.dbs[name]; exists {
		return NewDB(db), nil
	}

	dbPath := filepath.Join(m.path, name+".ldb")
	db, err := leveldb.OpenFile(dbPath, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}

	m.dbs[name] = db
	return NewDB(db), nil
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
