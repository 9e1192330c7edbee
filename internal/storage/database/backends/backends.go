// Package backends maps a configured backend name onto a database.Manager.
package backends

import (
	"fmt"

	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/LeJamon/goMarketd/internal/storage/database/bbolt"
	"github.com/LeJamon/goMarketd/internal/storage/database/leveldb"
	"github.com/LeJamon/goMarketd/internal/storage/database/memory"
	"github.com/LeJamon/goMarketd/internal/storage/database/pebble"
)

const (
	Pebble  = "pebble"
	LevelDB = "leveldb"
	BBolt   = "bbolt"
	Memory  = "memory"
)

// Names lists the supported backend names.
var Names = []string{Pebble, LevelDB, BBolt, Memory}

// NewManager returns a Manager for backend rooted at path.
func NewManager(backend, path string, cacheSize int64) (database.Manager, error) {
	switch backend {
	case Pebble, "":
		return pebble.NewManager(path, cacheSize), nil
	case LevelDB:
		return leveldb.NewManager(path), nil
	case BBolt:
		return bbolt.NewManager(path), nil
	case Memory:
		return memory.NewManager(), nil
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownBackend, backend)
	}
}
