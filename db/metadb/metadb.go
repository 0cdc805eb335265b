// Package metadb opens a db.Database by backend name.
package metadb

import (
	"cmp"
	"fmt"
	"os"
	"testing"

	"github.com/vocdoni/maci-domainobjs/db"
	"github.com/vocdoni/maci-domainobjs/db/inmemory"
	"github.com/vocdoni/maci-domainobjs/db/pebbledb"
)

// New opens a database of type typ. dir is ignored by the in-memory
// backend.
func New(typ, dir string) (db.Database, error) {
	opts := db.Options{Path: dir}
	switch typ {
	case db.TypePebble:
		return pebbledb.New(opts)
	case db.TypeInMemory:
		return inmemory.New(opts)
	default:
		return nil, fmt.Errorf("invalid dbType: %q. Available types: %q, %q",
			typ, db.TypePebble, db.TypeInMemory)
	}
}

// ForTest returns the backend tests should use, taken from DB_TYPE.
func ForTest() (typ string) {
	return cmp.Or(os.Getenv("DB_TYPE"), db.TypeInMemory)
}

// NewTest opens a database for tb that is closed on cleanup.
func NewTest(tb testing.TB) db.Database {
	database, err := New(ForTest(), tb.TempDir())
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() { _ = database.Close() })
	return database
}
