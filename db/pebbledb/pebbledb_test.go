package pebbledb

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/maci-domainobjs/db"
	"github.com/vocdoni/maci-domainobjs/db/dbtest"
	"github.com/vocdoni/maci-domainobjs/db/prefixeddb"
)

func newDB(t *testing.T) *PebbleDB {
	database, err := New(db.Options{Path: t.TempDir()})
	qt.Assert(t, err, qt.IsNil)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestWriteTx(t *testing.T) {
	dbtest.TestWriteTx(t, newDB(t))
}

func TestIterate(t *testing.T) {
	dbtest.TestIterate(t, newDB(t))
}

// Concurrent transactions are not checked: a pebble batch does not detect
// conflicts.

func TestPrefixed(t *testing.T) {
	database := newDB(t)
	prefix := []byte("one/")
	dbtest.TestPrefixed(t, database, prefixeddb.NewPrefixedDatabase(database, prefix), prefix)
}

func TestReopen(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()

	database, err := New(db.Options{Path: dir})
	c.Assert(err, qt.IsNil)
	c.Assert(db.Update(database, func(tx db.WriteTx) error {
		return tx.Set([]byte("persisted"), []byte("yes"))
	}), qt.IsNil)
	c.Assert(database.Compact(), qt.IsNil)
	c.Assert(database.Close(), qt.IsNil)

	database, err = New(db.Options{Path: dir})
	c.Assert(err, qt.IsNil)
	defer database.Close()
	v, err := database.Get([]byte("persisted"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("yes"))
}

func TestMissingPath(t *testing.T) {
	_, err := New(db.Options{})
	qt.Assert(t, err, qt.IsNotNil)
}

func TestUpperBound(t *testing.T) {
	c := qt.New(t)
	c.Assert(upperBound([]byte("ab")), qt.DeepEquals, []byte("ac"))
	c.Assert(upperBound([]byte{'a', 0xff}), qt.DeepEquals, []byte("b"))
	c.Assert(upperBound([]byte{0xff, 0xff}), qt.IsNil)
	c.Assert(upperBound(nil), qt.IsNil)
}
