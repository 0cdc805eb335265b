package inmemory

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/maci-domainobjs/db"
	"github.com/vocdoni/maci-domainobjs/db/dbtest"
	"github.com/vocdoni/maci-domainobjs/db/prefixeddb"
)

func newDB(t *testing.T) *InMemoryDB {
	database, err := New(db.Options{})
	qt.Assert(t, err, qt.IsNil)
	return database
}

func TestWriteTx(t *testing.T) {
	dbtest.TestWriteTx(t, newDB(t))
}

func TestIterate(t *testing.T) {
	dbtest.TestIterate(t, newDB(t))
}

func TestConcurrentWriteTx(t *testing.T) {
	dbtest.TestConcurrentWriteTx(t, newDB(t))
}

func TestPrefixed(t *testing.T) {
	database := newDB(t)
	prefix := []byte("one/")
	dbtest.TestPrefixed(t, database, prefixeddb.NewPrefixedDatabase(database, prefix), prefix)
}

func TestDeleteConflicts(t *testing.T) {
	c := qt.New(t)
	database := newDB(t)
	c.Assert(db.Update(database, func(tx db.WriteTx) error {
		return tx.Set([]byte("k"), []byte("v"))
	}), qt.IsNil)

	reader := database.WriteTx()
	_, err := reader.Get([]byte("k"))
	c.Assert(err, qt.IsNil)
	c.Assert(db.Update(database, func(tx db.WriteTx) error {
		return tx.Delete([]byte("k"))
	}), qt.IsNil)
	c.Assert(reader.Set([]byte("k"), []byte("w")), qt.IsNil)
	c.Assert(reader.Commit(), qt.ErrorIs, db.ErrConflict)
}
