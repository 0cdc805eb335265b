// Package dbtest holds the behaviour tests shared by every db.Database
// implementation.
package dbtest

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/maci-domainobjs/db"
)

// TestWriteTx checks reads, writes and deletes through a transaction.
func TestWriteTx(t *testing.T, database db.Database) {
	c := qt.New(t)

	tx := database.WriteTx()
	_, err := tx.Get([]byte("a"))
	c.Assert(errors.Is(err, db.ErrKeyNotFound), qt.IsTrue)

	c.Assert(tx.Set([]byte("a"), []byte("b")), qt.IsNil)
	v, err := tx.Get([]byte("a"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("b"))

	// not visible before commit
	_, err = database.Get([]byte("a"))
	c.Assert(errors.Is(err, db.ErrKeyNotFound), qt.IsTrue)

	c.Assert(tx.Commit(), qt.IsNil)
	c.Assert(errors.Is(tx.Commit(), db.ErrTxDone), qt.IsTrue)
	tx.Discard()

	v, err = database.Get([]byte("a"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("b"))

	tx = database.WriteTx()
	c.Assert(tx.Delete([]byte("a")), qt.IsNil)
	_, err = tx.Get([]byte("a"))
	c.Assert(errors.Is(err, db.ErrKeyNotFound), qt.IsTrue)
	c.Assert(tx.Commit(), qt.IsNil)
	_, err = database.Get([]byte("a"))
	c.Assert(errors.Is(err, db.ErrKeyNotFound), qt.IsTrue)

	tx = database.WriteTx()
	c.Assert(tx.Set([]byte("discarded"), []byte("x")), qt.IsNil)
	tx.Discard()
	_, err = database.Get([]byte("discarded"))
	c.Assert(errors.Is(err, db.ErrKeyNotFound), qt.IsTrue)
}

// TestIterate checks prefix iteration order, prefix trimming and early
// stop.
func TestIterate(t *testing.T, database db.Database) {
	c := qt.New(t)

	c.Assert(db.Update(database, func(tx db.WriteTx) error {
		for i := range 10 {
			if err := tx.Set(fmt.Appendf(nil, "p/%02d", i), []byte{byte(i)}); err != nil {
				return err
			}
		}
		return tx.Set([]byte("q/00"), []byte{0xff})
	}), qt.IsNil)

	var keys []string
	c.Assert(database.Iterate([]byte("p/"), func(k, v []byte) bool {
		c.Assert(v, qt.HasLen, 1)
		keys = append(keys, string(k))
		return true
	}), qt.IsNil)
	c.Assert(keys, qt.HasLen, 10)
	c.Assert(keys[0], qt.Equals, "00")
	c.Assert(keys[9], qt.Equals, "09")

	count := 0
	c.Assert(database.Iterate([]byte("p/"), func(_, _ []byte) bool {
		count++
		return count < 3
	}), qt.IsNil)
	c.Assert(count, qt.Equals, 3)

	// pending writes are merged into transaction iteration
	tx := database.WriteTx()
	defer tx.Discard()
	c.Assert(tx.Set([]byte("p/10"), []byte{10}), qt.IsNil)
	c.Assert(tx.Delete([]byte("p/00")), qt.IsNil)
	keys = keys[:0]
	c.Assert(tx.Iterate([]byte("p/"), func(k, _ []byte) bool {
		keys = append(keys, string(k))
		return true
	}), qt.IsNil)
	c.Assert(keys, qt.HasLen, 10)
	c.Assert(keys[0], qt.Equals, "01")
	c.Assert(keys[9], qt.Equals, "10")
}

// TestConcurrentWriteTx checks that the second of two transactions touching
// the same key fails to commit.
func TestConcurrentWriteTx(t *testing.T, database db.Database) {
	c := qt.New(t)

	tx1 := database.WriteTx()
	tx2 := database.WriteTx()
	_, err := tx1.Get([]byte("counter"))
	c.Assert(errors.Is(err, db.ErrKeyNotFound), qt.IsTrue)
	_, err = tx2.Get([]byte("counter"))
	c.Assert(errors.Is(err, db.ErrKeyNotFound), qt.IsTrue)
	c.Assert(tx1.Set([]byte("counter"), []byte{1}), qt.IsNil)
	c.Assert(tx2.Set([]byte("counter"), []byte{2}), qt.IsNil)
	c.Assert(tx1.Commit(), qt.IsNil)
	c.Assert(errors.Is(tx2.Commit(), db.ErrConflict), qt.IsTrue)

	v, err := database.Get([]byte("counter"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte{1})
}

// TestPrefixed checks that a prefixed view stores its keys under the
// prefix of the parent database.
func TestPrefixed(t *testing.T, database, prefixed db.Database, prefix []byte) {
	c := qt.New(t)

	c.Assert(db.Update(prefixed, func(tx db.WriteTx) error {
		return tx.Set([]byte("key"), []byte("value"))
	}), qt.IsNil)

	v, err := prefixed.Get([]byte("key"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("value"))

	v, err = database.Get(append(append([]byte{}, prefix...), "key"...))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("value"))

	_, err = database.Get([]byte("key"))
	c.Assert(errors.Is(err, db.ErrKeyNotFound), qt.IsTrue)
}
