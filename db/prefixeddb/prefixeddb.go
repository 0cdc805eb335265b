// Package prefixeddb scopes a db.Database or db.WriteTx to a key prefix.
package prefixeddb

import "github.com/vocdoni/maci-domainobjs/db"

func prefixed(prefix, key []byte) []byte {
	out := make([]byte, 0, len(prefix)+len(key))
	return append(append(out, prefix...), key...)
}

// PrefixedReader prefixes every key read from the wrapped reader.
type PrefixedReader struct {
	prefix []byte
	reader db.Reader
}

// NewPrefixedReader returns a reader that only sees keys under prefix.
func NewPrefixedReader(reader db.Reader, prefix []byte) *PrefixedReader {
	return &PrefixedReader{prefix: prefix, reader: reader}
}

func (r *PrefixedReader) Get(key []byte) ([]byte, error) {
	return r.reader.Get(prefixed(r.prefix, key))
}

func (r *PrefixedReader) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	return r.reader.Iterate(prefixed(r.prefix, prefix), callback)
}

// PrefixedDatabase is a db.Database where every key lives under a prefix.
type PrefixedDatabase struct {
	*PrefixedReader
	prefix []byte
	db     db.Database
}

var _ db.Database = (*PrefixedDatabase)(nil)

// NewPrefixedDatabase wraps database so that every key is stored under
// prefix.
func NewPrefixedDatabase(database db.Database, prefix []byte) *PrefixedDatabase {
	return &PrefixedDatabase{
		PrefixedReader: NewPrefixedReader(database, prefix),
		prefix:         prefix,
		db:             database,
	}
}

func (d *PrefixedDatabase) WriteTx() db.WriteTx {
	return NewPrefixedWriteTx(d.db.WriteTx(), d.prefix)
}

// Compact compacts the underlying database.
func (d *PrefixedDatabase) Compact() error { return d.db.Compact() }

// Close closes the underlying database.
func (d *PrefixedDatabase) Close() error { return d.db.Close() }

// PrefixedWriteTx is a db.WriteTx where every key lives under a prefix.
type PrefixedWriteTx struct {
	*PrefixedReader
	prefix []byte
	tx     db.WriteTx
}

var _ db.WriteTx = (*PrefixedWriteTx)(nil)

// NewPrefixedWriteTx wraps tx so that every key is written under prefix.
func NewPrefixedWriteTx(tx db.WriteTx, prefix []byte) *PrefixedWriteTx {
	return &PrefixedWriteTx{
		PrefixedReader: NewPrefixedReader(tx, prefix),
		prefix:         prefix,
		tx:             tx,
	}
}

func (t *PrefixedWriteTx) Set(key, value []byte) error {
	return t.tx.Set(prefixed(t.prefix, key), value)
}

func (t *PrefixedWriteTx) Delete(key []byte) error {
	return t.tx.Delete(prefixed(t.prefix, key))
}

func (t *PrefixedWriteTx) Commit() error { return t.tx.Commit() }

func (t *PrefixedWriteTx) Discard() { t.tx.Discard() }
