// Package pebbledb implements db.Database on top of cockroachdb/pebble.
package pebbledb

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/vocdoni/maci-domainobjs/db"
)

// PebbleDB implements db.Database. Write transactions are pebble indexed
// batches: they see their own writes but do not detect conflicts.
type PebbleDB struct {
	db *pebble.DB
}

var _ db.Database = (*PebbleDB)(nil)

// New opens (or creates) a pebble database at opts.Path.
func New(opts db.Options) (*PebbleDB, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("pebble database needs a path")
	}
	if err := os.MkdirAll(opts.Path, os.ModePerm); err != nil {
		return nil, err
	}
	pdb, err := pebble.Open(opts.Path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("cannot open pebble database: %w", err)
	}
	return &PebbleDB{db: pdb}, nil
}

func (d *PebbleDB) Close() error {
	return d.db.Close()
}

func (d *PebbleDB) Get(key []byte) ([]byte, error) {
	return get(d.db, key)
}

func (d *PebbleDB) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	return iterate(d.db, prefix, callback)
}

func (d *PebbleDB) WriteTx() db.WriteTx {
	return &WriteTx{batch: d.db.NewIndexedBatch()}
}

// Compact compacts the whole key space.
func (d *PebbleDB) Compact() error {
	iter, err := d.db.NewIter(nil)
	if err != nil {
		return err
	}
	var first, last []byte
	if iter.First() {
		first = bytes.Clone(iter.Key())
	}
	if iter.Last() {
		last = bytes.Clone(iter.Key())
	}
	if err := iter.Close(); err != nil {
		return err
	}
	if first == nil {
		return nil
	}
	return d.db.Compact(first, append(last, 0xff), true)
}

// WriteTx wraps an indexed pebble batch.
type WriteTx struct {
	batch *pebble.Batch
	done  bool
}

var _ db.WriteTx = (*WriteTx)(nil)

func (tx *WriteTx) Get(key []byte) ([]byte, error) {
	if tx.done {
		return nil, db.ErrTxDone
	}
	return get(tx.batch, key)
}

func (tx *WriteTx) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	if tx.done {
		return db.ErrTxDone
	}
	return iterate(tx.batch, prefix, callback)
}

func (tx *WriteTx) Set(key, value []byte) error {
	if tx.done {
		return db.ErrTxDone
	}
	return tx.batch.Set(key, value, nil)
}

func (tx *WriteTx) Delete(key []byte) error {
	if tx.done {
		return db.ErrTxDone
	}
	return tx.batch.Delete(key, nil)
}

func (tx *WriteTx) Commit() error {
	if tx.done {
		return db.ErrTxDone
	}
	tx.done = true
	defer tx.batch.Close()
	return tx.batch.Commit(pebble.Sync)
}

func (tx *WriteTx) Discard() {
	if tx.done {
		return
	}
	tx.done = true
	// Close only fails on a batch that is already closed.
	_ = tx.batch.Close()
}

type pebbleReader interface {
	Get(key []byte) ([]byte, io.Closer, error)
	NewIter(o *pebble.IterOptions) (*pebble.Iterator, error)
}

func get(r pebbleReader, key []byte) ([]byte, error) {
	v, closer, err := r.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return bytes.Clone(v), nil
}

func iterate(r pebbleReader, prefix []byte, callback func(key, value []byte) bool) (err error) {
	iter, err := r.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := iter.Close(); err == nil {
			err = cerr
		}
	}()
	for iter.First(); iter.Valid(); iter.Next() {
		// pebble reuses the buffers between steps
		key := bytes.Clone(iter.Key()[len(prefix):])
		if !callback(key, bytes.Clone(iter.Value())) {
			break
		}
	}
	return iter.Error()
}

// upperBound returns the smallest key greater than every key with the given
// prefix, or nil if there is none.
func upperBound(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
