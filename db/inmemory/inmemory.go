// Package inmemory implements db.Database on a map. Data is lost on Close.
package inmemory

import (
	"bytes"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/vocdoni/maci-domainobjs/db"
)

type record struct {
	value   []byte
	version uint64
	deleted bool
}

// InMemoryDB implements an ephemeral in-memory db.Database. Every write
// bumps a global version so that transactions can detect conflicting
// commits.
type InMemoryDB struct {
	mu      sync.RWMutex
	data    map[string]record
	version uint64
}

var _ db.Database = (*InMemoryDB)(nil)

// New returns a new in-memory database. Options are ignored.
func New(_ db.Options) (*InMemoryDB, error) {
	return &InMemoryDB{data: make(map[string]record)}, nil
}

func (d *InMemoryDB) Close() error { return nil }

func (d *InMemoryDB) Compact() error { return nil }

func (d *InMemoryDB) Get(key []byte) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.data[string(key)]
	if !ok || r.deleted {
		return nil, db.ErrKeyNotFound
	}
	return bytes.Clone(r.value), nil
}

func (d *InMemoryDB) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	d.mu.RLock()
	snapshot := d.collect(string(prefix))
	d.mu.RUnlock()
	walk(snapshot, len(prefix), callback)
	return nil
}

// collect copies every value under prefix. The caller holds the lock.
func (d *InMemoryDB) collect(prefix string) map[string][]byte {
	out := make(map[string][]byte)
	for k, r := range d.data {
		if !r.deleted && strings.HasPrefix(k, prefix) {
			out[k] = bytes.Clone(r.value)
		}
	}
	return out
}

func (d *InMemoryDB) versionOf(key string) uint64 {
	return d.data[key].version
}

func (d *InMemoryDB) WriteTx() db.WriteTx {
	d.mu.RLock()
	start := d.version
	d.mu.RUnlock()
	return &WriteTx{
		db:      d,
		start:   start,
		pending: make(map[string][]byte),
		touched: make(map[string]struct{}),
	}
}

// WriteTx is an optimistic transaction: it records every key it touches and
// fails to commit if any of them changed after the transaction started.
type WriteTx struct {
	db    *InMemoryDB
	start uint64
	// pending maps keys to new values; a nil value marks a deletion.
	pending map[string][]byte
	touched map[string]struct{}
	done    bool
}

var _ db.WriteTx = (*WriteTx)(nil)

func (tx *WriteTx) Get(key []byte) ([]byte, error) {
	if tx.done {
		return nil, db.ErrTxDone
	}
	k := string(key)
	tx.touched[k] = struct{}{}
	if v, ok := tx.pending[k]; ok {
		if v == nil {
			return nil, db.ErrKeyNotFound
		}
		return bytes.Clone(v), nil
	}
	return tx.db.Get(key)
}

func (tx *WriteTx) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	if tx.done {
		return db.ErrTxDone
	}
	tx.db.mu.RLock()
	snapshot := tx.db.collect(string(prefix))
	tx.db.mu.RUnlock()
	for k := range snapshot {
		tx.touched[k] = struct{}{}
	}
	for k, v := range tx.pending {
		if !strings.HasPrefix(k, string(prefix)) {
			continue
		}
		if v == nil {
			delete(snapshot, k)
		} else {
			snapshot[k] = bytes.Clone(v)
		}
	}
	walk(snapshot, len(prefix), callback)
	return nil
}

func (tx *WriteTx) Set(key, value []byte) error {
	if tx.done {
		return db.ErrTxDone
	}
	k := string(key)
	tx.touched[k] = struct{}{}
	v := bytes.Clone(value)
	if v == nil {
		v = []byte{}
	}
	tx.pending[k] = v
	return nil
}

func (tx *WriteTx) Delete(key []byte) error {
	if tx.done {
		return db.ErrTxDone
	}
	k := string(key)
	tx.touched[k] = struct{}{}
	tx.pending[k] = nil
	return nil
}

func (tx *WriteTx) Commit() error {
	if tx.done {
		return db.ErrTxDone
	}
	tx.done = true
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	for k := range tx.touched {
		if tx.db.versionOf(k) > tx.start {
			return db.ErrConflict
		}
	}
	for k, v := range tx.pending {
		tx.db.version++
		// deletions leave a versioned tombstone behind
		tx.db.data[k] = record{value: v, version: tx.db.version, deleted: v == nil}
	}
	return nil
}

func (tx *WriteTx) Discard() {
	tx.done = true
	tx.pending = map[string][]byte{}
	tx.touched = map[string]struct{}{}
}

// walk calls callback in key order with the first trim bytes of each key
// removed.
func walk(entries map[string][]byte, trim int, callback func(key, value []byte) bool) {
	for _, k := range slices.Sorted(maps.Keys(entries)) {
		if !callback([]byte(k[trim:]), entries[k]) {
			return
		}
	}
}
