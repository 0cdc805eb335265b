// Package db defines the key-value database abstraction used by the storage
// layer, with a pebble backed implementation for nodes and an in-memory one
// for tests and ephemeral runs.
package db

import (
	"errors"
	"fmt"
)

const (
	// TypePebble selects the pebble backend.
	TypePebble = "pebble"
	// TypeInMemory selects the in-memory backend.
	TypeInMemory = "inmemory"
)

var (
	// ErrKeyNotFound is returned by Get when the key does not exist.
	ErrKeyNotFound = errors.New("key not found")
	// ErrConflict is returned by Commit when a key read or written by the
	// transaction was modified after the transaction started.
	ErrConflict = errors.New("transaction conflict")
	// ErrTxDone is returned when using a transaction that was already
	// committed or discarded.
	ErrTxDone = errors.New("transaction already committed or discarded")
)

// Options configures a database backend.
type Options struct {
	Path string
}

// Reader is the read side shared by databases and transactions.
type Reader interface {
	// Get returns a copy of the value stored under key, or ErrKeyNotFound.
	Get(key []byte) ([]byte, error)
	// Iterate calls callback for every key with the given prefix, in
	// lexicographic order, until callback returns false. Keys passed to the
	// callback have the prefix removed.
	Iterate(prefix []byte, callback func(key, value []byte) bool) error
}

// WriteTx buffers writes until Commit. Reads observe the pending writes of
// the transaction.
type WriteTx interface {
	Reader
	Set(key, value []byte) error
	Delete(key []byte) error
	Commit() error
	// Discard drops the pending writes. It is safe to call after Commit.
	Discard()
}

// Database is a key-value store.
type Database interface {
	Reader
	WriteTx() WriteTx
	Compact() error
	Close() error
}

// Update runs fn inside a new write transaction and commits it if fn
// returns nil.
func Update(database Database, fn func(tx WriteTx) error) error {
	tx := database.WriteTx()
	defer tx.Discard()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cannot commit: %w", err)
	}
	return nil
}
