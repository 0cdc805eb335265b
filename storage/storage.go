/*
Package storage persists the MACI message log and the state leaves of the
participants.

# Storage Organization

Every record is deterministic CBOR under one of the following prefixes:

  - m/ : message index (uint64 big endian) → Message
  - l/ : state index (uint64 big endian) → StateLeaf
  - c/ : "messages" → number of published messages

Messages are append-only: PublishMessage assigns consecutive indexes starting
at 0. State leaves are overwritten on every update; an index that was never
set reads as the blank leaf.
*/
package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vocdoni/maci-domainobjs/db"
	"github.com/vocdoni/maci-domainobjs/db/prefixeddb"
	"github.com/vocdoni/maci-domainobjs/domainobjs"
	"github.com/vocdoni/maci-domainobjs/log"
	"github.com/vocdoni/maci-domainobjs/types"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("invalid range")

	// Prefixes
	messagePrefix   = []byte("m/")
	stateLeafPrefix = []byte("l/")
	counterPrefix   = []byte("c/")

	messageCountKey = []byte("messages")
)

const cacheSize = 1000

// Storage keeps the message log and the state leaves.
type Storage struct {
	db db.Database
	// leaves is db scoped to stateLeafPrefix
	leaves *prefixeddb.PrefixedDatabase
	// publishLock serializes index allocation for new messages
	publishLock sync.Mutex
	// leafLock keeps the state leaf cache in step with the database
	leafLock sync.Mutex
	cache    *lru.Cache[string, any]
}

// New creates a new Storage instance on top of database.
func New(database db.Database) *Storage {
	cache, err := lru.New[string, any](cacheSize)
	if err != nil {
		log.Fatalf("failed to create LRU cache: %v", err)
	}
	return &Storage{
		db:     database,
		leaves: prefixeddb.NewPrefixedDatabase(database, stateLeafPrefix),
		cache:  cache,
	}
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}

func indexKey(index uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, index)
}

func cacheKey(prefix []byte, index uint64) string {
	return string(prefix) + fmt.Sprint(index)
}

// messageRecord is the stored form of a domainobjs.Message.
type messageRecord struct {
	IV   *types.BigInt   `cbor:"iv" json:"iv"`
	Data []*types.BigInt `cbor:"data" json:"data"`
}

// stateLeafRecord is the stored form of a domainobjs.StateLeaf.
type stateLeafRecord struct {
	PubKeyX            *types.BigInt `cbor:"pubKeyX" json:"pubKeyX"`
	PubKeyY            *types.BigInt `cbor:"pubKeyY" json:"pubKeyY"`
	VoteOptionTreeRoot *types.BigInt `cbor:"voteOptionTreeRoot" json:"voteOptionTreeRoot"`
	VoiceCreditBalance *types.BigInt `cbor:"voiceCreditBalance" json:"voiceCreditBalance"`
	Nonce              *types.BigInt `cbor:"nonce" json:"nonce"`
}

func newMessageRecord(msg *domainobjs.Message) *messageRecord {
	return &messageRecord{
		IV:   types.BigIntFrom(msg.IV()),
		Data: types.SliceOf(msg.Data(), types.BigIntFrom),
	}
}

func (r *messageRecord) message() (*domainobjs.Message, error) {
	if r.IV == nil {
		return nil, fmt.Errorf("message record without iv")
	}
	return domainobjs.NewMessage(r.IV.MathBigInt(), types.BigInts(r.Data))
}

func newStateLeafRecord(leaf *domainobjs.StateLeaf) *stateLeafRecord {
	return &stateLeafRecord{
		PubKeyX:            types.BigIntFrom(leaf.PubKey.X()),
		PubKeyY:            types.BigIntFrom(leaf.PubKey.Y()),
		VoteOptionTreeRoot: types.BigIntFrom(leaf.VoteOptionTreeRoot),
		VoiceCreditBalance: types.BigIntFrom(leaf.VoiceCreditBalance),
		Nonce:              types.BigIntFrom(leaf.Nonce),
	}
}

func (r *stateLeafRecord) stateLeaf() (*domainobjs.StateLeaf, error) {
	values := []*types.BigInt{r.PubKeyX, r.PubKeyY, r.VoteOptionTreeRoot, r.VoiceCreditBalance, r.Nonce}
	for _, v := range values {
		if v == nil {
			return nil, fmt.Errorf("incomplete state leaf record")
		}
	}
	pubKey, err := domainobjs.NewPublicKey(r.PubKeyX.MathBigInt(), r.PubKeyY.MathBigInt())
	if err != nil {
		return nil, err
	}
	return domainobjs.NewStateLeaf(pubKey,
		r.VoteOptionTreeRoot.MathBigInt(),
		r.VoiceCreditBalance.MathBigInt(),
		r.Nonce.MathBigInt())
}

// setRecord encodes record and writes it under key inside tx.
func setRecord(tx db.WriteTx, key []byte, record any) error {
	data, err := EncodeRecord(record)
	if err != nil {
		return fmt.Errorf("could not encode record: %w", err)
	}
	return tx.Set(key, data)
}

// getRecord reads key from r and decodes it into out. It returns
// ErrNotFound if the key does not exist.
func getRecord(r db.Reader, key []byte, out any) error {
	data, err := r.Get(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := DecodeRecord(data, out); err != nil {
		return fmt.Errorf("could not decode record: %w", err)
	}
	return nil
}

func readCounter(r db.Reader, key []byte) (uint64, error) {
	data, err := prefixeddb.NewPrefixedReader(r, counterPrefix).Get(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("corrupted counter %q", key)
	}
	return binary.BigEndian.Uint64(data), nil
}

// PublishMessage appends msg to the message log and returns its index.
func (s *Storage) PublishMessage(msg *domainobjs.Message) (uint64, error) {
	if msg == nil {
		return 0, fmt.Errorf("%w: missing message", domainobjs.ErrValidation)
	}
	s.publishLock.Lock()
	defer s.publishLock.Unlock()

	var index uint64
	err := db.Update(s.db, func(tx db.WriteTx) error {
		var err error
		if index, err = readCounter(tx, messageCountKey); err != nil {
			return err
		}
		if err := setRecord(prefixeddb.NewPrefixedWriteTx(tx, messagePrefix), indexKey(index), newMessageRecord(msg)); err != nil {
			return err
		}
		return prefixeddb.NewPrefixedWriteTx(tx, counterPrefix).Set(messageCountKey, indexKey(index+1))
	})
	if err != nil {
		return 0, fmt.Errorf("could not publish message: %w", err)
	}
	s.cache.Add(cacheKey(messagePrefix, index), msg.Copy())
	log.Debugw("message published", "index", index)
	return index, nil
}

// Message returns the message at index, or ErrNotFound.
func (s *Storage) Message(index uint64) (*domainobjs.Message, error) {
	if cached, ok := s.cache.Get(cacheKey(messagePrefix, index)); ok {
		return cached.(*domainobjs.Message).Copy(), nil
	}
	record := &messageRecord{}
	if err := getRecord(prefixeddb.NewPrefixedReader(s.db, messagePrefix), indexKey(index), record); err != nil {
		return nil, err
	}
	msg, err := record.message()
	if err != nil {
		return nil, fmt.Errorf("corrupted message %d: %w", index, err)
	}
	s.cache.Add(cacheKey(messagePrefix, index), msg.Copy())
	return msg, nil
}

// MessageCount returns the number of published messages.
func (s *Storage) MessageCount() (uint64, error) {
	return readCounter(s.db, messageCountKey)
}

// Messages returns the messages with index in [from, to).
func (s *Storage) Messages(from, to uint64) ([]*domainobjs.Message, error) {
	count, err := s.MessageCount()
	if err != nil {
		return nil, err
	}
	if from > to || to > count {
		return nil, fmt.Errorf("%w: [%d, %d) with %d messages", ErrInvalidRange, from, to, count)
	}
	msgs := make([]*domainobjs.Message, 0, to-from)
	for i := from; i < to; i++ {
		msg, err := s.Message(i)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// SetStateLeaf stores leaf at index, replacing any previous leaf.
func (s *Storage) SetStateLeaf(index uint64, leaf *domainobjs.StateLeaf) error {
	if leaf == nil {
		return fmt.Errorf("%w: missing state leaf", domainobjs.ErrValidation)
	}
	if err := leaf.Validate(); err != nil {
		return err
	}
	s.leafLock.Lock()
	defer s.leafLock.Unlock()
	if err := db.Update(s.leaves, func(tx db.WriteTx) error {
		return setRecord(tx, indexKey(index), newStateLeafRecord(leaf))
	}); err != nil {
		return fmt.Errorf("could not set state leaf: %w", err)
	}
	s.cache.Add(cacheKey(stateLeafPrefix, index), leaf.Copy())
	return nil
}

// StateLeaf returns the leaf stored at index, or ErrNotFound.
func (s *Storage) StateLeaf(index uint64) (*domainobjs.StateLeaf, error) {
	if cached, ok := s.cache.Get(cacheKey(stateLeafPrefix, index)); ok {
		return cached.(*domainobjs.StateLeaf).Copy(), nil
	}
	s.leafLock.Lock()
	defer s.leafLock.Unlock()
	if cached, ok := s.cache.Get(cacheKey(stateLeafPrefix, index)); ok {
		return cached.(*domainobjs.StateLeaf).Copy(), nil
	}
	record := &stateLeafRecord{}
	if err := getRecord(s.leaves, indexKey(index), record); err != nil {
		return nil, err
	}
	leaf, err := record.stateLeaf()
	if err != nil {
		return nil, fmt.Errorf("corrupted state leaf %d: %w", index, err)
	}
	s.cache.Add(cacheKey(stateLeafPrefix, index), leaf.Copy())
	return leaf, nil
}

// StateLeafOrBlank returns the leaf stored at index, or the blank leaf for
// emptyVoteOptionTreeRoot if none was set.
func (s *Storage) StateLeafOrBlank(index uint64, emptyVoteOptionTreeRoot *big.Int) (*domainobjs.StateLeaf, error) {
	leaf, err := s.StateLeaf(index)
	if errors.Is(err, ErrNotFound) {
		return domainobjs.GenBlankLeaf(emptyVoteOptionTreeRoot)
	}
	return leaf, err
}

// StateLeafIndexes returns the indexes that hold a state leaf, in ascending
// order.
func (s *Storage) StateLeafIndexes() ([]uint64, error) {
	var indexes []uint64
	err := s.leaves.Iterate(nil, func(key, _ []byte) bool {
		if len(key) == 8 {
			indexes = append(indexes, binary.BigEndian.Uint64(key))
		}
		return true
	})
	return indexes, err
}
