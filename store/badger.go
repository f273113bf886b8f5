package store

import (
	"os"

	"github.com/dgraph-io/badger/v3"
)

// flagKey is the only key walletcard writes. Value presence is the flag; the
// stored bytes are informational.
var flagKey = []byte("session/connected")

// BadgerStore is the on-disk FlagStore, backed by a BadgerDB instance under
// the walletcard data directory so the flag survives restarts.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (creating if needed) the flag database at dataDir.
func NewBadgerStore(dataDir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dataDir, 0774); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dataDir)
	opts.SyncWrites = true
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get() (bool, error) {
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(flagKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (s *BadgerStore) Set() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(flagKey, []byte("true"))
	})
}

func (s *BadgerStore) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(flagKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
