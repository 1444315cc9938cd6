package store

// Package store caches rendered analyses in a leveldb database, keyed by a
// digest of the configuration and the input sentence.

import (
	"errors"

	"kintoki/util"

	"github.com/syndtr/goleveldb/leveldb"
)

// Store is safe for concurrent use
type Store struct {
	db *leveldb.DB
	// Scope separates entries written under different configurations
	Scope string
}

func Open(filename, scope string) (*Store, error) {
	db, err := leveldb.OpenFile(filename, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db, scope}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) key(input string) []byte {
	return []byte(util.MD5String(s.Scope, input))
}

func (s *Store) Get(input string) (string, bool, error) {
	data, err := s.db.Get(s.key(input), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func (s *Store) Put(input, output string) error {
	return s.db.Put(s.key(input), []byte(output), nil)
}
