// Package state owns everything the application persists between sessions:
// the profile record, the favorites set, and the session container that
// mediates all mutations to them.
package state

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketName = "state"

	// KeyProfile and KeyFavorites are the store keys for the two persisted
	// records. Values are JSON documents.
	KeyProfile   = "profile"
	KeyFavorites = "favorites"
)

// Store is a durable string-keyed, JSON-valued store backed by bbolt.
// Reads are best-effort: a missing key yields nil, and callers substitute
// defaults for anything unreadable.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the store file at the given path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the stored value for key, or nil when absent.
func (s *Store) Get(key string) []byte {
	var value []byte
	s.db.View(func(tx *bolt.Tx) error {
		if stored := tx.Bucket([]byte(bucketName)).Get([]byte(key)); stored != nil {
			value = append([]byte(nil), stored...)
		}
		return nil
	})
	return value
}

// Put writes the value under key.
func (s *Store) Put(key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Close flushes and closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}
