// Package boltstore provides a BBolt-backed credentials.Store. Each profile is a
// bucket, so clearing a session is a single bucket delete.
package boltstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jrsteele09/go-admin-session/credentials"
	"go.etcd.io/bbolt"
)

var _ credentials.Store = (*Store)(nil)

// Store implements credentials.Store backed by a BBolt database.
type Store struct {
	db      *bbolt.DB
	profile []byte
}

// New returns a Store for profile backed by the given BBolt database.
func New(db *bbolt.DB, profile string) *Store {
	return &Store{db: db, profile: []byte(profile)}
}

// Open opens (creating if needed) the BBolt file at path and returns a Store for profile.
func Open(path, profile string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating session directory: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return New(db, profile), nil
}

// DB returns the underlying database, e.g. to open a second profile in the same file.
func (s *Store) DB() *bbolt.DB {
	return s.db
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.profile)
		if b == nil {
			return nil
		}
		if data := b.Get([]byte(key)); data != nil {
			value, found = string(data), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("boltstore.Get %s: %w", key, err)
	}
	return value, found, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.profile)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("boltstore.Set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(s.profile) == nil {
			return nil
		}
		return tx.DeleteBucket(s.profile)
	})
	if err != nil {
		return fmt.Errorf("boltstore.Clear: %w", err)
	}
	return nil
}
