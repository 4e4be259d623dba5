package store

import (
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

const boltBucketName = "collections"

var errBucketNotFound = errors.New("store: bolt bucket not found")

// BoltBackend keeps every collection as one value in a single bbolt bucket.
type BoltBackend struct {
	db *bolt.DB
}

// OpenBoltBackend opens (or creates) the database file at path.
func OpenBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0600, bolt.DefaultOptions)
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Get(key string) (data []byte, ok bool, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketName))
		if bucket == nil {
			return errBucketNotFound
		}
		v := bucket.Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		ok = true
		return nil
	})
	return data, ok, err
}

func (b *BoltBackend) Set(key string, data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketName))
		if bucket == nil {
			return errBucketNotFound
		}
		return bucket.Put([]byte(key), data)
	})
}

// Close releases the database file lock.
func (b *BoltBackend) Close() error { return b.db.Close() }
