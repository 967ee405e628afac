package storage

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go"
	bolt "go.etcd.io/bbolt"
)

// BoltConfig controls how a bolt file is opened.
type BoltConfig struct {
	LockTimeout time.Duration // Per attempt wait for the file lock (default: 1s)
	Attempts    uint          // Attempts before giving up (default: 3)
}

// BoltBackend implements Backend using bbolt
type BoltBackend struct {
	db *bolt.DB
}

// OpenBoltBackend opens (or creates) a bolt database. Another process holding
// the file lock makes an attempt time out; those attempts are retried with
// backoff.
func OpenBoltBackend(dbPath string, cfg BoltConfig) (*BoltBackend, error) {
	if cfg.LockTimeout == 0 {
		cfg.LockTimeout = time.Second
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	var db *bolt.DB
	err := retry.Do(
		func() error {
			var err error
			db, err = bolt.Open(dbPath, 0600, &bolt.Options{Timeout: cfg.LockTimeout})
			return err
		},
		retry.Attempts(cfg.Attempts),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, bolt.ErrTimeout)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[STORAGE] Opening %s failed (attempt %d): %v", dbPath, n+1, err)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("open bbolt database: %w", err)
	}

	return &BoltBackend{db: db}, nil
}

// Path returns the database file path.
func (b *BoltBackend) Path() string {
	return b.db.Path()
}

func (b *BoltBackend) Update(fn func(tx Tx) error) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

func (b *BoltBackend) View(fn func(tx Tx) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx: tx})
	})
}

// Close closes the database
func (b *BoltBackend) Close() error {
	return b.db.Close()
}

type boltTx struct {
	tx *bolt.Tx
}

func (t *boltTx) CreateBucket(name []byte) (Bucket, error) {
	bkt, err := t.tx.CreateBucketIfNotExists(name)
	if err != nil {
		return nil, err
	}

	return boltBucket{bkt}, nil
}

func (t *boltTx) Bucket(name []byte) Bucket {
	bkt := t.tx.Bucket(name)
	if bkt == nil {
		return nil
	}

	return boltBucket{bkt}
}

func (t *boltTx) DeleteBucket(name []byte) error {
	err := t.tx.DeleteBucket(name)
	if errors.Is(err, bolt.ErrBucketNotFound) {
		return nil
	}

	return err
}

// boltBucket wraps a bolt bucket. Slices returned by Get are only valid for the
// life of the transaction.
type boltBucket struct {
	b *bolt.Bucket
}

func (b boltBucket) Put(key, value []byte) error {
	return b.b.Put(key, value)
}

func (b boltBucket) Get(key []byte) []byte {
	return b.b.Get(key)
}

func (b boltBucket) ForEach(fn func(k, v []byte) error) error {
	return b.b.ForEach(fn)
}
