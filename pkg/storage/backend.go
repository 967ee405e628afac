package storage

import "errors"

var ErrBucketNotFound = errors.New("bucket not found")

// Backend is a transactional bucketed key-value store. Keys iterate in
// byte-wise ascending order in every implementation.
type Backend interface {
	// Update runs fn in a read-write transaction; a returned error rolls it back
	Update(fn func(tx Tx) error) error
	// View runs fn in a read-only transaction
	View(fn func(tx Tx) error) error
	Close() error
}

// Tx is a transaction over a Backend
type Tx interface {
	// CreateBucket returns the named bucket, creating it if needed
	CreateBucket(name []byte) (Bucket, error)
	// Bucket returns nil if the bucket does not exist
	Bucket(name []byte) Bucket
	// DeleteBucket is a no-op for a missing bucket
	DeleteBucket(name []byte) error
}

// Bucket is a single namespace of keys inside a transaction
type Bucket interface {
	Put(key, value []byte) error
	// Get returns nil for a missing key
	Get(key []byte) []byte
	ForEach(fn func(k, v []byte) error) error
}
