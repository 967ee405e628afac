package storage

import (
	"bytes"
	"errors"
	"sort"
	"sync"
)

var errReadOnly = errors.New("write in read-only transaction")

// MemoryBackend implements Backend using in-memory maps (not persistent)
type MemoryBackend struct {
	buckets map[string]map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryBackend creates a new in-memory storage backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		buckets: make(map[string]map[string][]byte),
	}
}

// Update applies fn to a copy of the data and swaps it in only if fn succeeds.
func (m *MemoryBackend) Update(fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{buckets: cloneBuckets(m.buckets), writable: true}
	if err := fn(tx); err != nil {
		return err
	}
	m.buckets = tx.buckets

	return nil
}

// View executes fn under a read lock
func (m *MemoryBackend) View(fn func(tx Tx) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fn(&memoryTx{buckets: m.buckets})
}

// Close is a no-op for memory backend
func (m *MemoryBackend) Close() error {
	return nil
}

func cloneBuckets(src map[string]map[string][]byte) map[string]map[string][]byte {
	dst := make(map[string]map[string][]byte, len(src))
	for name, kvs := range src {
		b := make(map[string][]byte, len(kvs))
		for k, v := range kvs {
			b[k] = v
		}
		dst[name] = b
	}

	return dst
}

type memoryTx struct {
	buckets  map[string]map[string][]byte
	writable bool
}

func (t *memoryTx) CreateBucket(name []byte) (Bucket, error) {
	if !t.writable {
		return nil, errReadOnly
	}

	if _, exists := t.buckets[string(name)]; !exists {
		t.buckets[string(name)] = make(map[string][]byte)
	}

	return &memoryBucket{tx: t, name: string(name)}, nil
}

func (t *memoryTx) Bucket(name []byte) Bucket {
	if _, exists := t.buckets[string(name)]; !exists {
		return nil
	}

	return &memoryBucket{tx: t, name: string(name)}
}

func (t *memoryTx) DeleteBucket(name []byte) error {
	if !t.writable {
		return errReadOnly
	}

	delete(t.buckets, string(name))

	return nil
}

type memoryBucket struct {
	tx   *memoryTx
	name string
}

func (b *memoryBucket) Put(key, value []byte) error {
	if !b.tx.writable {
		return errReadOnly
	}

	// Copy value to prevent external modifications
	b.tx.buckets[b.name][string(key)] = bytes.Clone(value)

	return nil
}

func (b *memoryBucket) Get(key []byte) []byte {
	return b.tx.buckets[b.name][string(key)]
}

// ForEach visits keys in sorted order to match bbolt
func (b *memoryBucket) ForEach(fn func(k, v []byte) error) error {
	kvs := b.tx.buckets[b.name]

	keys := make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := fn([]byte(k), kvs[k]); err != nil {
			return err
		}
	}

	return nil
}
