package shardreduce

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

const defaultShardCapacity = 128

// keyGroup holds every value emitted under one key within one shard.
type keyGroup struct {
	key    string
	values []string
	cursor int
}

// shard is one partition of the key space. mu guards groups and index while
// map workers are emitting; after Sort the shard belongs to a single reduce
// worker and is read without locking.
type shard struct {
	mu     sync.Mutex
	groups []*keyGroup
	index  map[string]*keyGroup
}

// Store is the run-scoped array of shards.
//
// Lifecycle: Emit is called concurrently during the map phase, Sort is called
// once by the coordinator after every map worker has returned, and Next is
// then called only by the reduce worker that owns the shard. That ordering is
// the only thing making the unlocked reads in Next safe.
type Store struct {
	shards    []shard
	partition PartitionFunc
	sealed    atomic.Bool
}

// NewStore allocates numShards empty shards. A nil partition selects
// DefaultHashPartition.
func NewStore(numShards int, partition PartitionFunc) *Store {
	if partition == nil {
		partition = DefaultHashPartition
	}

	s := &Store{
		shards:    make([]shard, numShards),
		partition: partition,
	}
	for i := range s.shards {
		s.shards[i].groups = make([]*keyGroup, 0, defaultShardCapacity)
		s.shards[i].index = make(map[string]*keyGroup, defaultShardCapacity)
	}

	return s
}

// NumShards returns the fixed shard count of the store.
func (s *Store) NumShards() int {
	return len(s.shards)
}

// ShardFor returns the shard a key is routed to.
func (s *Store) ShardFor(key string) int {
	idx := s.partition(key, len(s.shards))
	if idx < 0 || idx >= len(s.shards) {
		panic(fmt.Errorf("%w: partition(%q, %d) returned %d", ErrPartitionOutOfRange, key, len(s.shards), idx))
	}

	return idx
}

// Emit appends value to the key's group in its shard, creating the group on
// first use. Duplicates are kept.
func (s *Store) Emit(key, value string) {
	if s.sealed.Load() {
		panic(fmt.Errorf("%w: key %q", ErrStoreSealed, key))
	}

	sh := &s.shards[s.ShardFor(key)]

	sh.mu.Lock()
	defer sh.mu.Unlock()

	if g, ok := sh.index[key]; ok {
		g.values = append(g.values, value)
		return
	}

	g := &keyGroup{key: key, values: []string{value}}
	sh.groups = append(sh.groups, g)
	sh.index[key] = g
}

// Sort orders every shard's groups by key and every group's values, both
// byte-wise ascending, and resets all cursors. It must run single-threaded
// after the map phase has joined; afterwards Emit panics.
func (s *Store) Sort() {
	s.sealed.Store(true)

	for i := range s.shards {
		sh := &s.shards[i]
		sort.Slice(sh.groups, func(a, b int) bool {
			return sh.groups[a].key < sh.groups[b].key
		})

		for _, g := range sh.groups {
			sort.Strings(g.values)
			g.cursor = 0
		}
	}
}

// Sorted reports whether Sort has run.
func (s *Store) Sorted() bool {
	return s.sealed.Load()
}

// Keys returns the keys of a shard in ascending order.
func (s *Store) Keys(shardIdx int) []string {
	s.mustBeSorted()

	groups := s.shards[shardIdx].groups
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.key
	}

	return keys
}

// Next returns the value under the key's cursor and advances it, or false once
// the group is drained. Calling it for a key the shard does not hold panics.
func (s *Store) Next(key string, shardIdx int) (string, bool) {
	return s.group(key, shardIdx).next()
}

// Iterator returns a pull iterator bound to one key of one shard.
func (s *Store) Iterator(key string, shardIdx int) *Iterator {
	return &Iterator{group: s.group(key, shardIdx), shard: shardIdx}
}

// ShardLen returns the number of keys and the number of values held by a shard.
func (s *Store) ShardLen(shardIdx int) (keys, values int) {
	sh := &s.shards[shardIdx]

	sh.mu.Lock()
	defer sh.mu.Unlock()

	for _, g := range sh.groups {
		values += len(g.values)
	}

	return len(sh.groups), values
}

// Dump writes every shard's keys and values, one group per line.
func (s *Store) Dump(w io.Writer) error {
	for i := range s.shards {
		sh := &s.shards[i]
		if _, err := fmt.Fprintf(w, "shard %d: %d keys\n", i, len(sh.groups)); err != nil {
			return err
		}

		for _, g := range sh.groups {
			if _, err := fmt.Fprintf(w, "  %s (%d): %s\n", g.key, len(g.values), strings.Join(g.values, " ")); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Store) group(key string, shardIdx int) *keyGroup {
	s.mustBeSorted()

	if shardIdx < 0 || shardIdx >= len(s.shards) {
		panic(fmt.Errorf("%w: shard %d of %d", ErrPartitionOutOfRange, shardIdx, len(s.shards)))
	}

	g, ok := s.shards[shardIdx].index[key]
	if !ok {
		panic(fmt.Errorf("%w: key %q, shard %d", ErrKeyNotFound, key, shardIdx))
	}

	return g
}

func (s *Store) mustBeSorted() {
	if !s.sealed.Load() {
		panic(ErrStoreNotSorted)
	}
}

func (g *keyGroup) next() (string, bool) {
	if g.cursor >= len(g.values) {
		return "", false
	}

	v := g.values[g.cursor]
	g.cursor++

	return v, true
}
