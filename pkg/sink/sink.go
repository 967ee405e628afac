// Package sink collects reduce output and persists it to a storage backend.
package sink

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
	"pkg.jsn.cam/shardreduce/pkg/storage"
)

var (
	ErrNoResults           = errors.New("no stored results")
	ErrIncompatibleVersion = errors.New("incompatible result version")
	ErrCorruptRecord       = errors.New("corrupt result record")
)

var (
	metaBucket    = []byte("meta")
	resultsBucket = []byte("results")
	runKey        = []byte("run")
)

// Record is one reduce output together with the shard that produced it.
type Record struct {
	Shard int    `json:"shard"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Metadata describes the run that produced a set of stored results.
type Metadata struct {
	Version   string             `json:"version"`
	RunID     string             `json:"run_id"`
	Executor  string             `json:"executor"`
	Inputs    []string           `json:"inputs"`
	Reducers  int                `json:"reducers"`
	CreatedAt time.Time          `json:"created_at"`
	Stats     *shardreduce.Stats `json:"stats,omitempty"`
}

// Sink buffers reduce output per shard. Each shard's buffer is written only by
// the reduce worker that owns the shard, so no locking is needed while the
// reduce phase runs. Read it only after the run has returned.
type Sink struct {
	shards [][]shardreduce.KeyValue
}

// New creates a sink for a run with the given number of reducers.
func New(reducers int) *Sink {
	return &Sink{shards: make([][]shardreduce.KeyValue, reducers)}
}

// Emitter returns the emit function for one shard.
func (s *Sink) Emitter(shard int) shardreduce.Emitter {
	return func(key, value string) {
		s.shards[shard] = append(s.shards[shard], shardreduce.KeyValue{Key: key, Value: value})
	}
}

// Len returns the total number of records.
func (s *Sink) Len() int {
	n := 0
	for _, kvs := range s.shards {
		n += len(kvs)
	}

	return n
}

// Records returns every record in shard order, then emission order.
func (s *Sink) Records() []Record {
	records := make([]Record, 0, s.Len())
	for shard, kvs := range s.shards {
		for _, kv := range kvs {
			records = append(records, Record{Shard: shard, Key: kv.Key, Value: kv.Value})
		}
	}

	return records
}

// Lines formats records as "key value", the word count output format.
func (s *Sink) Lines() []string {
	return FormatLines(s.Records())
}

// FormatLines formats records as "key value".
func FormatLines(records []Record) []string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.Key + " " + r.Value
	}

	return lines
}

// Save replaces any results held by the backend with this sink's records and
// meta, in one transaction.
func (s *Sink) Save(backend storage.Backend, meta Metadata) error {
	if meta.Version == "" {
		meta.Version = shardreduce.Version
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}

	return backend.Update(func(tx storage.Tx) error {
		if err := tx.DeleteBucket(resultsBucket); err != nil {
			return err
		}

		results, err := tx.CreateBucket(resultsBucket)
		if err != nil {
			return err
		}

		seq := uint32(0)
		for shard, kvs := range s.shards {
			for _, kv := range kvs {
				rec := Record{Shard: shard, Key: kv.Key, Value: kv.Value}
				if err := storage.PutJSON(results, recordKey(shard, seq), rec); err != nil {
					return fmt.Errorf("store record %q: %w", kv.Key, err)
				}
				seq++
			}
		}

		metaBkt, err := tx.CreateBucket(metaBucket)
		if err != nil {
			return err
		}

		return storage.PutJSON(metaBkt, runKey, meta)
	})
}

// Load reads results written by Save, in the order Save wrote them.
func Load(backend storage.Backend) (Metadata, []Record, error) {
	var meta Metadata
	var records []Record

	err := backend.View(func(tx storage.Tx) error {
		metaBkt := tx.Bucket(metaBucket)
		if metaBkt == nil {
			return ErrNoResults
		}

		found, err := storage.GetJSON(metaBkt, runKey, &meta)
		if err != nil {
			return err
		}
		if !found {
			return ErrNoResults
		}

		ok, err := shardreduce.IsCompatibleVersion(meta.Version)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIncompatibleVersion, err)
		}
		if !ok {
			return fmt.Errorf("%w: stored %s, running %s", ErrIncompatibleVersion, meta.Version, shardreduce.Version)
		}

		results := tx.Bucket(resultsBucket)
		if results == nil {
			return nil
		}

		return results.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("%w: key %x: %v", ErrCorruptRecord, k, err)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return Metadata{}, nil, err
	}

	return meta, records, nil
}

// recordKey sorts by shard, then by the order records were saved.
func recordKey(shard int, seq uint32) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint32(key[:4], uint32(shard))
	binary.BigEndian.PutUint32(key[4:], seq)

	return key
}
