package sink

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
	"pkg.jsn.cam/shardreduce/pkg/storage"
)

func filledSink() *Sink {
	s := New(3)
	s.Emitter(2)("zebra", "1")
	s.Emitter(0)("fox", "2")
	s.Emitter(0)("the", "2")
	s.Emitter(1)("lazy", "1")

	return s
}

func TestSink_RecordsInShardOrder(t *testing.T) {
	t.Parallel()

	s := filledSink()

	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}

	want := []string{"fox 2", "the 2", "lazy 1", "zebra 1"}
	if got := s.Lines(); !slices.Equal(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}

	recs := s.Records()
	if recs[3].Shard != 2 || recs[2].Shard != 1 {
		t.Errorf("records carry wrong shards: %+v", recs)
	}
}

func TestSink_CollectsFromRun(t *testing.T) {
	t.Parallel()

	s := New(4)
	mapFn := func(line string, emit shardreduce.Emitter) { emit(line, "1") }
	reduceFn := func(key string, values *shardreduce.Iterator, shard int) {
		s.Emitter(shard)(key, "seen")
	}

	items := []string{"a", "b", "c", "d", "e", "a"}
	if err := shardreduce.Run(items, mapFn, 3, reduceFn, 4, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if s.Len() != 5 {
		t.Errorf("sink holds %d records, want 5", s.Len())
	}

	for _, rec := range s.Records() {
		if want := shardreduce.DefaultHashPartition(rec.Key, 4); rec.Shard != want {
			t.Errorf("record %q in shard %d, want %d", rec.Key, rec.Shard, want)
		}
	}
}

func saveLoadSuite(t *testing.T, backend storage.Backend) {
	t.Helper()

	s := filledSink()
	meta := Metadata{RunID: "run-1", Executor: "wordcount", Inputs: []string{"a.txt"}, Reducers: 3}

	if err := s.Save(backend, meta); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	gotMeta, records, err := Load(backend)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if gotMeta.Version != shardreduce.Version || gotMeta.RunID != "run-1" || gotMeta.Executor != "wordcount" {
		t.Errorf("Load metadata = %+v", gotMeta)
	}

	if gotMeta.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set by Save")
	}

	if !slices.Equal(records, s.Records()) {
		t.Errorf("Load records = %v, want %v", records, s.Records())
	}

	// A second save replaces the first
	smaller := New(1)
	smaller.Emitter(0)("only", "1")
	if err := smaller.Save(backend, Metadata{RunID: "run-2", Reducers: 1}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	gotMeta, records, err = Load(backend)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if gotMeta.RunID != "run-2" || len(records) != 1 || records[0].Key != "only" {
		t.Errorf("after overwrite got meta %+v and records %v", gotMeta, records)
	}
}

func TestSaveLoad_Memory(t *testing.T) {
	t.Parallel()
	saveLoadSuite(t, storage.NewMemoryBackend())
}

func TestSaveLoad_Bolt(t *testing.T) {
	t.Parallel()

	backend, err := storage.OpenBoltBackend(filepath.Join(t.TempDir(), "results.db"), storage.BoltConfig{})
	if err != nil {
		t.Fatalf("OpenBoltBackend failed: %v", err)
	}
	defer backend.Close()

	saveLoadSuite(t, backend)
}

func TestLoad_Empty(t *testing.T) {
	t.Parallel()

	_, _, err := Load(storage.NewMemoryBackend())
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("Load on empty backend error = %v, want %v", err, ErrNoResults)
	}
}

func TestLoad_IncompatibleVersion(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemoryBackend()
	if err := New(1).Save(backend, Metadata{Version: "v7.0.0"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, _, err := Load(backend)
	if !errors.Is(err, ErrIncompatibleVersion) {
		t.Errorf("Load error = %v, want %v", err, ErrIncompatibleVersion)
	}
}

func TestLoad_CorruptRecord(t *testing.T) {
	t.Parallel()

	backend := storage.NewMemoryBackend()
	if err := filledSink().Save(backend, Metadata{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	backend.Update(func(tx storage.Tx) error {
		return tx.Bucket(resultsBucket).Put(recordKey(0, 0), []byte("{not json"))
	})

	_, _, err := Load(backend)
	if !errors.Is(err, ErrCorruptRecord) {
		t.Errorf("Load error = %v, want %v", err, ErrCorruptRecord)
	}
}
