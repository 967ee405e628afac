package shardreduce

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Config holds engine configuration
type Config struct {
	Logger  *log.Logger // Defaults to log.Default()
	Verbose bool        // Log phase transitions and dump shards after sorting
}

// Job describes one MapReduce run over a slice of inputs.
type Job[T any] struct {
	Items     []T
	Map       MapFunc[T]
	Mappers   int
	Reduce    ReduceFunc
	Reducers  int
	Partition PartitionFunc // nil selects DefaultHashPartition
}

// ShardStats describes one shard after the sort barrier.
type ShardStats struct {
	Keys   int `json:"keys"`
	Values int `json:"values"`
}

// Stats summarizes a completed run.
type Stats struct {
	RunID    string       `json:"run_id"`
	Items    int          `json:"items"`
	Mappers  int          `json:"mappers"`
	Reducers int          `json:"reducers"`
	Emitted  int          `json:"emitted"`
	Shards   []ShardStats `json:"shards"`

	MapDuration    time.Duration `json:"map_duration"`
	SortDuration   time.Duration `json:"sort_duration"`
	ReduceDuration time.Duration `json:"reduce_duration"`
}

// Keys returns the number of unique keys across all shards.
func (s *Stats) Keys() int {
	total := 0
	for _, sh := range s.Shards {
		total += sh.Keys
	}

	return total
}

// Run executes a MapReduce run with the default configuration. It returns
// only after every map and reduce worker has finished.
func Run[T any](items []T, mapFn MapFunc[T], numMappers int, reduceFn ReduceFunc, numReducers int, partitionFn PartitionFunc) error {
	_, err := RunJob(Config{}, Job[T]{
		Items:     items,
		Map:       mapFn,
		Mappers:   numMappers,
		Reduce:    reduceFn,
		Reducers:  numReducers,
		Partition: partitionFn,
	})

	return err
}

// RunJob executes the map phase, the sort barrier and the reduce phase in
// order. Arguments are validated before any worker starts, so an error means
// nothing ran.
func RunJob[T any](cfg Config, job Job[T]) (*Stats, error) {
	if err := job.validate(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}

	r := &run[T]{
		id:     uuid.New().String(),
		cfg:    cfg,
		job:    job,
		store:  NewStore(job.Reducers, job.Partition),
		logger: cfg.Logger,
	}
	if r.logger == nil {
		r.logger = log.Default()
	}

	return r.execute(), nil
}

func (j Job[T]) validate() error {
	switch {
	case j.Mappers < 1:
		return fmt.Errorf("%w: got %d", ErrInvalidMappers, j.Mappers)
	case j.Reducers < 1:
		return fmt.Errorf("%w: got %d", ErrInvalidReducers, j.Reducers)
	case j.Map == nil:
		return ErrNilMapFunc
	case j.Reduce == nil:
		return ErrNilReduceFunc
	case len(j.Items) == 0:
		return ErrNoInput
	}

	return nil
}

// run is the state of one execution. Nothing here outlives execute.
type run[T any] struct {
	id     string
	cfg    Config
	job    Job[T]
	store  *Store
	logger *log.Logger
}

func (r *run[T]) execute() *Stats {
	stats := &Stats{
		RunID:    r.id,
		Items:    len(r.job.Items),
		Mappers:  r.job.Mappers,
		Reducers: r.job.Reducers,
	}

	start := time.Now()
	stats.Emitted = r.mapPhase()
	stats.MapDuration = time.Since(start)

	start = time.Now()
	r.logf("Sorting %d shards", r.store.NumShards())
	r.store.Sort()
	stats.SortDuration = time.Since(start)

	stats.Shards = make([]ShardStats, r.store.NumShards())
	for i := range stats.Shards {
		keys, values := r.store.ShardLen(i)
		stats.Shards[i] = ShardStats{Keys: keys, Values: values}
	}

	if r.cfg.Verbose {
		if err := r.store.Dump(r.logger.Writer()); err != nil {
			r.logf("Shard dump failed: %v", err)
		}
	}

	start = time.Now()
	r.reducePhase()
	stats.ReduceDuration = time.Since(start)

	r.logf("Run complete: %d items, %d pairs emitted, %d keys", stats.Items, stats.Emitted, stats.Keys())

	return stats
}

// mapPhase runs one goroutine per mapper over a contiguous slice of the input
// and returns once all of them have joined.
func (r *run[T]) mapPhase() int {
	spans := splitContiguous(len(r.job.Items), r.job.Mappers)
	emitted := make([]int, len(spans))

	r.logf("Starting %d map workers over %d items", len(spans), len(r.job.Items))

	var wg sync.WaitGroup
	for w, sp := range spans {
		wg.Add(1)
		go func() {
			defer wg.Done()
			emitted[w] = r.mapWorker(w, sp)
		}()
	}
	wg.Wait()

	r.logf("Map workers joined")

	total := 0
	for _, n := range emitted {
		total += n
	}

	return total
}

func (r *run[T]) mapWorker(w int, sp span) int {
	if sp.len() == 0 {
		return 0
	}

	// Map functions may hand emit to their own goroutines.
	var count atomic.Int64
	emit := func(key, value string) {
		r.store.Emit(key, value)
		count.Add(1)
	}

	for _, item := range r.job.Items[sp.start:sp.end] {
		r.job.Map(item, emit)
	}

	r.logf("Map worker %d processed items [%d, %d), emitted %d pairs", w, sp.start, sp.end, count.Load())

	return int(count.Load())
}

// reducePhase runs exactly one goroutine per shard. Each goroutine is the only
// reader of its shard, which is why no lock is taken.
func (r *run[T]) reducePhase() {
	r.logf("Starting %d reduce workers", r.store.NumShards())

	var wg sync.WaitGroup
	for i := range r.store.shards {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.reduceWorker(i)
		}()
	}
	wg.Wait()

	r.logf("Reduce workers joined")
}

func (r *run[T]) reduceWorker(idx int) {
	groups := r.store.shards[idx].groups
	for _, g := range groups {
		r.job.Reduce(g.key, &Iterator{group: g, shard: idx}, idx)
	}

	r.logf("Reduce worker %d processed %d keys", idx, len(groups))
}

func (r *run[T]) logf(format string, args ...any) {
	if !r.cfg.Verbose {
		return
	}

	r.logger.Printf("[RUN:%s] "+format, append([]any{r.id}, args...)...)
}
