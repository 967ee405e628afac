// Package executor runs a line-oriented shardreduce.Worker over input files,
// one map input per file.
package executor

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sync"

	"pkg.jsn.cam/shardreduce/pkg/executors"
	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
	"pkg.jsn.cam/shardreduce/pkg/sink"
)

const maxLineSize = 1024 * 1024

// Config describes one execution.
type Config struct {
	Executor    string             // Registered executor name
	Worker      shardreduce.Worker // Used instead of Executor when set
	Inputs      []string           // Input file paths
	Mappers     int                // Map workers (default: 10)
	Reducers    int                // Reduce workers and shards (default: 10)
	Partitioner string             // Partitioner name (default: djb2)
	Logger      *log.Logger
	Verbose     bool
}

// Result is the outcome of a successful execution.
type Result struct {
	Stats      *shardreduce.Stats
	Sink       *sink.Sink
	InputBytes int64
}

// Metadata describes the execution for sink.Save.
func (r *Result) Metadata(cfg Config) sink.Metadata {
	return sink.Metadata{
		RunID:    r.Stats.RunID,
		Executor: cfg.Executor,
		Inputs:   cfg.Inputs,
		Reducers: r.Stats.Reducers,
		Stats:    r.Stats,
	}
}

// Execute checks every input exists, then runs the worker over them. A read
// error in any map worker fails the whole execution; no partial result is
// returned.
func Execute(cfg Config) (*Result, error) {
	worker, partition, err := resolve(&cfg)
	if err != nil {
		return nil, err
	}

	var inputBytes int64
	for _, path := range cfg.Inputs {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInputNotFound, path, err)
		}
		inputBytes += info.Size()
	}

	out := sink.New(cfg.Reducers)
	var inputErr firstError

	mapFn := func(path string, emit shardreduce.Emitter) {
		if err := mapFile(path, worker, emit); err != nil {
			inputErr.set(err)
		}
	}

	reduceFn := func(key string, values *shardreduce.Iterator, shard int) {
		worker.Reduce(key, values, out.Emitter(shard))
	}

	stats, err := shardreduce.RunJob(shardreduce.Config{Logger: cfg.Logger, Verbose: cfg.Verbose}, shardreduce.Job[string]{
		Items:     cfg.Inputs,
		Map:       mapFn,
		Mappers:   cfg.Mappers,
		Reduce:    reduceFn,
		Reducers:  cfg.Reducers,
		Partition: partition,
	})
	if err != nil {
		return nil, err
	}

	if err := inputErr.get(); err != nil {
		return nil, err
	}

	return &Result{Stats: stats, Sink: out, InputBytes: inputBytes}, nil
}

func resolve(cfg *Config) (shardreduce.Worker, shardreduce.PartitionFunc, error) {
	if len(cfg.Inputs) == 0 {
		return nil, nil, ErrNoInputs
	}

	if cfg.Mappers == 0 {
		cfg.Mappers = 10
	}
	if cfg.Reducers == 0 {
		cfg.Reducers = 10
	}
	if cfg.Partitioner == "" {
		cfg.Partitioner = "djb2"
	}

	if cfg.Mappers < 1 {
		return nil, nil, fmt.Errorf("%w: got %d", shardreduce.ErrInvalidMappers, cfg.Mappers)
	}
	if cfg.Reducers < 1 {
		return nil, nil, fmt.Errorf("%w: got %d", shardreduce.ErrInvalidReducers, cfg.Reducers)
	}

	partition, err := shardreduce.PartitionerByName(cfg.Partitioner)
	if err != nil {
		return nil, nil, err
	}

	worker := cfg.Worker
	if worker == nil {
		if cfg.Executor == "" {
			return nil, nil, ErrNoWorker
		}

		worker, err = executors.Get(cfg.Executor)
		if err != nil {
			return nil, nil, err
		}
	}

	return worker, partition, nil
}

// mapFile feeds every line of the file to worker.Map.
func mapFile(path string, worker shardreduce.Worker, emit shardreduce.Emitter) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		worker.Map(scanner.Text(), emit)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}

	return nil
}

// firstError keeps the first error reported by any map worker.
type firstError struct {
	mu  sync.Mutex
	err error
}

func (f *firstError) set(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err == nil {
		f.err = err
	}
}

func (f *firstError) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.err
}
