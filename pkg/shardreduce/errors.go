package shardreduce

import "errors"

// Sentinel errors for contract violations
var (
	// Run argument errors
	ErrInvalidMappers  = errors.New("number of mappers must be at least 1")
	ErrInvalidReducers = errors.New("number of reducers must be at least 1")
	ErrNilMapFunc      = errors.New("map function is nil")
	ErrNilReduceFunc   = errors.New("reduce function is nil")
	ErrNoInput         = errors.New("no input items")

	// Raised as panics from inside a phase
	ErrPartitionOutOfRange = errors.New("partition out of range")
	ErrKeyNotFound         = errors.New("key not found in shard")
	ErrStoreSealed         = errors.New("emit after sort")
	ErrStoreNotSorted      = errors.New("read before sort")

	ErrUnknownPartitioner = errors.New("unknown partitioner")
)
