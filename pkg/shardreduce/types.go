package shardreduce

// Emitter adds one value under one key. Map functions call it any number of
// times; it is safe for concurrent use by every map worker of a run.
type Emitter func(key, value string)

// MapFunc is called once per input item by exactly one map worker.
type MapFunc[T any] func(item T, emit Emitter)

// ReduceFunc is called once per unique key of a shard, in ascending key order.
// values drains that key's values in ascending order; shard is the index of the
// shard the key lives in.
type ReduceFunc func(key string, values *Iterator, shard int)

// PartitionFunc routes a key to a shard in [0, shards). It must be pure: map
// workers call it concurrently and the same input must always give the same
// shard.
type PartitionFunc func(key string, shards int) int

// KeyValue is a single reduce result.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Worker is a line-oriented job: Map sees one line of input at a time and
// Reduce writes its results through emit.
type Worker interface {
	Map(line string, emit Emitter)
	Reduce(key string, values *Iterator, emit Emitter)
	Description() string
}
