package shardreduce

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// DefaultHashPartition is the djb2 rolling hash (h = h*33 + b, seeded with
// 5381) over the key's bytes, reduced modulo shards.
func DefaultHashPartition(key string, shards int) int {
	var hash uint64 = 5381
	for i := 0; i < len(key); i++ {
		hash = hash*33 + uint64(key[i])
	}

	return int(hash % uint64(shards))
}

// FNVPartition computes the partition for a key using FNV-1a hash
func FNVPartition(key string, shards int) int {
	h := fnv.New32a()
	h.Write([]byte(key))

	return int(h.Sum32() % uint32(shards))
}

var partitioners = map[string]PartitionFunc{
	"djb2": DefaultHashPartition,
	"fnv":  FNVPartition,
}

// PartitionerByName returns a built-in partitioner.
func PartitionerByName(name string) (PartitionFunc, error) {
	fn, ok := partitioners[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPartitioner, name)
	}

	return fn, nil
}

// Partitioners lists the built-in partitioner names.
func Partitioners() []string {
	names := make([]string, 0, len(partitioners))
	for name := range partitioners {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
