package shardreduce

import "iter"

// Iterator drains the sorted values of one key in one shard.
//
// It holds no lock. It is only valid inside the ReduceFunc call it was handed
// to, where the reduce worker running that call is the sole owner of the shard.
// The cursor lives on the key group, so two iterators for the same key share
// progress.
type Iterator struct {
	group *keyGroup
	shard int
}

// Key returns the key being drained.
func (it *Iterator) Key() string {
	return it.group.key
}

// Shard returns the shard index the key lives in.
func (it *Iterator) Shard() int {
	return it.shard
}

// Next returns the next value, or false once every value has been returned.
// It keeps returning false after exhaustion.
func (it *Iterator) Next() (string, bool) {
	return it.group.next()
}

// Len is the total number of values under the key.
func (it *Iterator) Len() int {
	return len(it.group.values)
}

// Remaining is the number of values Next has yet to return.
func (it *Iterator) Remaining() int {
	return len(it.group.values) - it.group.cursor
}

// All ranges over the remaining values, advancing the cursor as it goes.
func (it *Iterator) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			v, ok := it.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}
