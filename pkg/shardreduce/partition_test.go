package shardreduce

import (
	"errors"
	"testing"
)

func TestDefaultHashPartition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		key    string
		shards int
		want   int
	}{
		{"empty key", "", 7, 5381 % 7},
		{"single byte", "a", 10, (5381*33 + 'a') % 10},
		{"two bytes", "ab", 13, ((5381*33+'a')*33 + 'b') % 13},
		{"single shard", "anything", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DefaultHashPartition(tt.key, tt.shards); got != tt.want {
				t.Errorf("DefaultHashPartition(%q, %d) = %d, want %d", tt.key, tt.shards, got, tt.want)
			}
		})
	}
}

func TestPartitioners_PureAndInRange(t *testing.T) {
	t.Parallel()

	keys := []string{"", "hello", "world", "the", "quick", "fox", "\x00\xff", "a long key with spaces"}

	for _, name := range Partitioners() {
		fn, err := PartitionerByName(name)
		if err != nil {
			t.Fatalf("PartitionerByName(%q) failed: %v", name, err)
		}

		for _, shards := range []int{1, 2, 4, 10, 100} {
			for _, key := range keys {
				p1 := fn(key, shards)
				p2 := fn(key, shards)

				if p1 != p2 {
					t.Errorf("%s not consistent for %q: got %d and %d", name, key, p1, p2)
				}

				if p1 < 0 || p1 >= shards {
					t.Errorf("%s(%q, %d) = %d, want value in range [0, %d)", name, key, shards, p1, shards)
				}
			}
		}
	}
}

func TestPartitioners_Distribution(t *testing.T) {
	t.Parallel()
	// 8 keys over 4 shards should not all land in one place
	keys := []string{"apple", "banana", "cherry", "date", "elderberry", "fig", "grape", "honeydew"}

	for _, name := range Partitioners() {
		fn, _ := PartitionerByName(name)

		used := make(map[int]int)
		for _, key := range keys {
			used[fn(key, 4)]++
		}

		if len(used) < 2 {
			t.Errorf("%s distributed %d keys into only %d shards, expected at least 2", name, len(keys), len(used))
		}
	}
}

func TestPartitionerByName_Unknown(t *testing.T) {
	t.Parallel()

	_, err := PartitionerByName("crc64")
	if !errors.Is(err, ErrUnknownPartitioner) {
		t.Errorf("PartitionerByName(crc64) error = %v, want %v", err, ErrUnknownPartitioner)
	}
}
