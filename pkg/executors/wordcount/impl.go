package wordcount

import (
	"strconv"
	"strings"

	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
)

// WordCountWorker implements shardreduce.Worker
type WordCountWorker struct{}

// Map splits the line into words and emits (word, "1") pairs.
func (w WordCountWorker) Map(line string, emit shardreduce.Emitter) {
	for _, word := range strings.Fields(line) {
		emit(word, "1")
	}
}

// Reduce drains every value for a word and emits (word, count)
func (w WordCountWorker) Reduce(key string, values *shardreduce.Iterator, emit shardreduce.Emitter) {
	count := 0
	for {
		if _, ok := values.Next(); !ok {
			break
		}
		count++
	}

	emit(key, strconv.Itoa(count))
}

func (w WordCountWorker) Description() string {
	return "A simple word count worker that counts occurrences of each word"
}
