package average

import (
	"strconv"
	"strings"

	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
)

// AverageWorker calculates the average numeric value per key.
// Input format: "key:value" per line (e.g., "temperature:72.5")
type AverageWorker struct{}

// Map extracts key-value pairs and emits (key, value)
func (w AverageWorker) Map(line string, emit shardreduce.Emitter) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}

	emit(key, strings.TrimSpace(value))
}

// Reduce emits the mean of every parseable value with two decimals.
func (w AverageWorker) Reduce(key string, values *shardreduce.Iterator, emit shardreduce.Emitter) {
	var sum float64
	var count int

	for v := range values.All() {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		sum += val
		count++
	}

	if count > 0 {
		emit(key, strconv.FormatFloat(sum/float64(count), 'f', 2, 64))
	}
}

func (w AverageWorker) Description() string {
	return "Calculates average numeric value per key (format: key:value)"
}
