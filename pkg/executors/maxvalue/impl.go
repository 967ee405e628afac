package maxvalue

import (
	"strconv"
	"strings"

	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
)

// MaxValueWorker finds the maximum numeric value for each key.
// Input format: "key:value" per line (e.g., "temperature:72.5")
type MaxValueWorker struct{}

// Map splits "key:value" lines and emits them; other lines are skipped.
func (w MaxValueWorker) Map(line string, emit shardreduce.Emitter) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}

	emit(key, strings.TrimSpace(value))
}

// Reduce emits the largest parseable value. Values arrive in byte order, not
// numeric order, so every one is compared.
func (w MaxValueWorker) Reduce(key string, values *shardreduce.Iterator, emit shardreduce.Emitter) {
	found := false
	var maxVal float64

	for v := range values.All() {
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}

		if !found || val > maxVal {
			maxVal = val
			found = true
		}
	}

	if found {
		emit(key, strconv.FormatFloat(maxVal, 'f', -1, 64))
	}
}

func (w MaxValueWorker) Description() string {
	return "Finds the maximum numeric value for each key (format: key:value)"
}
