package actioncount

import (
	"strconv"
	"strings"

	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
)

// ActionCountWorker implements shardreduce.Worker
type ActionCountWorker struct{}

// Map emits (action, "1") for the word following "did", e.g. "user_4 did login".
func (w ActionCountWorker) Map(line string, emit shardreduce.Emitter) {
	words := strings.Fields(line)
	for i := range words {
		if words[i] == "did" && i+1 < len(words) {
			emit(words[i+1], "1")
			return
		}
	}
}

// Reduce aggregates the counts for each action
func (w ActionCountWorker) Reduce(key string, values *shardreduce.Iterator, emit shardreduce.Emitter) {
	emit(key, strconv.Itoa(values.Remaining()))
}

func (w ActionCountWorker) Description() string {
	return "Counts how many times each user action (after 'did') occurs, ignoring users"
}
