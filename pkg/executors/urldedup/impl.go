package urldedup

import (
	"net/url"
	"strconv"
	"strings"

	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
)

// URLDedupWorker deduplicates URLs per domain.
// Input: URLs, one per line
// Output: (domain, unique_url_count)
type URLDedupWorker struct{}

// Map extracts domain from each URL and emits (domain, url)
func (w URLDedupWorker) Map(line string, emit shardreduce.Emitter) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	u, err := url.Parse(line)
	if err != nil || u.Host == "" {
		return
	}

	emit(u.Host, line)
}

// Reduce counts distinct URLs. Values are sorted, so duplicates are adjacent.
func (w URLDedupWorker) Reduce(key string, values *shardreduce.Iterator, emit shardreduce.Emitter) {
	unique := 0
	prev := ""

	for v := range values.All() {
		if unique == 0 || v != prev {
			unique++
			prev = v
		}
	}

	emit(key, strconv.Itoa(unique))
}

func (w URLDedupWorker) Description() string {
	return "Deduplicates URLs per domain and counts unique URLs"
}
