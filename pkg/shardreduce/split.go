package shardreduce

// span is a half-open range [start, end) of input indexes.
type span struct {
	start int
	end   int
}

func (s span) len() int {
	return s.end - s.start
}

// splitContiguous deals n items round-robin to workers to get per-worker
// counts, then lays those counts out as consecutive ranges. Sizes differ by at
// most one and input order is preserved within and across ranges.
func splitContiguous(n, workers int) []span {
	counts := make([]int, workers)
	for i := 0; i < n; i++ {
		counts[i%workers]++
	}

	spans := make([]span, workers)
	start := 0
	for w, c := range counts {
		spans[w] = span{start: start, end: start + c}
		start += c
	}

	return spans
}
