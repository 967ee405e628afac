package shardreduce

import "testing"

func TestSplitContiguous(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		n       int
		workers int
		want    []span
	}{
		{"even", 6, 3, []span{{0, 2}, {2, 4}, {4, 6}}},
		{"remainder goes to first workers", 7, 3, []span{{0, 3}, {3, 5}, {5, 7}}},
		{"fewer items than workers", 2, 3, []span{{0, 1}, {1, 2}, {2, 2}}},
		{"single worker", 5, 1, []span{{0, 5}}},
		{"no items", 0, 2, []span{{0, 0}, {0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := splitContiguous(tt.n, tt.workers)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d spans, want %d", len(got), len(tt.want))
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitContiguous_Balanced(t *testing.T) {
	t.Parallel()

	for n := 0; n < 50; n++ {
		for workers := 1; workers < 12; workers++ {
			spans := splitContiguous(n, workers)

			next, lo, hi := 0, n, 0
			for _, sp := range spans {
				if sp.start != next {
					t.Fatalf("n=%d workers=%d: span %v does not start at %d", n, workers, sp, next)
				}
				next = sp.end
				lo = min(lo, sp.len())
				hi = max(hi, sp.len())
			}

			if next != n {
				t.Errorf("n=%d workers=%d: spans cover %d items", n, workers, next)
			}

			if hi-lo > 1 {
				t.Errorf("n=%d workers=%d: span sizes differ by %d", n, workers, hi-lo)
			}
		}
	}
}
