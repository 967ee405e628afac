package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"pkg.jsn.cam/shardreduce/pkg/executor"
	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
	"pkg.jsn.cam/shardreduce/pkg/sink"
)

func printSummary(w io.Writer, res *executor.Result) {
	s := res.Stats

	fmt.Fprintf(w, "Run Summary:\n")
	fmt.Fprintf(w, "  Run ID:      %s\n", s.RunID)
	fmt.Fprintf(w, "  Input:       %s in %d files\n", humanize.Bytes(uint64(res.InputBytes)), s.Items)
	fmt.Fprintf(w, "  Workers:     %d map, %d reduce\n", s.Mappers, s.Reducers)
	fmt.Fprintf(w, "  Emitted:     %s pairs\n", humanize.Comma(int64(s.Emitted)))
	fmt.Fprintf(w, "  Keys:        %s\n", humanize.Comma(int64(s.Keys())))
	fmt.Fprintf(w, "  Results:     %s\n", humanize.Comma(int64(res.Sink.Len())))
	printPhases(w, s)
	printShards(w, s)
}

func printPhases(w io.Writer, s *shardreduce.Stats) {
	fmt.Fprintf(w, "\nPhases:\n")
	fmt.Fprintf(w, "  Map:         %v\n", s.MapDuration.Round(time.Microsecond))
	fmt.Fprintf(w, "  Sort:        %v\n", s.SortDuration.Round(time.Microsecond))
	fmt.Fprintf(w, "  Reduce:      %v\n", s.ReduceDuration.Round(time.Microsecond))
}

func printShards(w io.Writer, s *shardreduce.Stats) {
	fmt.Fprintf(w, "\n%-6s %12s %12s\n", "SHARD", "KEYS", "VALUES")
	for i, sh := range s.Shards {
		fmt.Fprintf(w, "%-6d %12s %12s\n", i, humanize.Comma(int64(sh.Keys)), humanize.Comma(int64(sh.Values)))
	}
}

func printStored(w io.Writer, meta sink.Metadata, records []sink.Record) {
	fmt.Fprintf(w, "Run Details:\n")
	fmt.Fprintf(w, "  Run ID:      %s\n", meta.RunID)
	fmt.Fprintf(w, "  Version:     %s\n", meta.Version)
	fmt.Fprintf(w, "  Executor:    %s\n", meta.Executor)
	fmt.Fprintf(w, "  Inputs:      %d files\n", len(meta.Inputs))
	fmt.Fprintf(w, "  Reducers:    %d\n", meta.Reducers)
	fmt.Fprintf(w, "  Saved:       %s (%s)\n", meta.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(meta.CreatedAt))

	if meta.Stats != nil {
		fmt.Fprintf(w, "  Emitted:     %s pairs\n", humanize.Comma(int64(meta.Stats.Emitted)))
		printPhases(w, meta.Stats)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "\nNo results")
		return
	}

	fmt.Fprintf(w, "\nResults (%s entries):\n", humanize.Comma(int64(len(records))))
	fmt.Fprintln(w, "─────────────────────────────────────────────────────────")
	for _, r := range records {
		fmt.Fprintf(w, "%-30s %s\n", r.Key, r.Value)
	}
}
