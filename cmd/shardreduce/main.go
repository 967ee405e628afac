package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"pkg.jsn.cam/shardreduce/pkg/executor"
	"pkg.jsn.cam/shardreduce/pkg/executors"
	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
	"pkg.jsn.cam/shardreduce/pkg/sink"
	"pkg.jsn.cam/shardreduce/pkg/storage"
)

var (
	executorName = flag.String("executor", "wordcount", "Executor to run (see -list)")
	mappers      = flag.Int("mappers", 10, "Number of map workers")
	reducers     = flag.Int("reducers", 10, "Number of reduce workers (and shards)")
	partitioner  = flag.String("partitioner", "djb2", "Partitioner: "+strings.Join(shardreduce.Partitioners(), ", "))
	dbPath       = flag.String("db", "", "Also save results to this bbolt file")
	verbose      = flag.Bool("verbose", false, "Log phases, dump shards and print a run summary")
	list         = flag.Bool("list", false, "List executors and exit")
	version      = flag.Bool("version", false, "Print version and exit")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  shardreduce [flags] file...\n")
	fmt.Fprintf(os.Stderr, "  shardreduce show -db results.db\n\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "show" {
		showCommand(os.Args[2:])
		return
	}

	flag.Usage = usage
	flag.Parse()

	switch {
	case *version:
		fmt.Println(shardreduce.Version)
		return
	case *list:
		listExecutors()
		return
	case flag.NArg() == 0:
		usage()
		os.Exit(2)
	}

	cfg := executor.Config{
		Executor:    *executorName,
		Inputs:      flag.Args(),
		Mappers:     *mappers,
		Reducers:    *reducers,
		Partitioner: *partitioner,
		Verbose:     *verbose,
	}

	res, err := executor.Execute(cfg)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	out := bufio.NewWriter(os.Stdout)
	for _, line := range res.Sink.Lines() {
		fmt.Fprintln(out, line)
	}
	if err := out.Flush(); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	if *dbPath != "" {
		saveResults(*dbPath, res, cfg)
	}

	if *verbose {
		printSummary(os.Stderr, res)
	}
}

func listExecutors() {
	for _, name := range executors.List() {
		desc, _ := executors.Description(name)
		fmt.Printf("%-12s %s\n", name, desc)
	}
}

func saveResults(path string, res *executor.Result, cfg executor.Config) {
	backend, err := storage.OpenBoltBackend(path, storage.BoltConfig{})
	if err != nil {
		log.Fatalf("Failed to open results database: %v", err)
	}
	defer backend.Close()

	if err := res.Sink.Save(backend, res.Metadata(cfg)); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}

	if *verbose {
		log.Printf("Saved %d results to %s", res.Sink.Len(), path)
	}
}

func showCommand(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	path := fs.String("db", "", "bbolt file written with -db")
	fs.Parse(args)

	if *path == "" {
		log.Fatal("db is required")
	}

	if _, err := os.Stat(*path); err != nil {
		log.Fatalf("Results database not found: %v", err)
	}

	backend, err := storage.OpenBoltBackend(*path, storage.BoltConfig{})
	if err != nil {
		log.Fatalf("Failed to open results database: %v", err)
	}
	defer backend.Close()

	meta, records, err := sink.Load(backend)
	if err != nil {
		log.Fatalf("Failed to load results: %v", err)
	}

	printStored(os.Stdout, meta, records)
}
