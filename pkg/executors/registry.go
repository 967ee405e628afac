package executors

import (
	"errors"
	"fmt"
	"sort"

	"pkg.jsn.cam/shardreduce/pkg/executors/actioncount"
	"pkg.jsn.cam/shardreduce/pkg/executors/average"
	"pkg.jsn.cam/shardreduce/pkg/executors/maxvalue"
	"pkg.jsn.cam/shardreduce/pkg/executors/urldedup"
	"pkg.jsn.cam/shardreduce/pkg/executors/wordcount"
	"pkg.jsn.cam/shardreduce/pkg/shardreduce"
)

var ErrUnknownExecutor = errors.New("unknown executor")

var registry = map[string]shardreduce.Worker{
	"wordcount":   wordcount.WordCountWorker{},
	"actioncount": actioncount.ActionCountWorker{},
	"maxvalue":    maxvalue.MaxValueWorker{},
	"urldedup":    urldedup.URLDedupWorker{},
	"average":     average.AverageWorker{},
}

func IsValid(name string) bool {
	_, exists := registry[name]
	return exists
}

// Get returns the executor registered under name.
func Get(name string) (shardreduce.Worker, error) {
	worker, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExecutor, name)
	}

	return worker, nil
}

// List returns the registered executor names in sorted order.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func Description(name string) (string, error) {
	worker, err := Get(name)
	if err != nil {
		return "", err
	}

	return worker.Description(), nil
}
