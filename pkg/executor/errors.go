package executor

import "errors"

var (
	ErrNoInputs      = errors.New("no input files")
	ErrInputNotFound = errors.New("input file not found")
	ErrReadInput     = errors.New("error reading input")
	ErrNoWorker      = errors.New("no executor or worker specified")
)
