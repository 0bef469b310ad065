package types

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when the document chunker is given a
	// file type it cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrGenerationUnavailable is returned by generation clients that have no
	// configured backend. Extraction degrades to its heuristic fallback when
	// it sees this; query surfaces it to the caller.
	ErrGenerationUnavailable = errors.New("generation backend not configured")
)

// GenerationError wraps a transport or model failure from a generation
// backend. Callers at the extraction boundary convert it into fallback
// behavior; the query engine surfaces it unmodified.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError wraps err as a GenerationError for operation op.
func NewGenerationError(op string, err error) *GenerationError {
	return &GenerationError{Op: op, Err: err}
}
