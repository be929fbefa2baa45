package counters

import (
	"context"
	"fmt"
)

// Source produces "key: value" lines for one interface.
type Source interface {
	// Name identifies the source in errors and logs.
	Name() string
	// Read returns the raw counter text for a single poll.
	Read(ctx context.Context) ([]byte, error)
}

// ReadError is returned when a source could not be read for a poll.
// The whole poll is void when any source fails.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read counters from %s: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Collect reads every source in order and merges their counters into one
// sample. Lines that fail to parse are skipped; a failed read fails the
// whole collection.
func Collect(ctx context.Context, sources ...Source) (*Sample, error) {
	s := NewSample()
	for _, src := range sources {
		b, err := src.Read(ctx)
		if err != nil {
			return nil, &ReadError{Source: src.Name(), Err: err}
		}
		Parse(s, b)
	}
	return s, nil
}
