package domain

import (
	"errors"
	"fmt"
)

// ErrCacheMissing is returned when the cache file was never written
var ErrCacheMissing = errors.New("cache missing")

// FetchError is a network or parse failure of the feed source
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NormalizeError is a failure to normalize a single entry, Index is 0-based position in the feed
type NormalizeError struct {
	Index int
	Title string
	Err   error
}

func (e *NormalizeError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("normalize entry %d (%q): %v", e.Index, e.Title, e.Err)
	}
	return fmt.Sprintf("normalize entry %d: %v", e.Index, e.Err)
}

func (e *NormalizeError) Unwrap() error { return e.Err }

// ExportError is a failure to write html or pdf output
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s to %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// OperationError is an unexpected failure inside an operation, including recovered panics
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }
