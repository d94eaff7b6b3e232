package janitor

import "errors"

var (
	// ErrNotFound reports that an input path does not exist.
	ErrNotFound = errors.New("input not found")
	// ErrMissingColumn reports a declared column absent from the input header.
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformed reports a cell that cannot be parsed into its declared kind.
	ErrMalformed = errors.New("malformed value")

	ErrUnknownColumn = errors.New("unknown column")
	ErrKindMismatch  = errors.New("column kind mismatch")
)

// LoadError is returned when a record set cannot be loaded from Path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return "load " + e.Path + ": " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

// WriteError is returned when a record set cannot be persisted to Path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return "write " + e.Path + ": " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }
