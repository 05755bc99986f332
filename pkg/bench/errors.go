package bench

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnreadable means a source could not be opened or streamed.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrSourceCorrupt means a line of a source could not be decoded as text.
	ErrSourceCorrupt = errors.New("source corrupt")
	// ErrTaskFailure marks an error that crossed a concurrency boundary.
	ErrTaskFailure = errors.New("task failure")
	ErrCancelled   = errors.New("operation cancelled")
	// ErrIncompleteResults is returned when a result set has missing or
	// duplicate indices.
	ErrIncompleteResults = errors.New("incomplete result set")
)

// SourceError attaches the index and name of the failing source to an error
// raised on the calling goroutine. Err carries the kind sentinel.
type SourceError struct {
	Index int
	Name  string
	Err   error
}

func (e *SourceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("source %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("source %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// TaskError is a failure reported by a concurrently running unit of work.
// It matches both ErrTaskFailure and whatever the task itself returned.
type TaskError struct {
	Index int
	Err   error
}

func NewTaskError(index int, err error) error {
	var te *TaskError
	if errors.As(err, &te) {
		return err
	}
	return &TaskError{Index: index, Err: err}
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task for source %d: %v", e.Index, e.Err)
}

func (e *TaskError) Unwrap() []error {
	return []error{ErrTaskFailure, e.Err}
}

// Cancelled wraps a context error so it matches ErrCancelled as well.
func Cancelled(err error) error {
	if err == nil || errors.Is(err, ErrCancelled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}
