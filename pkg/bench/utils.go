package bench

import (
	"context"
	"errors"
)

// GetErrors splits an errors.Join result into its parts. Any other error is
// returned as a single element.
func GetErrors(err error) []error {
	if err == nil {
		return []error{}
	}

	e, ok := err.(interface{ Unwrap() []error })
	if ok {
		return e.Unwrap()
	}

	return []error{err}
}

func IsCancellationError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrCancelled)
}
