package core

import (
	"context"

	"github.com/ib-77/tokbench/pkg/bench"
)

// ToChanMany emits every value as a successful result tagged with its
// position in values. The channel is closed after the last value or as soon
// as ctx is done.
func ToChanMany[T any](ctx context.Context, values []T) <-chan bench.Result[T] {
	in := make(chan bench.Result[T])
	go func() {
		defer close(in)
		for i, v := range values {
			select {
			case in <- bench.Success(i, v):
			case <-ctx.Done():
				return
			}
		}
	}()
	return in
}
