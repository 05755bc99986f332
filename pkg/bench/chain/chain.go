package chain

import (
	"context"

	"github.com/ib-77/tokbench/pkg/bench"
	"github.com/ib-77/tokbench/pkg/bench/solo"
)

// Chain wraps a bench.Result with context to enable fluent chaining
type Chain[T any] struct {
	ctx    context.Context
	result bench.Result[T]
}

// FromValue creates a new chain from a successful value
func FromValue[T any](ctx context.Context, index int, value T) *Chain[T] {
	return &Chain[T]{
		ctx:    ctx,
		result: bench.Success(index, value),
	}
}

// Result returns the underlying bench.Result
func (c *Chain[T]) Result() bench.Result[T] {
	return c.result
}

// ThenTry chains a function that returns (U, error). It is skipped when the
// chain already failed or ctx is done.
func ThenTry[T, U any](c *Chain[T], tryOnSuccess func(context.Context, T) (U, error)) *Chain[U] {
	return &Chain[U]{
		ctx:    c.ctx,
		result: solo.Try[T, U](c.ctx, c.result, tryOnSuccess),
	}
}

// Finally collapses the chain with exactly one of the three handlers. Unlike
// ThenTry, onSuccess runs even if ctx is done, so it can release what an
// earlier step acquired.
func Finally[T, U any](c *Chain[T], onSuccess func(context.Context, T) U,
	onFailure func(context.Context, error) U, onCancel func(context.Context, error) U) U {
	return solo.Finally[T, U](c.ctx, c.result, onSuccess, onFailure, onCancel)
}
