package solo

import (
	"context"

	"github.com/ib-77/tokbench/pkg/bench"
)

func Succeed[T any](index int, input T) bench.Result[T] {
	return bench.Success(index, input)
}

// Try runs onTryExecute for a successful input. A cancelled context turns
// into a cancelled result instead of a call.
func Try[In any, Out any](ctx context.Context, input bench.Result[In],
	onTryExecute func(ctx context.Context, r In) (Out, error)) bench.Result[Out] {
	if !input.IsSuccess() {
		return bench.CancelFrom[In, Out](input)
	}
	if err := ctx.Err(); err != nil {
		return bench.Cancel[Out](input.Index(), bench.Cancelled(err))
	}
	out, err := onTryExecute(ctx, input.Result())
	if err != nil {
		if bench.IsCancellationError(err) {
			return bench.Cancel[Out](input.Index(), bench.Cancelled(err))
		}
		return bench.Fail[Out](input.Index(), err)
	}
	return bench.Success(input.Index(), out)
}

// Finally calls exactly one handler depending on the state of input.
func Finally[In, Out any](ctx context.Context, input bench.Result[In],
	onSuccess func(ctx context.Context, r In) Out,
	onError func(ctx context.Context, err error) Out,
	onCancel func(ctx context.Context, err error) Out) Out {
	if input.IsSuccess() {
		return onSuccess(ctx, input.Result())
	} else if input.IsCancel() {
		return onCancel(ctx, input.Err())
	} else {
		return onError(ctx, input.Err())
	}
}
