package core

import (
	"context"

	"github.com/ib-77/tokbench/pkg/bench"
)

// CancelRemainingResults drains inputCh, turning every queued input into a
// cancelled result so the collector still sees one outcome per index.
func CancelRemainingResults[In, Out any](ctx context.Context,
	inputCh <-chan bench.Result[In], outCh chan<- bench.Result[Out]) {
	for in := range inputCh {
		CancelRemainingResult[In, Out](ctx, in, outCh)
	}
}

func CancelRemainingResult[In, Out any](_ context.Context, in bench.Result[In],
	outCh chan<- bench.Result[Out]) {
	if in.IsCancel() {
		outCh <- bench.CancelFrom[In, Out](in)
	} else {
		outCh <- bench.Cancel[Out](in.Index(), bench.ErrCancelled)
	}
}

// KeepProcessed forwards a result that was computed before cancellation
// was noticed, so a failure that triggered the cancel is never lost.
func KeepProcessed[In, Out any](_ context.Context, _ bench.Result[In],
	processed bench.Result[Out], outCh chan<- bench.Result[Out]) {
	outCh <- processed
}

// DrainOnCancel routes every item a cancelled worker still holds or could
// still read to outCh.
func DrainOnCancel[In, Out any]() CancellationHandlers[In, Out] {
	return CancellationHandlers[In, Out]{
		OnCancel:            CancelRemainingResults[In, Out],
		OnCancelUnprocessed: CancelRemainingResult[In, Out],
		OnCancelProcessed:   KeepProcessed[In, Out],
	}
}
