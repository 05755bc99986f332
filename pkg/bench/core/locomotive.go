package core

import (
	"context"

	"github.com/ib-77/tokbench/pkg/bench"
)

type CancellationHandlers[In, Out any] struct {
	OnCancel            func(ctx context.Context, inputCh <-chan bench.Result[In], outCh chan<- bench.Result[Out])
	OnCancelUnprocessed func(ctx context.Context, unprocessed bench.Result[In], outCh chan<- bench.Result[Out])
	OnCancelProcessed   func(ctx context.Context, in bench.Result[In], processed bench.Result[Out], outCh chan<- bench.Result[Out])
}

// Locomotive is one worker: it pulls inputs until inputCh is closed, runs
// engine on each and pushes the outcome to outCh. When ctx is done the
// matching cancellation handler decides what happens to the item in hand
// and to whatever is still queued.
func Locomotive[In, Out any](ctx context.Context, inputCh <-chan bench.Result[In], outCh chan<- bench.Result[Out],
	engine func(ctx context.Context, input bench.Result[In]) bench.Result[Out],
	handlers CancellationHandlers[In, Out]) {

	for {
		select {
		case <-ctx.Done():
			if handlers.OnCancel != nil {
				handlers.OnCancel(ctx, inputCh, outCh)
			}
			return
		case in, ok := <-inputCh:
			if !ok {
				return
			}

			if ctx.Err() != nil {
				if handlers.OnCancelUnprocessed != nil {
					handlers.OnCancelUnprocessed(ctx, in, outCh)
				}
				if handlers.OnCancel != nil {
					handlers.OnCancel(ctx, inputCh, outCh)
				}
				return
			}

			pr := engine(ctx, in)

			select {
			case outCh <- pr:
			case <-ctx.Done():
				if handlers.OnCancelProcessed != nil {
					handlers.OnCancelProcessed(ctx, in, pr, outCh)
				}
				if handlers.OnCancel != nil {
					handlers.OnCancel(ctx, inputCh, outCh)
				}
				return
			}
		}
	}
}
