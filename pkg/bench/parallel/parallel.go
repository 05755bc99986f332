// Package parallel fans the sources out to a bounded set of workers and
// fans the results back in, restoring source order before returning.
package parallel

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/ib-77/tokbench/pkg/bench"
	"github.com/ib-77/tokbench/pkg/bench/core"
	"github.com/ib-77/tokbench/pkg/bench/solo"
	"github.com/ib-77/tokbench/pkg/bench/source"
	"github.com/ib-77/tokbench/pkg/bench/work"
	"github.com/ib-77/tokbench/pkg/logger"
)

const Name = "Task Parallelism"

type Runner struct {
	unit    work.Unit
	workers int
	policy  core.FailurePolicy
}

type Option func(*Runner)

// WithWorkers bounds the worker set. Non-positive values mean
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

func WithPolicy(p core.FailurePolicy) Option {
	return func(r *Runner) { r.policy = p }
}

func New(unit work.Unit, opts ...Option) *Runner {
	r := &Runner{unit: unit, policy: core.WaitAll}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Runner) Name() string {
	return Name
}

// Run dispatches one unit of work per source. Worker count and failure
// policy stored in ctx (core.WithWorkerOptions, core.WithProcessOptions)
// override the runner's own.
//
// With core.WaitAll every task is awaited and the failure of the lowest
// source index is returned. With core.FailFast the first observed failure
// cancels the remaining work and is returned once all workers have joined.
// Either way no partial results are returned on error.
func (r *Runner) Run(ctx context.Context, sources []source.Source) (bench.ResultSet, error) {
	if len(sources) == 0 {
		return bench.ResultSet{}, nil
	}

	workers := core.GetWorkerMaxCount(ctx, r.defaultWorkers())
	workers = min(workers, len(sources))
	policy := core.GetFailurePolicy(ctx, r.policy)

	logger.Debug("runner start", zap.String("strategy", Name), zap.Int("sources", len(sources)),
		zap.Int("workers", workers), zap.Stringer("policy", policy))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	handlers := core.CancellationHandlers[source.Source, int]{}
	if policy == core.FailFast {
		handlers = core.DrainOnCancel[source.Source, int]()
	}

	in := core.ToChanMany(runCtx, sources)
	out := make(chan bench.Result[int])

	tasks := make([]*core.Task, workers)
	for i := 0; i < workers; i++ {
		tasks[i] = core.Spawn(runCtx, fmt.Sprintf("worker-%d", i), func(ctx context.Context) error {
			core.Locomotive(ctx, in, out, r.engine, handlers)
			return nil
		})
	}

	joined := make(chan error, 1)
	go func() {
		joined <- core.JoinAll(tasks...)
		close(out)
	}()

	collected := make([]bench.Result[int], 0, len(sources))
	var firstErr error
	for res := range out {
		collected = append(collected, res)
		if res.IsFailure() && firstErr == nil {
			firstErr = res.Err()
			if policy == core.FailFast {
				cancel()
			}
		}
	}

	// a worker that panicked left its remaining inputs without a result
	workerErr := <-joined
	if workerErr != nil {
		logger.Error("worker failed", zap.String("strategy", Name), zap.Error(workerErr))
	}

	if policy == core.FailFast && firstErr != nil {
		logger.Debug("runner abort", zap.String("strategy", Name), zap.Error(firstErr))
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, bench.Cancelled(err)
	}
	if workerErr != nil {
		return nil, workerErr
	}

	set, err := bench.Assemble(collected, len(sources))
	if err != nil {
		logger.Debug("runner abort", zap.String("strategy", Name), zap.Error(err))
		return nil, err
	}

	logger.Debug("runner finish", zap.String("strategy", Name))
	return set, nil
}

func (r *Runner) engine(ctx context.Context, in bench.Result[source.Source]) bench.Result[int] {
	res := solo.Try(ctx, in, func(ctx context.Context, s source.Source) (int, error) {
		return r.unit(ctx, s)
	})
	if res.IsFailure() {
		return bench.Fail[int](res.Index(), bench.NewTaskError(res.Index(), res.Err()))
	}
	return res
}

func (r *Runner) defaultWorkers() int {
	if r.workers > 0 {
		return r.workers
	}
	return runtime.NumCPU()
}
