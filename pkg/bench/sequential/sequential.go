// Package sequential runs the work unit over every source on the calling
// goroutine, in input order.
package sequential

import (
	"context"

	"go.uber.org/zap"

	"github.com/ib-77/tokbench/pkg/bench"
	"github.com/ib-77/tokbench/pkg/bench/solo"
	"github.com/ib-77/tokbench/pkg/bench/source"
	"github.com/ib-77/tokbench/pkg/bench/work"
	"github.com/ib-77/tokbench/pkg/logger"
)

const Name = "Sequential"

type Runner struct {
	unit work.Unit
}

func New(unit work.Unit) *Runner {
	return &Runner{unit: unit}
}

func (r *Runner) Name() string {
	return Name
}

// Run processes one source fully before starting the next. The first
// failure aborts the run and no results are returned.
func (r *Runner) Run(ctx context.Context, sources []source.Source) (bench.ResultSet, error) {
	logger.Debug("runner start", zap.String("strategy", Name), zap.Int("sources", len(sources)))

	results := make(bench.ResultSet, 0, len(sources))
	for i, src := range sources {
		res := solo.Try(ctx, solo.Succeed(i, src), func(ctx context.Context, s source.Source) (int, error) {
			return r.unit(ctx, s)
		})
		fail := func(_ context.Context, err error) error {
			return &bench.SourceError{Index: i, Name: src.Name(), Err: err}
		}
		err := solo.Finally(ctx, res, func(_ context.Context, n int) error {
			results = append(results, bench.WorkResult{SourceIndex: i, Value: n})
			return nil
		}, fail, fail)
		if err != nil {
			logger.Debug("runner abort", zap.String("strategy", Name), zap.Int("index", i), zap.Error(err))
			return nil, err
		}
	}

	logger.Debug("runner finish", zap.String("strategy", Name))
	return results, nil
}
