// Package harness drives several runners over the same sources, times each
// one and hands a RunnerReport per strategy to a Sink. Strategies run one
// after another so timings never overlap.
package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ib-77/tokbench/pkg/bench"
	"github.com/ib-77/tokbench/pkg/bench/source"
	"github.com/ib-77/tokbench/pkg/logger"
)

// ErrNotIdempotent is reported when repeated runs of a strategy disagree.
var ErrNotIdempotent = errors.New("result set changed between iterations")

// Sink consumes reports as soon as each strategy finishes.
type Sink interface {
	Emit(report bench.RunnerReport) error
}

type SinkFunc func(report bench.RunnerReport) error

func (f SinkFunc) Emit(report bench.RunnerReport) error {
	return f(report)
}

type Harness struct {
	runners    []bench.Runner
	sink       Sink
	iterations int
	now        func() time.Time
}

type Option func(*Harness)

// WithIterations repeats every strategy n times. The reported elapsed time
// is the first run's; the Latency summary covers all of them.
func WithIterations(n int) Option {
	return func(h *Harness) { h.iterations = max(n, 1) }
}

func WithClock(now func() time.Time) Option {
	return func(h *Harness) { h.now = now }
}

func New(sink Sink, runners []bench.Runner, opts ...Option) *Harness {
	h := &Harness{
		runners:    runners,
		sink:       sink,
		iterations: 1,
		now:        time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Run executes every runner in order. A failing strategy is reported and
// the next one still runs; the returned error joins every failure.
func (h *Harness) Run(ctx context.Context, sources []source.Source) ([]bench.RunnerReport, error) {
	reports := make([]bench.RunnerReport, 0, len(h.runners))
	var errs []error

	for _, r := range h.runners {
		if err := ctx.Err(); err != nil {
			errs = append(errs, bench.Cancelled(err))
			break
		}

		report := h.measure(ctx, r, sources)
		if report.Err != nil {
			logger.Error("strategy failed", zap.String("strategy", report.Strategy),
				zap.Stringer("run_id", report.RunID), zap.Error(report.Err))
			errs = append(errs, fmt.Errorf("%s: %w", report.Strategy, report.Err))
		}

		if h.sink != nil {
			if err := h.sink.Emit(report); err != nil {
				return reports, fmt.Errorf("emit %s report: %w", report.Strategy, err)
			}
		}
		reports = append(reports, report)
	}

	return reports, errors.Join(errs...)
}

func (h *Harness) measure(ctx context.Context, r bench.Runner, sources []source.Source) bench.RunnerReport {
	report := bench.RunnerReport{RunID: uuid.New(), Strategy: r.Name()}

	var hist *hdrhistogram.Histogram
	if h.iterations > 1 {
		hist = newHistogram()
	}

	for i := 0; i < h.iterations; i++ {
		start := h.now()
		results, err := r.Run(ctx, sources)
		elapsed := h.now().Sub(start)

		if hist != nil {
			record(hist, elapsed)
		}
		if i == 0 {
			report.Elapsed = elapsed
			report.Results = results
		}

		if err != nil {
			report.Results = nil
			report.Err = err
			break
		}
		if i > 0 && !slices.Equal(report.Results, results) {
			report.Results = nil
			report.Err = fmt.Errorf("%w: iteration %d", ErrNotIdempotent, i+1)
			break
		}
	}

	if hist != nil && report.Err == nil {
		report.Latency = summarize(hist)
	}

	logger.Debug("strategy measured", zap.String("strategy", report.Strategy),
		zap.Stringer("run_id", report.RunID), zap.Duration("elapsed", report.Elapsed),
		zap.Ints("counts", report.Results.Values()))
	return report
}
