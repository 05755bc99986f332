// Package pipeline decouples computing results from reporting them. A
// producer stage computes one result per source and sends it over a single
// channel; a consumer stage receives and reports each result. The producer
// is the only party that closes the channel, and it always does, so the
// consumer terminates even when production fails.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ib-77/tokbench/pkg/bench"
	"github.com/ib-77/tokbench/pkg/bench/core"
	"github.com/ib-77/tokbench/pkg/bench/solo"
	"github.com/ib-77/tokbench/pkg/bench/source"
	"github.com/ib-77/tokbench/pkg/bench/work"
	"github.com/ib-77/tokbench/pkg/logger"
)

const Name = "Pipeline Parallelism"

// Runner builds and runs a Pipeline per call to Run.
type Runner struct {
	unit      work.Unit
	buffer    int
	producers int
	onReceive func(bench.WorkResult)
}

type Option func(*Runner)

// WithBuffer sets the channel capacity. 0 is an unbuffered channel: every
// send waits for the consumer.
func WithBuffer(n int) Option {
	return func(r *Runner) { r.buffer = n }
}

// WithProducers runs n producer workers. With more than one, results may
// arrive out of order and the consumer re-sequences them by source index.
func WithProducers(n int) Option {
	return func(r *Runner) { r.producers = n }
}

// WithOnReceive is called by the consumer for each result, in source order.
func WithOnReceive(f func(bench.WorkResult)) Option {
	return func(r *Runner) { r.onReceive = f }
}

func New(unit work.Unit, opts ...Option) *Runner {
	r := &Runner{unit: unit, producers: 1}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Runner) Name() string {
	return Name
}

// Run starts a pipeline over sources and waits for both stages. Channel
// capacity and producer count stored in ctx override the runner's own.
func (r *Runner) Run(ctx context.Context, sources []source.Source) (bench.ResultSet, error) {
	p := NewPipeline(r.unit, sources,
		core.GetBufferCapacity(ctx, r.buffer),
		core.GetProducerCount(ctx, max(r.producers, 1)),
		r.onReceive)
	p.Start(ctx)
	return p.Wait()
}

// Pipeline is a single producer/consumer run.
type Pipeline struct {
	unit      work.Unit
	sources   []source.Source
	buffer    int
	producers int
	onReceive func(bench.WorkResult)

	Producer *Stage
	Consumer *Stage

	ch       chan bench.Result[int]
	observed chan struct{}
	closer   *core.Task
	consumer *core.Task

	ctx     context.Context
	results bench.ResultSet
	err     error
}

func NewPipeline(unit work.Unit, sources []source.Source, buffer, producers int,
	onReceive func(bench.WorkResult)) *Pipeline {
	return &Pipeline{
		unit:      unit,
		sources:   sources,
		buffer:    max(buffer, 0),
		producers: max(producers, 1),
		onReceive: onReceive,
		Producer:  newStage("producer"),
		Consumer:  newStage("consumer"),
		observed:  make(chan struct{}),
	}
}

// Start launches both stages. It must be called once.
func (p *Pipeline) Start(ctx context.Context) {
	logger.Debug("runner start", zap.String("strategy", Name), zap.Int("sources", len(p.sources)),
		zap.Int("buffer", p.buffer), zap.Int("producers", p.producers))

	p.ctx = ctx
	p.ch = make(chan bench.Result[int], p.buffer)

	prodCtx, cancel := context.WithCancel(ctx)
	p.consumer = core.Spawn(ctx, "consumer", func(ctx context.Context) error {
		return p.consume(cancel)
	})
	p.closer = p.produce(prodCtx, cancel)
}

// Wait blocks until both stages are terminated. When a producer worker died
// without reporting a result, its error is returned instead of the
// consumer's incomplete result set.
func (p *Pipeline) Wait() (bench.ResultSet, error) {
	prodErr := p.closer.Join()
	if prodErr != nil {
		logger.Error("producer failed", zap.String("strategy", Name), zap.Error(prodErr))
	}
	if err := p.consumer.Join(); err != nil {
		return nil, err
	}
	if p.err != nil {
		if prodErr != nil && errors.Is(p.err, bench.ErrIncompleteResults) {
			p.err = prodErr
		}
		logger.Debug("runner abort", zap.String("strategy", Name), zap.Error(p.err))
		return nil, p.err
	}
	logger.Debug("runner finish", zap.String("strategy", Name))
	return p.results, nil
}

// produce starts the producer workers and returns the closer that ends the
// stream once every worker has returned. The closer reports the workers'
// joined errors.
func (p *Pipeline) produce(ctx context.Context, cancel context.CancelFunc) *core.Task {
	p.Producer.advance(Running)

	in := core.ToChanMany(ctx, p.sources)
	handlers := core.CancellationHandlers[source.Source, int]{
		OnCancelProcessed: core.KeepProcessed[source.Source, int],
	}
	engine := func(ctx context.Context, in bench.Result[source.Source]) bench.Result[int] {
		res := solo.Try(ctx, in, func(ctx context.Context, s source.Source) (int, error) {
			return p.unit(ctx, s)
		})
		if res.IsFailure() {
			cancel()
			return bench.Fail[int](res.Index(), bench.NewTaskError(res.Index(), res.Err()))
		}
		return res
	}

	workers := make([]*core.Task, p.producers)
	for i := 0; i < p.producers; i++ {
		workers[i] = core.Spawn(ctx, fmt.Sprintf("producer-%d", i), func(ctx context.Context) error {
			core.Locomotive(ctx, in, p.ch, engine, handlers)
			return nil
		})
	}

	return core.Spawn(ctx, "producer-close", func(context.Context) error {
		err := core.JoinAll(workers...)
		p.Producer.advance(Draining)
		close(p.ch)
		<-p.observed
		p.Producer.advance(Terminated)
		return err
	})
}

// consume receives until the producer closes the channel. A failure moves
// the consumer to Draining and stops the producers, but the consumer keeps
// receiving until end of stream so no send is left blocked. The same holds
// if onReceive panics.
func (p *Pipeline) consume(cancel context.CancelFunc) error {
	p.Consumer.advance(Running)
	observed := false
	defer func() {
		cancel()
		if !observed {
			close(p.observed)
		}
		for range p.ch {
		}
		p.Consumer.advance(Terminated)
	}()

	n := len(p.sources)
	results := make(bench.ResultSet, 0, n)
	pending := make(map[int]int)
	next := 0

	for res := range p.ch {
		if !res.IsSuccess() {
			if res.IsFailure() && p.err == nil {
				p.err = res.Err()
				p.Consumer.advance(Draining)
				cancel()
			}
			continue
		}
		if p.err != nil {
			continue
		}
		pending[res.Index()] = res.Result()
		for {
			v, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			wr := bench.WorkResult{SourceIndex: next, Value: v}
			results = append(results, wr)
			if p.onReceive != nil {
				p.onReceive(wr)
			}
			next++
		}
	}

	p.Consumer.advance(Draining)
	close(p.observed)
	observed = true

	if p.err == nil && len(results) != n {
		if err := p.ctx.Err(); err != nil {
			p.err = bench.Cancelled(err)
		} else {
			p.err = fmt.Errorf("%w: received %d of %d", bench.ErrIncompleteResults, len(results), n)
		}
	}
	if p.err == nil {
		p.results = results
	}
	return nil
}
