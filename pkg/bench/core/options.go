package core

import (
	"context"
	"fmt"
	"strings"
)

type OptionKey string

const (
	ProcessOptionKey  OptionKey = "process_options"
	WorkerOptionKey   OptionKey = "worker_options"
	BufferOptionKey   OptionKey = "buffer_options"
	ProducerOptionKey OptionKey = "producer_options"
)

// FailurePolicy decides what a fan-out does with sibling tasks after one
// task fails.
type FailurePolicy int

const (
	// WaitAll lets every task finish and reports the failure with the
	// lowest source index.
	WaitAll FailurePolicy = iota
	// FailFast cancels the remaining tasks on the first observed failure.
	// Work already completed by siblings is discarded.
	FailFast
)

func (p FailurePolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	default:
		return "wait-all"
	}
}

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wait-all", "waitall":
		return WaitAll, nil
	case "fail-fast", "failfast":
		return FailFast, nil
	default:
		return WaitAll, fmt.Errorf("unknown failure policy %q", s)
	}
}

type MaxLimitOption struct {
	Value int
}

type WorkerOptions struct {
	MaxCount MaxLimitOption
}

type BufferOptions struct {
	Capacity int
}

type ProducerOptions struct {
	Count MaxLimitOption
}

type ProcessOptions struct {
	Policy FailurePolicy
}

func WithProcessOptions(ctx context.Context, policy FailurePolicy) context.Context {
	return context.WithValue(ctx, ProcessOptionKey, ProcessOptions{Policy: policy})
}

func WithWorkerOptions(ctx context.Context, maxWorkers int) context.Context {
	return context.WithValue(ctx, WorkerOptionKey, WorkerOptions{MaxLimitOption{Value: maxWorkers}})
}

func WithBufferOptions(ctx context.Context, capacity int) context.Context {
	return context.WithValue(ctx, BufferOptionKey, BufferOptions{Capacity: capacity})
}

func WithProducerOptions(ctx context.Context, producers int) context.Context {
	return context.WithValue(ctx, ProducerOptionKey, ProducerOptions{MaxLimitOption{Value: producers}})
}

// GetWorkerMaxCount returns the worker count stored in ctx, or
// defaultMaxWorkers when none is stored or the stored value is not positive.
func GetWorkerMaxCount(ctx context.Context, defaultMaxWorkers int) int {
	options, ok := ctx.Value(WorkerOptionKey).(WorkerOptions)
	if ok && options.MaxCount.Value > 0 {
		return options.MaxCount.Value
	}
	return defaultMaxWorkers
}

func GetBufferCapacity(ctx context.Context, defaultCapacity int) int {
	options, ok := ctx.Value(BufferOptionKey).(BufferOptions)
	if ok && options.Capacity >= 0 {
		return options.Capacity
	}
	return defaultCapacity
}

func GetProducerCount(ctx context.Context, defaultProducers int) int {
	options, ok := ctx.Value(ProducerOptionKey).(ProducerOptions)
	if ok && options.Count.Value > 0 {
		return options.Count.Value
	}
	return defaultProducers
}

func GetFailurePolicy(ctx context.Context, defaultPolicy FailurePolicy) FailurePolicy {
	options, ok := ctx.Value(ProcessOptionKey).(ProcessOptions)
	if ok {
		return options.Policy
	}
	return defaultPolicy
}
