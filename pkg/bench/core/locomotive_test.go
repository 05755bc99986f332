package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/tokbench/pkg/bench"
)

func double(_ context.Context, in bench.Result[int]) bench.Result[int] {
	return bench.Success(in.Index(), in.Result()*2)
}

func TestLocomotive_ProcessesAll(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	out := make(chan bench.Result[int])
	task := Spawn(ctx, "loco", func(ctx context.Context) error {
		defer close(out)
		Locomotive(ctx, ToChanMany(ctx, []int{1, 2, 3}), out, double, CancellationHandlers[int, int]{})
		return nil
	})

	got := collect[int](t, out)
	require.NoError(t, task.Join())
	require.Len(t, got, 3)
	for i, r := range got {
		assert.Equal(t, i, r.Index())
		assert.Equal(t, (i+1)*2, r.Result())
	}
}

func TestLocomotive_DrainOnCancelEmitsOnePerInput(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan bench.Result[int], 4)
	for i := 0; i < 4; i++ {
		in <- bench.Success(i, i)
	}
	close(in)

	out := make(chan bench.Result[int], 4)
	engine := func(ctx context.Context, r bench.Result[int]) bench.Result[int] {
		cancel()
		return bench.Fail[int](r.Index(), errors.New("first failure"))
	}

	Locomotive(ctx, in, out, engine, DrainOnCancel[int, int]())
	close(out)

	var results []bench.Result[int]
	for r := range out {
		results = append(results, r)
	}
	require.Len(t, results, 4)
	assert.True(t, results[0].IsFailure())
	for _, r := range results[1:] {
		assert.True(t, r.IsCancel())
		assert.ErrorIs(t, r.Err(), bench.ErrCancelled)
	}
}

func TestLocomotive_StopsWithoutHandlers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make(chan bench.Result[int])
	out := make(chan bench.Result[int])
	done := make(chan struct{})
	go func() {
		Locomotive(ctx, in, out, double, CancellationHandlers[int, int]{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("locomotive did not stop on a cancelled context")
	}
}
