package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/ib-77/tokbench/pkg/bench"
)

// Task is a handle to a goroutine started with Spawn.
//
// Join blocks until the goroutine has returned and yields its error. It can
// be called any number of times from any goroutine. A failing task never
// cancels its siblings by itself; that is decided by whoever owns the
// context the tasks were spawned with.
type Task struct {
	name string
	done chan struct{}
	err  error
}

// Spawn runs f on a new goroutine. A panic in f is recovered and reported
// by Join as a bench.ErrTaskFailure.
func Spawn(ctx context.Context, name string, f func(ctx context.Context) error) *Task {
	t := &Task{name: name, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("%w: %s panicked: %v", bench.ErrTaskFailure, t.name, r)
			}
		}()
		t.err = f(ctx)
	}()

	return t
}

func (t *Task) Join() error {
	<-t.done
	return t.err
}

// JoinAll waits for every task and joins their errors.
func JoinAll(tasks ...*Task) error {
	var errs []error
	for _, t := range tasks {
		if err := t.Join(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
