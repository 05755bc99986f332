package bench

// Result is the outcome of one unit of work. It always carries the index of
// the source it was produced for, so receivers never have to recompute it.
type Result[T any] struct {
	index     int
	result    T
	err       error
	isSuccess bool
	isCancel  bool
}

func Success[T any](index int, r T) Result[T] {
	return Result[T]{
		index:     index,
		result:    r,
		isSuccess: true,
	}
}

func Fail[T any](index int, err error) Result[T] {
	return Result[T]{
		index: index,
		err:   err,
	}
}

func Cancel[T any](index int, err error) Result[T] {
	return Result[T]{
		index:    index,
		err:      err,
		isCancel: true,
	}
}

// CancelFrom converts a non-successful result to another payload type,
// keeping its index, error and cancel flag.
func CancelFrom[In, Out any](from Result[In]) Result[Out] {
	return Result[Out]{
		index:    from.index,
		err:      from.err,
		isCancel: from.isCancel,
	}
}

func (r Result[T]) Index() int {
	return r.index
}

func (r Result[T]) Result() T {
	return r.result
}

func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) IsSuccess() bool {
	return r.isSuccess
}

func (r Result[T]) IsCancel() bool {
	return r.isCancel
}

// IsFailure reports a failed result that was not cancelled.
func (r Result[T]) IsFailure() bool {
	return !r.isSuccess && !r.isCancel && r.err != nil
}
