package bench

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkResult is the occurrence count for the source at SourceIndex.
type WorkResult struct {
	SourceIndex int
	Value       int
}

// ResultSet is ordered by SourceIndex, with ResultSet[i].SourceIndex == i.
type ResultSet []WorkResult

// Values returns the counts in source order.
func (rs ResultSet) Values() []int {
	values := make([]int, len(rs))
	for i, r := range rs {
		values[i] = r.Value
	}
	return values
}

// Assemble places results at their source index. Completion order does not
// matter. If any result failed, the error of the lowest failing index is
// returned. A set with a missing, duplicate or out of range index is
// rejected with ErrIncompleteResults.
func Assemble(results []Result[int], n int) (ResultSet, error) {
	var (
		firstErr   error
		firstIndex = n
	)
	for _, r := range results {
		if r.IsSuccess() || r.IsCancel() {
			continue
		}
		if r.Index() < firstIndex && r.Err() != nil {
			firstIndex = r.Index()
			firstErr = r.Err()
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	set := make(ResultSet, n)
	seen := make([]bool, n)
	for _, r := range results {
		idx := r.Index()
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrIncompleteResults, idx, n)
		}
		if seen[idx] {
			return nil, fmt.Errorf("%w: duplicate index %d", ErrIncompleteResults, idx)
		}
		if r.IsCancel() {
			if r.Err() == nil {
				return nil, ErrCancelled
			}
			return nil, Cancelled(r.Err())
		}
		seen[idx] = true
		set[idx] = WorkResult{SourceIndex: idx, Value: r.Result()}
	}
	for idx, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: missing index %d", ErrIncompleteResults, idx)
		}
	}
	return set, nil
}

// Latency summarises repeated runs of one strategy.
type Latency struct {
	Runs int
	Min  time.Duration
	P50  time.Duration
	P99  time.Duration
	Max  time.Duration
}

// RunnerReport is produced once per runner invocation and handed to a sink.
type RunnerReport struct {
	RunID    uuid.UUID
	Strategy string
	Results  ResultSet
	Elapsed  time.Duration
	Err      error
	Latency  *Latency
}
