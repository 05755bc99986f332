package bench

import (
	"context"

	"github.com/ib-77/tokbench/pkg/bench/source"
)

// Runner executes the work unit over every source under one scheduling
// strategy. The returned ResultSet is ordered by source index and has
// exactly len(sources) entries; on error no results are returned.
type Runner interface {
	Name() string
	Run(ctx context.Context, sources []source.Source) (ResultSet, error)
}
