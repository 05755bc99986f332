package harness

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ib-77/tokbench/pkg/bench"
	"github.com/ib-77/tokbench/pkg/bench/source"
	"github.com/ib-77/tokbench/pkg/bench/work"
)

var vocabulary = []string{"the", "The", "THE", "then", "cat", "mat", "the.", ""}

// modelCount is the reference count: whitespace tokens equal to "the" or "The".
func modelCount(body string) int {
	n := 0
	for _, tok := range strings.Fields(body) {
		if tok == "the" || tok == "The" {
			n++
		}
	}
	return n
}

func drawBody(t *rapid.T, label string) string {
	words := rapid.SliceOfN(rapid.SampledFrom(vocabulary), 0, 12).Draw(t, label)
	seps := rapid.SliceOfN(rapid.SampledFrom([]string{" ", "\n", "\t", "  ", "\r\n"}), len(words), len(words)).Draw(t, label+"-sep")
	var b strings.Builder
	for i, w := range words {
		b.WriteString(w)
		b.WriteString(seps[i])
	}
	return b.String()
}

// TestProperty_StrategiesAgree checks that every strategy produces the
// same ResultSet for any ordering of the same sources.
func TestProperty_StrategiesAgree(t *testing.T) {
	unit := work.NewCounter(work.NewMatcher("the")).Unit()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "n")
		bodies := make([]string, n)
		for i := range bodies {
			bodies[i] = drawBody(t, "body")
		}
		bodies = rapid.Permutation(bodies).Draw(t, "order")

		want := make(bench.ResultSet, n)
		for i, b := range bodies {
			want[i] = bench.WorkResult{SourceIndex: i, Value: modelCount(b)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		sources := source.FromTexts(bodies...)
		for _, r := range allRunners(unit) {
			got, err := r.Run(ctx, sources)
			require.NoError(t, err, r.Name())
			require.Len(t, got, n, r.Name())
			require.Equal(t, want, got, r.Name())
		}
	})
}

// TestProperty_LengthAndIdempotence checks len(ResultSet) == N and that a
// second run returns the same set, for every strategy.
func TestProperty_LengthAndIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	unit := work.NewCounter(work.NewMatcher("the")).Unit()

	properties.Property("result set length equals source count", prop.ForAll(
		func(bodies []string) bool {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			sources := source.FromTexts(bodies...)
			for _, r := range allRunners(unit) {
				first, err := r.Run(ctx, sources)
				if err != nil || len(first) != len(bodies) {
					return false
				}
				second, err := r.Run(ctx, sources)
				if err != nil || len(second) != len(first) {
					return false
				}
				for i := range first {
					if first[i] != second[i] || first[i].SourceIndex != i {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.OneConstOf("the", "The the", "", "a the\nthe", "none")),
	))

	properties.TestingRun(t)
}
