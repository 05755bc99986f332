package work

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ib-77/tokbench/pkg/bench"
	"github.com/ib-77/tokbench/pkg/bench/chain"
	"github.com/ib-77/tokbench/pkg/bench/solo"
	"github.com/ib-77/tokbench/pkg/bench/source"
)

// Unit computes the scalar result for one source. It must not touch shared
// program state; runners call it from whichever goroutine owns the source.
type Unit func(ctx context.Context, src source.Source) (int, error)

// Counter counts target tokens in a source line by line.
type Counter struct {
	matcher Matcher
}

func NewCounter(m Matcher) *Counter {
	return &Counter{matcher: m}
}

func (c *Counter) Matcher() Matcher {
	return c.matcher
}

// Unit exposes Compute as a work Unit.
func (c *Counter) Unit() Unit {
	return c.Compute
}

// Compute opens src, scans it and returns the number of matching tokens.
// Open and read failures match bench.ErrSourceUnreadable; a line that is not
// valid UTF-8 matches bench.ErrSourceCorrupt. An empty source counts 0. An
// opened stream is always closed, also when ctx is cancelled after Open.
func (c *Counter) Compute(ctx context.Context, src source.Source) (int, error) {
	opened := chain.ThenTry(chain.FromValue(ctx, 0, src), open)
	counted := chain.Finally(opened,
		func(ctx context.Context, rc io.ReadCloser) bench.Result[int] {
			defer rc.Close()
			return solo.Try(ctx, solo.Succeed(0, src.Name()), func(ctx context.Context, name string) (int, error) {
				return c.scan(ctx, name, rc)
			})
		},
		func(_ context.Context, err error) bench.Result[int] { return bench.Fail[int](0, err) },
		func(_ context.Context, err error) bench.Result[int] { return bench.Cancel[int](0, err) })
	return counted.Result(), counted.Err()
}

func open(_ context.Context, src source.Source) (io.ReadCloser, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", bench.ErrSourceUnreadable, src.Name(), err)
	}
	return rc, nil
}

func (c *Counter) scan(ctx context.Context, name string, r io.Reader) (int, error) {
	reader := bufio.NewReader(r)
	count := 0
	lineNo := 0
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			line = strings.TrimRight(line, "\r\n")
			if !utf8.ValidString(line) {
				return 0, fmt.Errorf("%w: %s line %d is not valid UTF-8", bench.ErrSourceCorrupt, name, lineNo)
			}
			count += c.matcher.CountLine(line)
		}

		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return 0, fmt.Errorf("%w: read %s: %w", bench.ErrSourceUnreadable, name, err)
		}
	}
}
