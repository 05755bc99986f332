package harness

import (
	"fmt"
	"io"
	"time"

	"github.com/ib-77/tokbench/pkg/bench"
)

// Printer writes the human-readable report:
//
//	Sequential:
//	The word 'the' occurs 3 times in file 0.
//	Elapsed time: 1.20ms
//
// A failed strategy prints an Error line in place of its results.
type Printer struct {
	w      io.Writer
	target string
}

func NewPrinter(w io.Writer, target string) *Printer {
	return &Printer{w: w, target: target}
}

func (p *Printer) Emit(report bench.RunnerReport) error {
	if _, err := fmt.Fprintf(p.w, "%s:\n", report.Strategy); err != nil {
		return err
	}

	if report.Err != nil {
		if _, err := fmt.Fprintf(p.w, "Error: %v\n", report.Err); err != nil {
			return err
		}
	} else {
		for _, r := range report.Results {
			if _, err := fmt.Fprintf(p.w, "The word '%s' occurs %d times in file %d.\n",
				p.target, r.Value, r.SourceIndex); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(p.w, "Elapsed time: %s\n", FormatElapsed(report.Elapsed)); err != nil {
		return err
	}
	if l := report.Latency; l != nil {
		if _, err := fmt.Fprintf(p.w, "Latency: runs=%d min=%s p50=%s p99=%s max=%s\n", l.Runs,
			FormatElapsed(l.Min), FormatElapsed(l.P50), FormatElapsed(l.P99), FormatElapsed(l.Max)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(p.w)
	return err
}

// FormatElapsed prints d with two decimals in the largest unit that keeps
// the value at or above one, e.g. 12.35ms or 350.00µs.
func FormatElapsed(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%.2fns", float64(d))
	}
}
