package harness

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"

	"github.com/ib-77/tokbench/pkg/bench"
	"github.com/ib-77/tokbench/pkg/logger"
)

const (
	histMin     = 1
	histMax     = int64(time.Hour / time.Microsecond)
	histSigFigs = 3
)

// newHistogram tracks durations in microseconds from 1µs to one hour.
func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(histMin, histMax, histSigFigs)
}

// record clamps d into the trackable range, so RecordValue only fails if
// the histogram bounds and the clamp disagree.
func record(h *hdrhistogram.Histogram, d time.Duration) bool {
	v := d.Microseconds()
	v = max(v, histMin)
	v = min(v, histMax)
	if err := h.RecordValue(v); err != nil {
		logger.Warn("latency sample dropped", zap.Duration("elapsed", d), zap.Error(err))
		return false
	}
	return true
}

func summarize(h *hdrhistogram.Histogram) *bench.Latency {
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return &bench.Latency{
		Runs: int(h.TotalCount()),
		Min:  us(h.Min()),
		P50:  us(h.ValueAtQuantile(50)),
		P99:  us(h.ValueAtQuantile(99)),
		Max:  us(h.Max()),
	}
}
