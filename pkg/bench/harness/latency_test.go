package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_ClampsOutOfRangeDurations(t *testing.T) {
	t.Parallel()

	h := newHistogram()
	assert.True(t, record(h, 0))
	assert.True(t, record(h, 2*time.Hour))
	assert.True(t, record(h, 2*time.Millisecond))

	l := summarize(h)
	require.NotNil(t, l)
	assert.Equal(t, 3, l.Runs)
	assert.Equal(t, time.Microsecond, l.Min)
	assert.GreaterOrEqual(t, l.Max, time.Hour)
	assert.Equal(t, 2*time.Millisecond, l.P50)
}
