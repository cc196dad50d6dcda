package metric_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insight-engine/metric"
)

func TestParseDay(t *testing.T) {
	d, err := metric.ParseDay("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", d.String())
	assert.Equal(t, "2025-03", d.MonthKey())

	_, err = metric.ParseDay("10/03/2025")
	assert.Error(t, err)
}

func TestDayOf_TruncatesToUTCMidnight(t *testing.T) {
	d := metric.DayOf(time.Date(2025, time.March, 10, 23, 59, 1, 0, time.UTC))
	assert.True(t, d.Equal(metric.NewDay(2025, time.March, 10)))
}

func TestWindow_HalfOpenStart(t *testing.T) {
	// GIVEN: A 7-day window ending March 10
	// WHEN: Checking membership at the boundaries
	// THEN: March 4..10 are inside; March 3 (the open start) and March 11 are not

	w := metric.WindowEnding(metric.NewDay(2025, time.March, 10), 7)

	assert.False(t, w.Contains(metric.NewDay(2025, time.March, 3)))
	assert.True(t, w.Contains(metric.NewDay(2025, time.March, 4)))
	assert.True(t, w.Contains(metric.NewDay(2025, time.March, 10)))
	assert.False(t, w.Contains(metric.NewDay(2025, time.March, 11)))
}

func TestWindow_ContainsExactlyNDays(t *testing.T) {
	end := metric.NewDay(2025, time.June, 30)
	w := metric.WindowEnding(end, 30)

	count := 0
	for d := end.AddDays(-40); !d.After(end.AddDays(5)); d = d.AddDays(1) {
		if w.Contains(d) {
			count++
		}
	}
	assert.Equal(t, 30, count)
}
