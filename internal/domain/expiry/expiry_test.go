package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unixEpochTicks is the FILETIME value for 1970-01-01T00:00:00Z.
const unixEpochTicks = 116444736000000000

func TestFromFileTime(t *testing.T) {
	t.Run("zero ticks is the FILETIME epoch", func(t *testing.T) {
		got, err := FromFileTime(0)
		require.NoError(t, err)
		assert.Equal(t, time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("unix epoch", func(t *testing.T) {
		got, err := FromFileTime(unixEpochTicks)
		require.NoError(t, err)
		assert.Equal(t, time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("sub-second ticks", func(t *testing.T) {
		got, err := FromFileTime(unixEpochTicks + 5)
		require.NoError(t, err)
		assert.Equal(t, time.Date(1970, time.January, 1, 0, 0, 0, 500, time.UTC), got)
	})

	t.Run("each tick is 100ns", func(t *testing.T) {
		base, err := FromFileTime(unixEpochTicks)
		require.NoError(t, err)
		later, err := FromFileTime(unixEpochTicks + 10_000_000)
		require.NoError(t, err)
		assert.Equal(t, time.Second, later.Sub(base))
	})

	t.Run("negative ticks rejected", func(t *testing.T) {
		_, err := FromFileTime(-1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNegativeTicks)
	})

	t.Run("out-of-range ticks rejected", func(t *testing.T) {
		// Roughly year 31000; far beyond any plausible directory value.
		_, err := FromFileTime(1 << 62)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTicksOutOfRange)
	})
}

func TestParseLastSet(t *testing.T) {
	t.Run("all-digit value is a tick count", func(t *testing.T) {
		got, err := ParseLastSet("116444736000000000")
		require.NoError(t, err)
		assert.Equal(t, time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("generalized time", func(t *testing.T) {
		got, err := ParseLastSet("20250614083000Z")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.June, 14, 8, 30, 0, 0, time.UTC), got)
	})

	t.Run("rfc3339 with offset is normalized to UTC", func(t *testing.T) {
		got, err := ParseLastSet("2025-06-14T10:30:00+02:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.June, 14, 8, 30, 0, 0, time.UTC), got)
	})

	t.Run("zoneless timestamp assumes UTC", func(t *testing.T) {
		got, err := ParseLastSet("2025-06-14 08:30:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, time.June, 14, 8, 30, 0, 0, time.UTC), got)
		assert.Equal(t, time.UTC, got.Location())
	})

	t.Run("empty value rejected", func(t *testing.T) {
		_, err := ParseLastSet("  ")
		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := ParseLastSet("not-a-timestamp")
		assert.Error(t, err)
	})

	t.Run("negative tick string rejected", func(t *testing.T) {
		_, err := ParseLastSet("-5")
		assert.ErrorIs(t, err, ErrNegativeTicks)
	})
}

func TestCalculatorStatus(t *testing.T) {
	calc := NewCalculator(90 * 24 * time.Hour)
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	t.Run("expiry is last set plus window", func(t *testing.T) {
		lastSet := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		st := calc.Status(lastSet, now)
		assert.Equal(t, lastSet.Add(90*24*time.Hour), st.ExpiresAt)
	})

	t.Run("85 days old leaves 5 days", func(t *testing.T) {
		st := calc.Status(now.Add(-85*24*time.Hour), now)
		assert.Equal(t, 5, st.DaysLeft)
	})

	t.Run("10 days old leaves 80 days", func(t *testing.T) {
		st := calc.Status(now.Add(-10*24*time.Hour), now)
		assert.Equal(t, 80, st.DaysLeft)
	})

	t.Run("partial days floor downward", func(t *testing.T) {
		// 4 days and 20 hours remaining reads as 4 whole days.
		st := calc.Status(now.Add(-85*24*time.Hour).Add(-4*time.Hour), now)
		assert.Equal(t, 4, st.DaysLeft)
	})

	t.Run("one hour past expiry is negative", func(t *testing.T) {
		st := calc.Status(now.Add(-90*24*time.Hour).Add(-time.Hour), now)
		assert.Equal(t, -1, st.DaysLeft)
	})

	t.Run("advancing now by 24h decreases days left by one", func(t *testing.T) {
		lastSet := now.Add(-42 * 24 * time.Hour)
		first := calc.Status(lastSet, now)
		second := calc.Status(lastSet, now.Add(24*time.Hour))
		assert.Equal(t, first.DaysLeft-1, second.DaysLeft)
	})

	t.Run("window is configurable", func(t *testing.T) {
		short := NewCalculator(30 * 24 * time.Hour)
		st := short.Status(now.Add(-28*24*time.Hour), now)
		assert.Equal(t, 2, st.DaysLeft)
	})
}
