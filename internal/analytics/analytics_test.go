package analytics

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server-warden/internal/storage"
)

func newTestStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "warden.json"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertUsage(t *testing.T, s *storage.Storage, guild, command string, success bool, age time.Duration, dur *time.Duration) {
	t.Helper()
	rec := storage.UsageRecord{
		GuildID:   guild,
		UserID:    "u",
		Command:   command,
		Trigger:   storage.TriggerText,
		Success:   success,
		CreatedAt: time.Now().Add(-age),
	}
	if dur != nil {
		v := dur.Milliseconds()
		rec.DurationMS = &v
	}
	require.NoError(t, s.InsertUsage(rec))
}

func dptr(d time.Duration) *time.Duration { return &d }

func TestCommandStats(t *testing.T) {
	s := newTestStore(t)
	agg := New(s)

	t.Run("empty window returns empty", func(t *testing.T) {
		assert.Empty(t, agg.CommandStats("g", 7*24*time.Hour))
	})

	insertUsage(t, s, "g", "roll", true, time.Hour, dptr(100*time.Millisecond))
	insertUsage(t, s, "g", "roll", false, time.Hour, nil) // no duration recorded
	insertUsage(t, s, "g", "roll", true, time.Hour, dptr(200*time.Millisecond))
	insertUsage(t, s, "g", "roll", true, 30*24*time.Hour, dptr(time.Second)) // outside window
	insertUsage(t, s, "other", "ping", true, time.Hour, nil)

	t.Run("windowed guild rollup", func(t *testing.T) {
		stats := agg.CommandStats("g", 7*24*time.Hour)
		require.Len(t, stats, 1)

		st := stats[0]
		assert.Equal(t, "roll", st.Command)
		assert.Equal(t, 3, st.Count)
		assert.InDelta(t, 2.0/3.0, st.SuccessRate, 1e-9)
		// the duration-less record is excluded from the denominator
		assert.Equal(t, 150*time.Millisecond, st.AvgDuration)
	})

	t.Run("guild with no records returns empty, not an error", func(t *testing.T) {
		assert.Empty(t, agg.CommandStats("missing", 7*24*time.Hour))
	})
}

func TestTotalCommandCount(t *testing.T) {
	s := newTestStore(t)
	agg := New(s)

	insertUsage(t, s, "g", "ping", true, time.Hour, nil)
	insertUsage(t, s, "g", "ping", true, 30*24*time.Hour, nil)

	assert.Equal(t, 1, agg.TotalCommandCount("g", 7*24*time.Hour))
	assert.Equal(t, 2, agg.TotalCommandCount("g", 0), "zero window means unbounded history")
}

func TestMostUsedCommands(t *testing.T) {
	s := newTestStore(t)
	agg := New(s)

	counts := map[string]int{"a": 3, "b": 3, "c": 1}
	for name, n := range counts {
		for i := 0; i < n; i++ {
			insertUsage(t, s, "g", name, true, time.Hour, nil)
		}
	}

	top := agg.MostUsedCommands(2, "g")
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].Command, "tie broken by ascending name")
	assert.Equal(t, "b", top[1].Command)
}

func TestAveragePerformance(t *testing.T) {
	s := newTestStore(t)
	agg := New(s)

	t.Run("no data sentinel", func(t *testing.T) {
		avg, found := agg.AveragePerformance(storage.MetricCommand, "roll", 7*24*time.Hour)
		assert.False(t, found)
		assert.Zero(t, avg)
	})

	insert := func(d time.Duration, success bool) {
		require.NoError(t, s.InsertPerformance(storage.PerformanceRecord{
			Category:   storage.MetricCommand,
			Name:       "roll",
			DurationMS: d.Milliseconds(),
			Success:    success,
		}))
	}
	insert(100*time.Millisecond, true)
	insert(300*time.Millisecond, true)
	insert(5*time.Second, false) // failures never skew the average

	avg, found := agg.AveragePerformance(storage.MetricCommand, "roll", 7*24*time.Hour)
	require.True(t, found)
	assert.Equal(t, 200*time.Millisecond, avg)
}

func TestSlowestMetrics(t *testing.T) {
	s := newTestStore(t)
	agg := New(s)

	insert := func(category storage.MetricCategory, name string, d time.Duration) {
		require.NoError(t, s.InsertPerformance(storage.PerformanceRecord{
			Category:   category,
			Name:       name,
			DurationMS: d.Milliseconds(),
			Success:    true,
		}))
	}
	insert(storage.MetricCommand, "fast", 5*time.Millisecond)
	insert(storage.MetricCommand, "slow", 2*time.Second)
	insert(storage.MetricOutbound, "command_sync", time.Second)

	t.Run("all categories", func(t *testing.T) {
		recs := agg.SlowestMetrics("", 2)
		require.Len(t, recs, 2)
		assert.Equal(t, "slow", recs[0].Name)
		assert.Equal(t, "command_sync", recs[1].Name)
	})

	t.Run("category filter", func(t *testing.T) {
		recs := agg.SlowestMetrics(storage.MetricOutbound, 10)
		require.Len(t, recs, 1)
		assert.Equal(t, "command_sync", recs[0].Name)
	})
}

// failingReader simulates a broken persistence layer.
type failingReader struct{}

func (failingReader) CountUsage(storage.UsageFilter) (int, error) {
	return 0, errors.New("read failed")
}
func (failingReader) UsageByCommand(storage.UsageFilter) (map[string][]storage.UsageRecord, error) {
	return nil, errors.New("read failed")
}
func (failingReader) TopCommands(storage.UsageFilter, int) ([]storage.CommandCount, error) {
	return nil, errors.New("read failed")
}
func (failingReader) FindPerformance(storage.PerfFilter) ([]storage.PerformanceRecord, error) {
	return nil, errors.New("read failed")
}

func TestReadFailuresDegradeToEmpty(t *testing.T) {
	agg := New(failingReader{})

	assert.Empty(t, agg.CommandStats("g", time.Hour))
	assert.Zero(t, agg.TotalCommandCount("g", 0))
	assert.Empty(t, agg.MostUsedCommands(5, ""))
	assert.Empty(t, agg.SlowestMetrics("", 5))

	avg, found := agg.AveragePerformance(storage.MetricCommand, "x", time.Hour)
	assert.False(t, found)
	assert.Zero(t, avg)
}
