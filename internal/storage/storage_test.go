package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "warden.json"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ms(d time.Duration) *int64 {
	v := d.Milliseconds()
	return &v
}

func TestUsageRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	rec := UsageRecord{
		GuildID:    "g1",
		UserID:     "u1",
		Command:    "ping",
		Trigger:    TriggerText,
		Success:    true,
		DurationMS: ms(40 * time.Millisecond),
	}
	require.NoError(t, s.InsertUsage(rec))

	grouped, err := s.UsageByCommand(UsageFilter{GuildID: "g1"})
	require.NoError(t, err)
	require.Len(t, grouped["ping"], 1)

	got := grouped["ping"][0]
	assert.NotEmpty(t, got.ID, "missing ID is filled in")
	assert.False(t, got.CreatedAt.IsZero(), "missing timestamp is filled in")
	assert.Equal(t, "u1", got.UserID)
	d, ok := got.Duration()
	require.True(t, ok)
	assert.Equal(t, 40*time.Millisecond, d)
}

func TestUsagePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warden.json")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.InsertUsage(UsageRecord{UserID: "u1", Command: "roll", Trigger: TriggerSlash, Success: true}))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	count, err := s.CountUsage(UsageFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUsageFilters(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now()

	insert := func(guild, command string, age time.Duration) {
		require.NoError(t, s.InsertUsage(UsageRecord{
			GuildID:   guild,
			UserID:    "u",
			Command:   command,
			Trigger:   TriggerText,
			Success:   true,
			CreatedAt: now.Add(-age),
		}))
	}
	insert("g1", "ping", time.Hour)
	insert("g1", "ping", 48*time.Hour)
	insert("g2", "roll", time.Hour)
	insert("", "help", time.Hour) // direct message

	t.Run("guild scope", func(t *testing.T) {
		count, err := s.CountUsage(UsageFilter{GuildID: "g1"})
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("all guilds includes direct", func(t *testing.T) {
		count, err := s.CountUsage(UsageFilter{})
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("window", func(t *testing.T) {
		count, err := s.CountUsage(UsageFilter{GuildID: "g1", Since: now.Add(-24 * time.Hour)})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("unknown guild is empty, not an error", func(t *testing.T) {
		count, err := s.CountUsage(UsageFilter{GuildID: "nope"})
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestTopCommandsOrdering(t *testing.T) {
	s := newTestStorage(t)

	counts := map[string]int{"b": 3, "a": 3, "c": 1}
	for name, n := range counts {
		for i := 0; i < n; i++ {
			require.NoError(t, s.InsertUsage(UsageRecord{GuildID: "g", UserID: "u", Command: name, Trigger: TriggerText, Success: true}))
		}
	}

	top, err := s.TopCommands(UsageFilter{GuildID: "g"}, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, CommandCount{Command: "a", Count: 3}, top[0], "count tie breaks lexically")
	assert.Equal(t, CommandCount{Command: "b", Count: 3}, top[1])
}

func TestUsageRetentionTrim(t *testing.T) {
	old := usageRetention
	usageRetention = 5
	defer func() { usageRetention = old }()

	s := newTestStorage(t)
	for i := 0; i < 8; i++ {
		require.NoError(t, s.InsertUsage(UsageRecord{GuildID: "g", UserID: "u", Command: fmt.Sprintf("c%d", i), Trigger: TriggerText, Success: true}))
	}

	grouped, err := s.UsageByCommand(UsageFilter{GuildID: "g"})
	require.NoError(t, err)
	assert.Len(t, grouped, 5)
	assert.NotContains(t, grouped, "c0", "oldest records are trimmed")
	assert.Contains(t, grouped, "c7")
}

func TestFindPerformance(t *testing.T) {
	s := newTestStorage(t)

	insert := func(category MetricCategory, name string, d time.Duration, success bool) {
		require.NoError(t, s.InsertPerformance(PerformanceRecord{
			Category:   category,
			Name:       name,
			DurationMS: d.Milliseconds(),
			Success:    success,
		}))
	}
	insert(MetricCommand, "ping", 5*time.Millisecond, true)
	insert(MetricCommand, "roll", 90*time.Millisecond, true)
	insert(MetricCommand, "roll", 30*time.Millisecond, false)
	insert(MetricOutbound, "command_sync", 400*time.Millisecond, true)

	t.Run("category and name filter", func(t *testing.T) {
		recs, err := s.FindPerformance(PerfFilter{Category: MetricCommand, Name: "roll"})
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("success only", func(t *testing.T) {
		recs, err := s.FindPerformance(PerfFilter{Category: MetricCommand, Name: "roll", SuccessOnly: true})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.True(t, recs[0].Success)
	})

	t.Run("slowest first with limit", func(t *testing.T) {
		recs, err := s.FindPerformance(PerfFilter{ByDuration: true, Limit: 2})
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "command_sync", recs[0].Name)
		assert.Equal(t, "roll", recs[1].Name)
	})
}

func TestGroupToggles(t *testing.T) {
	s := newTestStorage(t)

	disabled, err := s.IsGroupDisabled("g", "fun")
	require.NoError(t, err)
	assert.False(t, disabled)

	require.NoError(t, s.DisableGroup("g", "fun"))
	require.NoError(t, s.DisableGroup("g", "fun")) // idempotent

	disabled, err = s.IsGroupDisabled("g", "fun")
	require.NoError(t, err)
	assert.True(t, disabled)

	groups, err := s.DisabledGroups("g")
	require.NoError(t, err)
	assert.Equal(t, []string{"fun"}, groups)

	disabled, err = s.IsGroupDisabled("other", "fun")
	require.NoError(t, err)
	assert.False(t, disabled, "toggles are per guild")

	require.NoError(t, s.EnableGroup("g", "fun"))
	disabled, err = s.IsGroupDisabled("g", "fun")
	require.NoError(t, err)
	assert.False(t, disabled)
}
