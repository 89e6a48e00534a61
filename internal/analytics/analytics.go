// Package analytics computes read-side rollups over the recorded usage and
// performance facts. Reads that fail inside the persistence layer degrade to
// empty results; analytics never propagates a storage error to its caller.
package analytics

import (
	"log"
	"sort"
	"time"

	"server-warden/internal/storage"
)

// Reader is the slice of the persistence collaborator the aggregator needs.
type Reader interface {
	CountUsage(f storage.UsageFilter) (int, error)
	UsageByCommand(f storage.UsageFilter) (map[string][]storage.UsageRecord, error)
	TopCommands(f storage.UsageFilter, limit int) ([]storage.CommandCount, error)
	FindPerformance(f storage.PerfFilter) ([]storage.PerformanceRecord, error)
}

// Aggregator answers usage and performance questions from recorded facts.
type Aggregator struct {
	store Reader
	now   func() time.Time
}

// New returns an aggregator reading from store.
func New(store Reader) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// CommandStat is one command's rollup within a window.
type CommandStat struct {
	Command     string
	Count       int
	SuccessRate float64
	AvgDuration time.Duration // over records that carried a duration
}

// CommandStats groups usage within the window (0 = unbounded) by command,
// optionally filtered to one guild. The average duration counts only records
// that recorded a duration; the success rate of an empty group is 0.
func (a *Aggregator) CommandStats(guildID string, window time.Duration) []CommandStat {
	grouped, err := a.store.UsageByCommand(a.usageFilter(guildID, window))
	if err != nil {
		log.Printf("[WARN] Failed to read usage stats: %v", err)
		return nil
	}

	stats := make([]CommandStat, 0, len(grouped))
	for name, recs := range grouped {
		stat := CommandStat{Command: name, Count: len(recs)}

		successes := 0
		var durTotal time.Duration
		durCount := 0
		for _, r := range recs {
			if r.Success {
				successes++
			}
			if d, ok := r.Duration(); ok {
				durTotal += d
				durCount++
			}
		}
		if stat.Count > 0 {
			stat.SuccessRate = float64(successes) / float64(stat.Count)
		}
		if durCount > 0 {
			stat.AvgDuration = durTotal / time.Duration(durCount)
		}
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Command < stats[j].Command
	})
	return stats
}

// TotalCommandCount counts usage records, optionally scoped to a guild and a
// window (0 = all retained history).
func (a *Aggregator) TotalCommandCount(guildID string, window time.Duration) int {
	n, err := a.store.CountUsage(a.usageFilter(guildID, window))
	if err != nil {
		log.Printf("[WARN] Failed to count usage: %v", err)
		return 0
	}
	return n
}

// MostUsedCommands returns the top commands by all-time count, descending,
// ties broken by ascending command name, truncated to limit.
func (a *Aggregator) MostUsedCommands(limit int, guildID string) []storage.CommandCount {
	counts, err := a.store.TopCommands(storage.UsageFilter{GuildID: guildID}, limit)
	if err != nil {
		log.Printf("[WARN] Failed to read top commands: %v", err)
		return nil
	}
	return counts
}

// AveragePerformance averages the duration of successful records matching
// category and name within the window. The second return is false when no
// record matched; a zero duration is never a disguised "no data".
func (a *Aggregator) AveragePerformance(category storage.MetricCategory, name string, window time.Duration) (time.Duration, bool) {
	records, err := a.store.FindPerformance(storage.PerfFilter{
		Category:    category,
		Name:        name,
		Since:       a.windowStart(window),
		SuccessOnly: true,
	})
	if err != nil {
		log.Printf("[WARN] Failed to read performance records: %v", err)
		return 0, false
	}
	if len(records) == 0 {
		return 0, false
	}

	var total time.Duration
	for _, r := range records {
		total += r.Duration()
	}
	return total / time.Duration(len(records)), true
}

// SlowestMetrics returns the slowest records over all retained history,
// optionally filtered by category, descending by duration, truncated to limit.
func (a *Aggregator) SlowestMetrics(category storage.MetricCategory, limit int) []storage.PerformanceRecord {
	records, err := a.store.FindPerformance(storage.PerfFilter{
		Category:   category,
		ByDuration: true,
		Limit:      limit,
	})
	if err != nil {
		log.Printf("[WARN] Failed to read performance records: %v", err)
		return nil
	}
	return records
}

func (a *Aggregator) usageFilter(guildID string, window time.Duration) storage.UsageFilter {
	return storage.UsageFilter{GuildID: guildID, Since: a.windowStart(window)}
}

func (a *Aggregator) windowStart(window time.Duration) time.Time {
	if window <= 0 {
		return time.Time{}
	}
	return a.now().Add(-window)
}
