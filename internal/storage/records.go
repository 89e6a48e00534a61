package storage

import "time"

// Trigger marks which protocol produced a usage record.
type Trigger string

const (
	TriggerText  Trigger = "text"
	TriggerSlash Trigger = "slash"
)

// MetricCategory classifies a performance record.
type MetricCategory string

const (
	MetricCommand  MetricCategory = "command"
	MetricStorage  MetricCategory = "storage"
	MetricOutbound MetricCategory = "outbound"
	MetricEvent    MetricCategory = "event"
	MetricOther    MetricCategory = "other"
)

// UsageRecord is one immutable fact about a command invocation. Records are
// append-only; nothing in the bot mutates or deletes them after insert.
type UsageRecord struct {
	ID         string    `json:"id"`
	GuildID    string    `json:"guild_id,omitempty"`
	UserID     string    `json:"user_id"`
	Command    string    `json:"command"`
	Trigger    Trigger   `json:"trigger"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	DurationMS *int64    `json:"duration_ms,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Duration returns the recorded duration and whether one was recorded at all.
// A record without a duration is not a zero-duration record.
func (r UsageRecord) Duration() (time.Duration, bool) {
	if r.DurationMS == nil {
		return 0, false
	}
	return time.Duration(*r.DurationMS) * time.Millisecond, true
}

// PerformanceRecord is one immutable timing fact about a traced operation.
type PerformanceRecord struct {
	ID         string            `json:"id"`
	Category   MetricCategory    `json:"category"`
	Name       string            `json:"name"`
	DurationMS int64             `json:"duration_ms"`
	Success    bool              `json:"success"`
	Meta       map[string]string `json:"meta,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Duration returns the recorded duration.
func (r PerformanceRecord) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

// CommandCount pairs a command name with its invocation count.
type CommandCount struct {
	Command string
	Count   int
}

// UsageFilter narrows usage queries. A zero GuildID matches every guild
// (including direct messages); a zero Since means unbounded history.
type UsageFilter struct {
	GuildID string
	Since   time.Time
}

// PerfFilter narrows performance queries. Zero fields are ignored.
type PerfFilter struct {
	Category    MetricCategory
	Name        string
	Since       time.Time
	SuccessOnly bool
	ByDuration  bool // order slowest first
	Limit       int  // 0 = no limit
}
