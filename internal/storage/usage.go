package storage

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// InsertUsage appends a usage record to its guild bucket, trimming the bucket
// to the retention cap. Missing ID and timestamp are filled in.
func (s *Storage) InsertUsage(rec UsageRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := usageBucketKey(rec.GuildID)
	records, err := s.loadUsageBucket(key)
	if err != nil {
		return err
	}

	records = append(records, rec)
	if len(records) > usageRetention {
		records = records[len(records)-usageRetention:]
	}
	s.ds.Add(key, records)
	return nil
}

// CountUsage returns the number of usage records matching the filter.
func (s *Storage) CountUsage(f UsageFilter) (int, error) {
	records, err := s.findUsage(f)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// UsageByCommand groups matching usage records by command name.
func (s *Storage) UsageByCommand(f UsageFilter) (map[string][]UsageRecord, error) {
	records, err := s.findUsage(f)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]UsageRecord)
	for _, r := range records {
		grouped[r.Command] = append(grouped[r.Command], r)
	}
	return grouped, nil
}

// TopCommands returns per-command counts ordered by count descending, ties
// broken by ascending command name so the output is deterministic, truncated
// to limit when limit > 0.
func (s *Storage) TopCommands(f UsageFilter, limit int) ([]CommandCount, error) {
	grouped, err := s.UsageByCommand(f)
	if err != nil {
		return nil, err
	}

	counts := make([]CommandCount, 0, len(grouped))
	for name, recs := range grouped {
		counts = append(counts, CommandCount{Command: name, Count: len(recs)})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Command < counts[j].Command
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

func (s *Storage) findUsage(f UsageFilter) ([]UsageRecord, error) {
	var out []UsageRecord
	for _, key := range s.usageBucketKeys(f) {
		records, err := s.loadUsageBucket(key)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if !f.Since.IsZero() && r.CreatedAt.Before(f.Since) {
				continue
			}
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Storage) loadUsageBucket(key string) ([]UsageRecord, error) {
	v, exists := s.ds.Get(key)
	if !exists {
		return nil, nil
	}
	return decode[[]UsageRecord](v)
}
