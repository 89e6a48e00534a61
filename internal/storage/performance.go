package storage

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// InsertPerformance appends a performance record, trimming the bucket to the
// retention cap. Missing ID and timestamp are filled in.
func (s *Storage) InsertPerformance(rec PerformanceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadPerfBucket()
	if err != nil {
		return err
	}

	records = append(records, rec)
	if len(records) > perfRetention {
		records = records[len(records)-perfRetention:]
	}
	s.ds.Add(perfKey, records)
	return nil
}

// FindPerformance returns performance records matching the filter, optionally
// ordered slowest first and truncated to the filter's limit.
func (s *Storage) FindPerformance(f PerfFilter) ([]PerformanceRecord, error) {
	records, err := s.loadPerfBucket()
	if err != nil {
		return nil, err
	}

	var out []PerformanceRecord
	for _, r := range records {
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		if f.Name != "" && r.Name != f.Name {
			continue
		}
		if !f.Since.IsZero() && r.CreatedAt.Before(f.Since) {
			continue
		}
		if f.SuccessOnly && !r.Success {
			continue
		}
		out = append(out, r)
	}

	if f.ByDuration {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DurationMS > out[j].DurationMS
		})
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Storage) loadPerfBucket() ([]PerformanceRecord, error) {
	v, exists := s.ds.Get(perfKey)
	if !exists {
		return nil, nil
	}
	return decode[[]PerformanceRecord](v)
}
