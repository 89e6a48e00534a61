// Package storage is the persistence collaborator: typed documents over the
// JSON-file datastore, split into per-guild settings and append-only
// usage/performance buckets.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"server-warden/datastore"
)

const (
	guildKeyPrefix = "guild:"
	usageKeyPrefix = "usage:"
	directBucket   = "direct" // usage bucket for commands run outside a guild
	perfKey        = "perf"
)

// Retention caps: append-only buckets on a JSON-file store need a bound.
// Variables so tests can exercise trimming without 10k inserts.
var (
	usageRetention = 10000 // newest records kept per usage bucket
	perfRetention  = 10000 // newest performance records kept
)

// Storage wraps the datastore with the documents the bot needs.
type Storage struct {
	ds *datastore.DataStore

	// guards read-modify-write cycles on list buckets; the datastore only
	// protects individual Get/Add calls.
	mu sync.Mutex
}

// guildRecord is the per-guild settings document.
type guildRecord struct {
	DisabledGroups []string `json:"disabled_groups,omitempty"`
}

// New opens (or creates) the storage file.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes and closes the underlying datastore.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// decode round-trips a datastore value (a map or slice after a disk load)
// into a typed document.
func decode[T any](v any) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("error marshalling stored value: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("error unmarshalling stored value: %w", err)
	}
	return out, nil
}

func (s *Storage) getGuildRecord(guildID string) (*guildRecord, error) {
	v, exists := s.ds.Get(guildKeyPrefix + guildID)
	if !exists {
		return &guildRecord{}, nil
	}
	rec, err := decode[guildRecord](v)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Storage) putGuildRecord(guildID string, rec *guildRecord) {
	s.ds.Add(guildKeyPrefix+guildID, rec)
}

// DisableGroup marks a command group as disabled for a guild.
func (s *Storage) DisableGroup(guildID, group string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.getGuildRecord(guildID)
	if err != nil {
		return err
	}
	for _, g := range rec.DisabledGroups {
		if g == group {
			return nil
		}
	}
	rec.DisabledGroups = append(rec.DisabledGroups, group)
	s.putGuildRecord(guildID, rec)
	return nil
}

// EnableGroup removes a group from a guild's disabled list.
func (s *Storage) EnableGroup(guildID, group string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.getGuildRecord(guildID)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(rec.DisabledGroups))
	for _, g := range rec.DisabledGroups {
		if g != group {
			kept = append(kept, g)
		}
	}
	rec.DisabledGroups = kept
	s.putGuildRecord(guildID, rec)
	return nil
}

// IsGroupDisabled reports whether a command group is disabled for a guild.
func (s *Storage) IsGroupDisabled(guildID, group string) (bool, error) {
	rec, err := s.getGuildRecord(guildID)
	if err != nil {
		return false, err
	}
	for _, g := range rec.DisabledGroups {
		if g == group {
			return true, nil
		}
	}
	return false, nil
}

// DisabledGroups returns a guild's disabled command groups.
func (s *Storage) DisabledGroups(guildID string) ([]string, error) {
	rec, err := s.getGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return rec.DisabledGroups, nil
}

func usageBucketKey(guildID string) string {
	if guildID == "" {
		return usageKeyPrefix + directBucket
	}
	return usageKeyPrefix + guildID
}

// usageBucketKeys returns the datastore keys holding usage records for a
// filter: one bucket when a guild is named, every usage bucket otherwise.
func (s *Storage) usageBucketKeys(f UsageFilter) []string {
	if f.GuildID != "" {
		return []string{usageBucketKey(f.GuildID)}
	}
	var keys []string
	for _, k := range s.ds.Keys() {
		if strings.HasPrefix(k, usageKeyPrefix) {
			keys = append(keys, k)
		}
	}
	return keys
}
