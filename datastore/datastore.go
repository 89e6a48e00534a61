// Package datastore implements the persistence engine: an in-memory key-value
// map mirrored to a single JSON file with atomic writes, periodic autosave,
// and rotating backups.
package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds datastore options.
type Config struct {
	FilePath         string
	AutoSaveInterval time.Duration
	BackupCount      int // rotating .bak files to keep, 0 disables backups
}

// DefaultConfig returns the configuration used by the bot.
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:         filePath,
		AutoSaveInterval: 10 * time.Second,
		BackupCount:      3,
	}
}

// DataStore is a thread-safe in-memory map persisted to disk as JSON.
type DataStore struct {
	mu           sync.RWMutex
	data         map[string]any
	config       *Config
	lastChecksum string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeMu sync.Mutex
	closed  bool
}

// New creates a DataStore with default configuration.
func New(filePath string) (*DataStore, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

// NewWithConfig creates a DataStore, loading existing data from disk if the
// file already exists and creating an empty file otherwise.
func NewWithConfig(config *Config) (*DataStore, error) {
	if config == nil || config.FilePath == "" {
		return nil, fmt.Errorf("datastore: file path is required")
	}

	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("datastore: failed to create directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ds := &DataStore{
		data:   make(map[string]any),
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := os.Stat(config.FilePath); os.IsNotExist(err) {
		if err := ds.writeFileAtomic([]byte("{}")); err != nil {
			cancel()
			return nil, fmt.Errorf("datastore: failed to create empty file: %w", err)
		}
	} else if err == nil {
		if err := ds.loadFromFile(); err != nil {
			cancel()
			return nil, fmt.Errorf("datastore: failed to load %s: %w", config.FilePath, err)
		}
	} else {
		cancel()
		return nil, fmt.Errorf("datastore: failed to stat %s: %w", config.FilePath, err)
	}

	if config.AutoSaveInterval > 0 {
		ds.wg.Add(1)
		go ds.autoSave()
	}

	return ds, nil
}

// Add stores a key-value pair.
func (ds *DataStore) Add(key string, value any) {
	if ds.isClosed() {
		return
	}
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.data[key] = value
}

// Get retrieves a value by key.
func (ds *DataStore) Get(key string) (any, bool) {
	if ds.isClosed() {
		return nil, false
	}
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	value, exists := ds.data[key]
	return value, exists
}

// Delete removes a key-value pair.
func (ds *DataStore) Delete(key string) {
	if ds.isClosed() {
		return
	}
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.data, key)
}

// Keys returns a snapshot of all stored keys.
func (ds *DataStore) Keys() []string {
	if ds.isClosed() {
		return nil
	}
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	keys := make([]string, 0, len(ds.data))
	for k := range ds.data {
		keys = append(keys, k)
	}
	return keys
}

// SaveToFile forces an immediate save to disk.
func (ds *DataStore) SaveToFile() error {
	if ds.isClosed() {
		return fmt.Errorf("datastore is closed")
	}
	return ds.saveToFile()
}

// Close stops the autosave loop and performs a final save.
func (ds *DataStore) Close() error {
	ds.closeMu.Lock()
	if ds.closed {
		ds.closeMu.Unlock()
		return nil
	}
	ds.closed = true
	ds.closeMu.Unlock()

	ds.cancel()
	ds.wg.Wait()
	return ds.saveToFile()
}

func (ds *DataStore) isClosed() bool {
	ds.closeMu.Lock()
	defer ds.closeMu.Unlock()
	return ds.closed
}

func (ds *DataStore) autoSave() {
	defer ds.wg.Done()
	ticker := time.NewTicker(ds.config.AutoSaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ds.ctx.Done():
			return
		case <-ticker.C:
			if err := ds.saveToFile(); err != nil {
				log.Printf("[ERR] Datastore autosave failed: %v", err)
			}
		}
	}
}

// saveToFile marshals the map and writes it atomically, skipping the write
// when the checksum matches the last saved state.
func (ds *DataStore) saveToFile() error {
	ds.mu.RLock()
	data, err := json.MarshalIndent(ds.data, "", "  ")
	ds.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])
	if checksum == ds.lastChecksum {
		return nil
	}

	if ds.config.BackupCount > 0 {
		if err := ds.rotateBackups(); err != nil {
			log.Printf("[WARN] Datastore backup rotation failed: %v", err)
		}
	}

	if err := ds.writeFileAtomic(data); err != nil {
		return err
	}

	ds.lastChecksum = checksum
	return nil
}

func (ds *DataStore) loadFromFile() error {
	data, err := os.ReadFile(ds.config.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	loaded := make(map[string]any)
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("file is not valid JSON: %w", err)
	}

	ds.mu.Lock()
	ds.data = loaded
	ds.mu.Unlock()

	sum := sha256.Sum256(data)
	ds.lastChecksum = hex.EncodeToString(sum[:])
	return nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// over the target, so a crash mid-write never corrupts the store.
func (ds *DataStore) writeFileAtomic(data []byte) error {
	dir := filepath.Dir(ds.config.FilePath)
	tmp, err := os.CreateTemp(dir, ".datastore-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, ds.config.FilePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// rotateBackups shifts file.bak.N up and copies the current file to .bak.1.
func (ds *DataStore) rotateBackups() error {
	if _, err := os.Stat(ds.config.FilePath); os.IsNotExist(err) {
		return nil
	}

	for i := ds.config.BackupCount; i > 1; i-- {
		older := fmt.Sprintf("%s.bak.%d", ds.config.FilePath, i-1)
		newer := fmt.Sprintf("%s.bak.%d", ds.config.FilePath, i)
		if _, err := os.Stat(older); err == nil {
			if err := os.Rename(older, newer); err != nil {
				return err
			}
		}
	}

	data, err := os.ReadFile(ds.config.FilePath)
	if err != nil {
		return err
	}
	return os.WriteFile(fmt.Sprintf("%s.bak.1", ds.config.FilePath), data, 0644)
}
