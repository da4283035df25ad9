package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/smartbhoomi/smartbhoomi-api/internal/utils"
)

// MemoryStore is an in-process Store used by tests. It mirrors the Postgres
// store's version semantics so concurrency behavior can be exercised without
// a database.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	version int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string, dest interface{}) error {
	_, err := s.GetVersioned(ctx, key, dest)
	return err
}

func (s *MemoryStore) GetVersioned(_ context.Context, key string, dest interface{}) (int64, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return 0, utils.ErrKeyNotFound
	}
	if err := json.Unmarshal(entry.value, dest); err != nil {
		return 0, fmt.Errorf("decode value for key %s: %w", key, err)
	}
	return entry.version, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.entries[key]
	s.entries[key] = memoryEntry{value: raw, version: entry.version + 1}
	return nil
}

func (s *MemoryStore) SetVersioned(_ context.Context, key string, value interface{}, expectedVersion int64) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	current := int64(0)
	if ok {
		current = entry.version
	}
	if current != expectedVersion {
		return utils.ErrVersionConflict
	}
	s.entries[key] = memoryEntry{value: raw, version: current + 1}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) GetByPrefix(_ context.Context, prefix string) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0)
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	values := make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		values = append(values, json.RawMessage(s.entries[k].value))
	}
	return values, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
