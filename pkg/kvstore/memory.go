package kvstore

import (
	"context"
	"encoding/json"
	"sync"
)

type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
	sequences   map[string]int64
}

// NewMemoryStore creates a process-local store
func NewMemoryStore() Store {
	return &memoryStore{
		collections: make(map[string]map[string][]byte),
		sequences:   make(map[string]int64),
	}
}

func (s *memoryStore) Get(_ context.Context, collection, key string, dest interface{}) error {
	s.mu.RLock()
	raw, ok := s.collections[collection][key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (s *memoryStore) Set(_ context.Context, collection, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	records, ok := s.collections[collection]
	if !ok {
		records = make(map[string][]byte)
		s.collections[collection] = records
	}
	records[key] = raw
	return nil
}

func (s *memoryStore) Iterate(ctx context.Context, collection string, fn IterateFunc) error {
	// snapshot so fn may call back into the store
	s.mu.RLock()
	records := s.collections[collection]
	keys := make([]string, 0, len(records))
	values := make(map[string][]byte, len(records))
	for k, v := range records {
		keys = append(keys, k)
		values[k] = v
	}
	s.mu.RUnlock()

	sortKeys(keys)
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryStore) NextSequence(_ context.Context, collection string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[collection]++
	return s.sequences[collection], nil
}

func (s *memoryStore) Close() error {
	return nil
}
