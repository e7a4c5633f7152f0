package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore — RefreshStore в памяти процесса.
// Истёкшие записи не видны через Get сразу, а физически удаляются Sweep.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memEntry
	now   func() time.Time
}

// NewMemoryStore создаёт пустое хранилище. now == nil означает time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}

	return &MemoryStore{items: make(map[string]memEntry), now: now}
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cache.memory.Set: %w", err)
	}

	s.mu.Lock()
	s.items[key] = memEntry{value: value, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	const op = "cache.memory.Get"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if !s.now().Before(e.expiresAt) {
		delete(s.items, key)
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return e.value, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cache.memory.Delete: %w", err)
	}

	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()

	return nil
}

// Sweep удаляет истёкшие записи и возвращает их количество.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.items {
		if !now.Before(e.expiresAt) {
			delete(s.items, k)
			removed++
		}
	}

	return removed
}

// Len возвращает число записей, включая ещё не вычищенные истёкшие.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

var _ RefreshStore = (*MemoryStore)(nil)
