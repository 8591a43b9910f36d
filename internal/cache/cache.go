package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/axpress-labs/scholard/models"
)

// Store holds one finished search result per (domain, calendar day).
// Entries are read whole and replaced whole; nothing mutates them in place.
type Store interface {
	Get(ctx context.Context, key string) ([]models.Paper, bool, error)
	Set(ctx context.Context, key string, papers []models.Paper) error
}

// Key builds the day-scoped cache key for a domain. Days are UTC so that
// every replica rolls over at the same instant.
func Key(domain models.Domain, day time.Time) string {
	return fmt.Sprintf("papersearch:%s:%s", domain, day.UTC().Format("2006-01-02"))
}

// memoryStore is the in-process fallback used when Redis is not configured
// and in tests.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string][]models.Paper
}

// NewMemoryStore creates an in-process cache store.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string][]models.Paper)}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]models.Paper, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	papers, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]models.Paper, len(papers))
	copy(out, papers)
	return out, true, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, papers []models.Paper) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]models.Paper, len(papers))
	copy(stored, papers)
	s.entries[key] = stored
	return nil
}
