package memory

import (
	"context"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultStore.
// Expired entries are dropped lazily on access.
type ResultStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.Mutex
	results map[string]storedResult
}

type storedResult struct {
	result    domain.GameResult
	expiresAt time.Time
}

func NewResultStore(ttl time.Duration) *ResultStore {
	return &ResultStore{
		ttl:     ttl,
		clock:   time.Now,
		results: make(map[string]storedResult),
	}
}

func (s *ResultStore) Put(_ context.Context, token string, result domain.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.sweepLocked(now)
	s.results[token] = storedResult{result: result, expiresAt: now.Add(s.ttl)}
	return nil
}

// Take returns the result once; the entry is removed either way.
func (s *ResultStore) Take(_ context.Context, token string) (domain.GameResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.results[token]
	if !ok {
		return domain.GameResult{}, domain.ErrResultNotFound
	}
	delete(s.results, token)
	if s.ttl > 0 && !entry.expiresAt.After(s.clock()) {
		return domain.GameResult{}, domain.ErrResultNotFound
	}
	return entry.result, nil
}

func (s *ResultStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for token, entry := range s.results {
		if !entry.expiresAt.After(now) {
			delete(s.results, token)
		}
	}
}
