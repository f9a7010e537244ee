package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trivia-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ResultStore is a Redis implementation of app.ResultStore. Results are
// written with a TTL and read with GETDEL so a result is handed over once
// even across instances.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) Put(ctx context.Context, token string, result domain.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return s.client.Set(ctx, s.key(token), data, s.ttl).Err()
}

func (s *ResultStore) Take(ctx context.Context, token string) (domain.GameResult, error) {
	data, err := s.client.GetDel(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.GameResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.GameResult{}, fmt.Errorf("take result: %w", err)
	}
	var result domain.GameResult
	if err := json.Unmarshal(data, &result); err != nil {
		return domain.GameResult{}, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}

func (s *ResultStore) key(token string) string {
	return "trivia:result:" + token
}
