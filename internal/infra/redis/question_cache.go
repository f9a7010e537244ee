package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionCache caches question sets in Redis and falls back to the inner
// bank on cache miss. Sets are stored as JSON:
//
//	SET trivia:category:{categoryID}:questions <json> EX <ttl>
//
// Explanations are part of the cached payload; the service strips them
// before questions reach a session.
type QuestionCache struct {
	app.QuestionBank
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionCache(client *redis.Client, inner app.QuestionBank, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		QuestionBank: inner,
		client:       client,
		ttl:          ttl,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) Questions(ctx context.Context, categoryID int64) ([]domain.Question, error) {
	key := questionsKey(categoryID)
	if qs, ok := c.lookup(ctx, key); ok {
		return qs, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if qs, ok := c.lookup(ctx, key); ok {
			return qs, nil
		}

		qs, err := c.QuestionBank.Questions(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(qs)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(ctx, key, data, c.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache questions for category %d failed: %v", categoryID, err)
		}
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops the cached set of a category.
func (c *QuestionCache) Invalidate(ctx context.Context, categoryID int64) error {
	return InvalidateQuestions(ctx, c.client, categoryID)
}

// InvalidateQuestions drops the cached sets of the given categories.
func InvalidateQuestions(ctx context.Context, client *redis.Client, categoryIDs ...int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		keys = append(keys, questionsKey(id))
	}
	return client.Del(ctx, keys...).Err()
}

func (c *QuestionCache) lookup(ctx context.Context, key string) ([]domain.Question, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached questions %s failed: %v", key, err)
		}
		return nil, false
	}
	var qs []domain.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		log.Printf("decode cached questions %s failed: %v", key, err)
		return nil, false
	}
	return qs, true
}

func questionsKey(categoryID int64) string {
	return "trivia:category:" + strconv.FormatInt(categoryID, 10) + ":questions"
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
