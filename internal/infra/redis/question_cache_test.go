package redis

import (
	"context"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/seed"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuestionCacheCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	bank := &countingBank{QuestionBank: newSeedBank(t)}
	cache := NewQuestionCache(client, bank, time.Minute)

	qs, err := cache.Questions(context.Background(), seed.GeneralID)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if bank.calls != 1 {
		t.Fatalf("expected loader called once, got %d", bank.calls)
	}
	if !mr.Exists("trivia:category:1:questions") {
		t.Fatalf("expected redis key to be set")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := cache.Questions(context.Background(), seed.GeneralID)
	if err != nil {
		t.Fatalf("cached questions: %v", err)
	}
	if bank.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", bank.calls)
	}
	if len(cached) != len(qs) || cached[0].Explanation == "" {
		t.Fatalf("expected full questions from cache, got %+v", cached)
	}

	if err := cache.Invalidate(context.Background(), seed.GeneralID); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = cache.Questions(context.Background(), seed.GeneralID)
	if bank.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", bank.calls)
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	bank := &countingBank{QuestionBank: newSeedBank(t)}
	cache := NewQuestionCache(newClient(mr), bank, time.Minute)

	_, _ = cache.Questions(context.Background(), seed.MoviesID)
	mr.FastForward(2 * time.Minute)
	_, _ = cache.Questions(context.Background(), seed.MoviesID)
	if bank.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls=%d", bank.calls)
	}
}

type countingBank struct {
	app.QuestionBank
	calls int
}

func (b *countingBank) Questions(ctx context.Context, categoryID int64) ([]domain.Question, error) {
	b.calls++
	return b.QuestionBank.Questions(ctx, categoryID)
}

func newSeedBank(t *testing.T) *memory.StaticQuestionBank {
	t.Helper()
	bank, err := memory.NewStaticQuestionBank(seed.Categories(), seed.Questions())
	if err != nil {
		t.Fatalf("seed bank: %v", err)
	}
	return bank
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
