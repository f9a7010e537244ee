package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// StaticQuestionBank is a question bank backed by in-memory slices (useful for tests/demos).
type StaticQuestionBank struct {
	categories []domain.Category
	questions  []domain.Question
}

// NewStaticQuestionBank validates the data and returns a bank over it.
func NewStaticQuestionBank(categories []domain.Category, questions []domain.Question) (*StaticQuestionBank, error) {
	if err := domain.ValidateCategories(categories); err != nil {
		return nil, err
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
	}
	return &StaticQuestionBank{
		categories: append([]domain.Category(nil), categories...),
		questions:  append([]domain.Question(nil), questions...),
	}, nil
}

func (b *StaticQuestionBank) Categories(_ context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), b.categories...), nil
}

func (b *StaticQuestionBank) Category(_ context.Context, id int64) (domain.Category, error) {
	for _, c := range b.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Category{}, domain.ErrCategoryNotFound
}

func (b *StaticQuestionBank) Questions(ctx context.Context, categoryID int64) ([]domain.Question, error) {
	if _, err := b.Category(ctx, categoryID); err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0)
	for _, q := range b.questions {
		if q.CategoryID == categoryID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (b *StaticQuestionBank) Question(_ context.Context, id int64) (domain.Question, error) {
	for _, q := range b.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

// CachedQuestionBank caches question sets per category with TTL to avoid
// repeated DB hits. Everything else passes through to the inner bank.
type CachedQuestionBank struct {
	app.QuestionBank
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[int64]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewCachedQuestionBank(inner app.QuestionBank, ttl time.Duration) *CachedQuestionBank {
	return &CachedQuestionBank{
		QuestionBank: inner,
		ttl:          ttl,
		clock:        time.Now,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:        make(map[int64]cachedQuestions),
	}
}

func (b *CachedQuestionBank) Questions(ctx context.Context, categoryID int64) ([]domain.Question, error) {
	if qs, ok := b.lookup(categoryID, b.clock()); ok {
		return qs, nil
	}

	result, err, _ := b.sf.Do(strconv.FormatInt(categoryID, 10), func() (interface{}, error) {
		now := b.clock()
		if qs, ok := b.lookup(categoryID, now); ok {
			return qs, nil
		}

		qs, err := b.QuestionBank.Questions(ctx, categoryID)
		if err != nil {
			return nil, err
		}

		expiresAt := now.Add(b.ttlWithJitter())
		b.mu.Lock()
		b.cache[categoryID] = cachedQuestions{
			questions: qs,
			expiresAt: expiresAt,
		}
		b.mu.Unlock()
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Question(nil), result.([]domain.Question)...), nil
}

func (b *CachedQuestionBank) lookup(categoryID int64, now time.Time) ([]domain.Question, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.cache[categoryID]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return append([]domain.Question(nil), entry.questions...), true
}

func (b *CachedQuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}
