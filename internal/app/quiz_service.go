package app

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

const (
	DefaultQuestionLimit = 10
	MaxQuestionLimit     = 20

	DefaultLeaderboardLimit = 50
	MaxLeaderboardLimit     = 100

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 50
)

// QuestionBank supplies categories and questions (from memory, Postgres, a cache, etc).
type QuestionBank interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, id int64) (domain.Category, error)
	Questions(ctx context.Context, categoryID int64) ([]domain.Question, error)
	Question(ctx context.Context, id int64) (domain.Question, error)
}

// GameRepository persists completed games, users and friendships and
// aggregates them for leaderboards.
type GameRepository interface {
	UpsertUser(ctx context.Context, user domain.User) error
	SaveGame(ctx context.Context, record domain.GameSessionRecord) (domain.GameSessionRecord, error)
	GlobalLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	FriendsLeaderboard(ctx context.Context, userID string, limit int) ([]domain.LeaderboardEntry, error)
	History(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error)
	Stats(ctx context.Context, userID string) (domain.UserStats, error)
	AddFriend(ctx context.Context, userID, friendID string) error
	Friends(ctx context.Context, userID string) ([]domain.Friend, error)
}

// ResultStore hands a finished game over to whatever renders the results.
// Take returns a result once and clears it.
type ResultStore interface {
	Put(ctx context.Context, token string, result domain.GameResult) error
	Take(ctx context.Context, token string) (domain.GameResult, error)
}

// EventPublisher announces persisted games to other services.
type EventPublisher interface {
	PublishGameCompleted(ctx context.Context, record domain.GameSessionRecord) error
}

// QuizService contains the quiz use cases.
type QuizService struct {
	bank      QuestionBank
	games     GameRepository
	results   ResultStore
	publisher EventPublisher

	now           func() time.Time
	submitTimeout time.Duration
	questionLimit int
	inflight      sync.WaitGroup

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// NewQuizService wires the service. publisher may be nil.
func NewQuizService(bank QuestionBank, games GameRepository, results ResultStore, publisher EventPublisher) *QuizService {
	return NewQuizServiceWithRand(bank, games, results, publisher, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewQuizServiceWithRand is used by tests that need a reproducible shuffle.
func NewQuizServiceWithRand(bank QuestionBank, games GameRepository, results ResultStore, publisher EventPublisher, rnd *rand.Rand) *QuizService {
	return &QuizService{
		bank:          bank,
		games:         games,
		results:       results,
		publisher:     publisher,
		now:           time.Now,
		submitTimeout: 5 * time.Second,
		questionLimit: DefaultQuestionLimit,
		rnd:           rnd,
	}
}

// ListCategories returns every category ordered by name.
func (s *QuizService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	all, err := s.bank.Categories(ctx)
	if err != nil {
		return nil, err
	}
	all = append([]domain.Category(nil), all...)
	sortByName(all)
	return all, nil
}

// ListRootCategories returns categories without a parent.
func (s *QuizService) ListRootCategories(ctx context.Context) ([]domain.Category, error) {
	return s.filterCategories(ctx, func(c domain.Category) bool { return c.IsRoot() })
}

// ListSubCategories returns the children of parentID.
func (s *QuizService) ListSubCategories(ctx context.Context, parentID int64) ([]domain.Category, error) {
	return s.filterCategories(ctx, func(c domain.Category) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	})
}

func (s *QuizService) filterCategories(ctx context.Context, keep func(domain.Category) bool) ([]domain.Category, error) {
	all, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(all))
	for _, c := range all {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// FetchQuestions returns up to limit random questions of a category with
// their options shuffled and the explanation removed.
func (s *QuizService) FetchQuestions(ctx context.Context, categoryID int64, limit int) ([]domain.PlayableQuestion, error) {
	limit = ClampLimit(limit, s.questionLimit, MaxQuestionLimit)
	all, err := s.bank.Questions(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.draw(all, limit), nil
}

// QuestionDetails returns the full question, explanation included. It is
// meant for after the question has been answered.
func (s *QuizService) QuestionDetails(ctx context.Context, questionID int64) (domain.Question, error) {
	return s.bank.Question(ctx, questionID)
}

// SetQuestionLimit changes how many questions a game gets when the caller
// does not ask for a number.
func (s *QuizService) SetQuestionLimit(n int) {
	s.questionLimit = ClampLimit(n, DefaultQuestionLimit, MaxQuestionLimit)
}

// ClampLimit maps non-positive values to def and caps at ceiling.
func ClampLimit(limit, def, ceiling int) int {
	if limit <= 0 {
		return def
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}

func sortByName(categories []domain.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].ID < categories[j].ID
	})
}
