package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

// CategoryLookup resolves category names for leaderboard rows.
type CategoryLookup interface {
	Category(ctx context.Context, id int64) (domain.Category, error)
}

// GameRepository is an in-memory implementation of app.GameRepository.
type GameRepository struct {
	categories CategoryLookup
	clock      func() time.Time

	mu      sync.RWMutex
	nextID  int64
	users   map[string]domain.User
	games   []domain.GameSessionRecord
	friends map[string][]friendship
}

type friendship struct {
	friendID  string
	createdAt time.Time
}

func NewGameRepository(categories CategoryLookup) *GameRepository {
	return &GameRepository{
		categories: categories,
		clock:      time.Now,
		users:      make(map[string]domain.User),
		friends:    make(map[string][]friendship),
	}
}

func (r *GameRepository) UpsertUser(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[user.ID]; ok {
		if user.Name == "" {
			user.Name = existing.Name
		}
		if user.Email == "" {
			user.Email = existing.Email
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *GameRepository) SaveGame(_ context.Context, record domain.GameSessionRecord) (domain.GameSessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = r.nextID
	if record.CompletedAt.IsZero() {
		record.CompletedAt = r.clock().UTC()
	}
	r.games = append(r.games, record)
	return record, nil
}

func (r *GameRepository) GlobalLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return r.leaderboard(ctx, limit, func(string) bool { return true })
}

// FriendsLeaderboard ranks games of userID's friends only.
func (r *GameRepository) FriendsLeaderboard(ctx context.Context, userID string, limit int) ([]domain.LeaderboardEntry, error) {
	r.mu.RLock()
	ids := make(map[string]struct{}, len(r.friends[userID]))
	for _, f := range r.friends[userID] {
		ids[f.friendID] = struct{}{}
	}
	r.mu.RUnlock()
	if len(ids) == 0 {
		return []domain.LeaderboardEntry{}, nil
	}
	return r.leaderboard(ctx, limit, func(id string) bool {
		_, ok := ids[id]
		return ok
	})
}

func (r *GameRepository) leaderboard(ctx context.Context, limit int, include func(userID string) bool) ([]domain.LeaderboardEntry, error) {
	r.mu.RLock()
	games := make([]domain.GameSessionRecord, 0, len(r.games))
	names := make(map[string]string, len(r.users))
	for _, g := range r.games {
		if include(g.UserID) {
			games = append(games, g)
		}
	}
	for id, u := range r.users {
		names[id] = u.Name
	}
	r.mu.RUnlock()

	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Score != games[j].Score {
			return games[i].Score > games[j].Score
		}
		return games[i].CompletedAt.Before(games[j].CompletedAt)
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}

	entries := make([]domain.LeaderboardEntry, 0, len(games))
	for _, g := range games {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:         g.UserID,
			UserName:       names[g.UserID],
			CategoryID:     g.CategoryID,
			CategoryName:   r.categoryName(ctx, g.CategoryID),
			Score:          g.Score,
			MaxCombo:       g.MaxCombo,
			CorrectAnswers: g.CorrectAnswers,
			TotalQuestions: g.TotalQuestions,
			CompletedAt:    g.CompletedAt,
		})
	}
	return entries, nil
}

func (r *GameRepository) History(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	games := make([]domain.GameSessionRecord, 0)
	for _, g := range r.games {
		if g.UserID == userID {
			games = append(games, g)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].CompletedAt.Equal(games[j].CompletedAt) {
			return games[i].CompletedAt.After(games[j].CompletedAt)
		}
		return games[i].ID > games[j].ID
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}

	out := make([]domain.HistoryEntry, 0, len(games))
	for _, g := range games {
		out = append(out, domain.HistoryEntry{
			ID:             g.ID,
			CategoryID:     g.CategoryID,
			CategoryName:   r.categoryName(ctx, g.CategoryID),
			Score:          g.Score,
			MaxCombo:       g.MaxCombo,
			CorrectAnswers: g.CorrectAnswers,
			TotalQuestions: g.TotalQuestions,
			CompletedAt:    g.CompletedAt,
		})
	}
	return out, nil
}

func (r *GameRepository) Stats(_ context.Context, userID string) (domain.UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats domain.UserStats
	for _, g := range r.games {
		if g.UserID != userID {
			continue
		}
		stats.TotalGames++
		stats.TotalScore += g.Score
		stats.MaxScore = max(stats.MaxScore, g.Score)
		stats.BestCombo = max(stats.BestCombo, g.MaxCombo)
		stats.TotalCorrect += g.CorrectAnswers
		stats.TotalQuestions += g.TotalQuestions
	}
	if stats.TotalGames > 0 {
		stats.AvgScore = float64(stats.TotalScore) / float64(stats.TotalGames)
	}
	return stats, nil
}

func (r *GameRepository) AddFriend(_ context.Context, userID, friendID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.friends[userID] {
		if f.friendID == friendID {
			return nil
		}
	}
	r.friends[userID] = append(r.friends[userID], friendship{friendID: friendID, createdAt: r.clock().UTC()})
	return nil
}

func (r *GameRepository) Friends(_ context.Context, userID string) ([]domain.Friend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Friend, 0, len(r.friends[userID]))
	for _, f := range r.friends[userID] {
		u, ok := r.users[f.friendID]
		if !ok {
			// mirrors the inner join of the SQL store
			continue
		}
		out = append(out, domain.Friend{
			FriendID:    f.friendID,
			FriendName:  u.Name,
			FriendEmail: u.Email,
			CreatedAt:   f.createdAt,
		})
	}
	return out, nil
}

func (r *GameRepository) categoryName(ctx context.Context, id int64) string {
	if r.categories == nil {
		return ""
	}
	c, err := r.categories.Category(ctx, id)
	if err != nil {
		return ""
	}
	return c.Name
}
