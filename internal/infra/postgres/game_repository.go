package postgres

import (
	"context"
	"fmt"
	"time"

	"trivia-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// GameRepository persists users, completed games and friendships.
type GameRepository struct {
	pool *pgxpool.Pool
}

func NewGameRepository(pool *pgxpool.Pool) *GameRepository {
	return &GameRepository{pool: pool}
}

func (r *GameRepository) UpsertUser(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, last_signed_in)
		VALUES ($1, $2, $3, COALESCE($4, now()))
		ON CONFLICT (id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			last_signed_in = EXCLUDED.last_signed_in`,
		user.ID, user.Name, user.Email, nullTime(user.LastSignedIn))
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *GameRepository) SaveGame(ctx context.Context, record domain.GameSessionRecord) (domain.GameSessionRecord, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO game_sessions (user_id, category_id, score, max_combo, correct_answers, total_questions, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
		RETURNING id, completed_at`,
		record.UserID, record.CategoryID, record.Score, record.MaxCombo,
		record.CorrectAnswers, record.TotalQuestions, nullTime(record.CompletedAt),
	).Scan(&record.ID, &record.CompletedAt)
	if err != nil {
		return domain.GameSessionRecord{}, fmt.Errorf("save game: %w", err)
	}
	return record, nil
}

const leaderboardQuery = `
	SELECT g.user_id, u.name, g.category_id, c.name, g.score, g.max_combo,
		g.correct_answers, g.total_questions, g.completed_at
	FROM game_sessions g
	JOIN users u ON u.id = g.user_id
	JOIN categories c ON c.id = g.category_id`

func (r *GameRepository) GlobalLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, leaderboardQuery+`
		ORDER BY g.score DESC, g.completed_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("global leaderboard: %w", err)
	}
	return scanLeaderboard(rows)
}

func (r *GameRepository) FriendsLeaderboard(ctx context.Context, userID string, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx, leaderboardQuery+`
		WHERE g.user_id IN (SELECT friend_id FROM friendships WHERE user_id = $1)
		ORDER BY g.score DESC, g.completed_at ASC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("friends leaderboard: %w", err)
	}
	return scanLeaderboard(rows)
}

func scanLeaderboard(rows pgx.Rows) ([]domain.LeaderboardEntry, error) {
	defer rows.Close()
	out := []domain.LeaderboardEntry{}
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.CategoryID, &e.CategoryName, &e.Score,
			&e.MaxCombo, &e.CorrectAnswers, &e.TotalQuestions, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *GameRepository) History(ctx context.Context, userID string, limit int) ([]domain.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT g.id, g.category_id, c.name, g.score, g.max_combo,
			g.correct_answers, g.total_questions, g.completed_at
		FROM game_sessions g
		JOIN categories c ON c.id = g.category_id
		WHERE g.user_id = $1
		ORDER BY g.completed_at DESC, g.id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()

	out := []domain.HistoryEntry{}
	for rows.Next() {
		var h domain.HistoryEntry
		if err := rows.Scan(&h.ID, &h.CategoryID, &h.CategoryName, &h.Score, &h.MaxCombo,
			&h.CorrectAnswers, &h.TotalQuestions, &h.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *GameRepository) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	var s domain.UserStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(score), 0),
			COALESCE(AVG(score), 0)::float8,
			COALESCE(MAX(score), 0),
			COALESCE(MAX(max_combo), 0),
			COALESCE(SUM(correct_answers), 0),
			COALESCE(SUM(total_questions), 0)
		FROM game_sessions
		WHERE user_id = $1`, userID,
	).Scan(&s.TotalGames, &s.TotalScore, &s.AvgScore, &s.MaxScore, &s.BestCombo, &s.TotalCorrect, &s.TotalQuestions)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("stats: %w", err)
	}
	return s, nil
}

func (r *GameRepository) AddFriend(ctx context.Context, userID, friendID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2)
		ON CONFLICT (user_id, friend_id) DO NOTHING`, userID, friendID)
	if err != nil {
		return fmt.Errorf("add friend: %w", err)
	}
	return nil
}

// Friends lists friends that are known users; unknown friend ids are skipped.
func (r *GameRepository) Friends(ctx context.Context, userID string) ([]domain.Friend, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.friend_id, u.name, u.email, f.created_at
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY f.created_at, f.friend_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("friends: %w", err)
	}
	defer rows.Close()

	out := []domain.Friend{}
	for rows.Next() {
		var f domain.Friend
		if err := rows.Scan(&f.FriendID, &f.FriendName, &f.FriendEmail, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
