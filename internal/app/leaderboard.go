package app

import (
	"context"
	"fmt"

	"trivia-quiz-service/internal/domain"
)

// GlobalLeaderboard returns the top games across all players.
func (s *QuizService) GlobalLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	return s.games.GlobalLeaderboard(ctx, ClampLimit(limit, DefaultLeaderboardLimit, MaxLeaderboardLimit))
}

// FriendsLeaderboard returns the top games among the player's friends.
func (s *QuizService) FriendsLeaderboard(ctx context.Context, player domain.Player, limit int) ([]domain.LeaderboardEntry, error) {
	if !player.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.games.FriendsLeaderboard(ctx, player.ID, ClampLimit(limit, DefaultLeaderboardLimit, MaxLeaderboardLimit))
}

// History returns the player's games, newest first.
func (s *QuizService) History(ctx context.Context, player domain.Player, limit int) ([]domain.HistoryEntry, error) {
	if !player.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.games.History(ctx, player.ID, ClampLimit(limit, DefaultHistoryLimit, MaxHistoryLimit))
}

// Stats aggregates the player's games.
func (s *QuizService) Stats(ctx context.Context, player domain.Player) (domain.UserStats, error) {
	if !player.Authenticated() {
		return domain.UserStats{}, domain.ErrUnauthenticated
	}
	stats, err := s.games.Stats(ctx, player.ID)
	if err != nil {
		return domain.UserStats{}, err
	}
	stats.Accuracy = domain.Accuracy(stats.TotalCorrect, stats.TotalQuestions)
	return stats, nil
}

// AddFriend links friendID to the player. Adding an existing friend is a no-op.
func (s *QuizService) AddFriend(ctx context.Context, player domain.Player, friendID string) error {
	if !player.Authenticated() {
		return domain.ErrUnauthenticated
	}
	if friendID == "" || friendID == player.ID {
		return fmt.Errorf("%w: cannot befriend %q", domain.ErrInvalidInput, friendID)
	}
	return s.games.AddFriend(ctx, player.ID, friendID)
}

// Friends lists the player's friends.
func (s *QuizService) Friends(ctx context.Context, player domain.Player) ([]domain.Friend, error) {
	if !player.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.games.Friends(ctx, player.ID)
}
