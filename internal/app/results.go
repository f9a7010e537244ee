package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"trivia-quiz-service/internal/domain"
)

// IdentifyPlayer records that an authenticated player was seen.
func (s *QuizService) IdentifyPlayer(ctx context.Context, player domain.Player) error {
	if !player.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return s.games.UpsertUser(ctx, domain.User{
		ID:           player.ID,
		Name:         player.Name,
		Email:        player.Email,
		LastSignedIn: s.now(),
	})
}

// SubmitGame persists a finished game for an authenticated player.
func (s *QuizService) SubmitGame(ctx context.Context, player domain.Player, submission domain.GameSubmission) (domain.SubmitResult, error) {
	if !player.Authenticated() {
		return domain.SubmitResult{}, domain.ErrUnauthenticated
	}
	if err := submission.Validate(); err != nil {
		return domain.SubmitResult{}, err
	}
	if _, err := s.bank.Category(ctx, submission.CategoryID); err != nil {
		return domain.SubmitResult{}, err
	}
	if err := s.IdentifyPlayer(ctx, player); err != nil {
		return domain.SubmitResult{}, fmt.Errorf("%w: %v", domain.ErrSubmissionFailure, err)
	}

	record, err := s.games.SaveGame(ctx, domain.GameSessionRecord{
		UserID:         player.ID,
		CategoryID:     submission.CategoryID,
		Score:          submission.Score,
		MaxCombo:       submission.MaxCombo,
		CorrectAnswers: submission.CorrectAnswers,
		TotalQuestions: submission.TotalQuestions,
		CompletedAt:    s.now().UTC(),
	})
	if err != nil {
		return domain.SubmitResult{}, fmt.Errorf("%w: %v", domain.ErrSubmissionFailure, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishGameCompleted(ctx, record); err != nil {
			log.Printf("publish game completed failed: %v", err)
		}
	}
	return domain.SubmitResult{Success: true}, nil
}

// TakeResult returns a stashed game result once.
func (s *QuizService) TakeResult(ctx context.Context, token string) (domain.GameResult, error) {
	if token == "" {
		return domain.GameResult{}, domain.ErrResultNotFound
	}
	return s.results.Take(ctx, token)
}

// Wait blocks until detached submissions have finished.
func (s *QuizService) Wait() {
	s.inflight.Wait()
}

// completeGame stashes the result for the results view and persists it in
// the background. Persistence failures are logged and never reach the player.
func (s *QuizService) completeGame(token string, player domain.Player, result domain.GameResult) {
	ctx, cancel := context.WithTimeout(context.Background(), s.submitTimeout)
	if err := s.results.Put(ctx, token, result); err != nil {
		log.Printf("stash result %s failed: %v", token, err)
	}
	cancel()

	if !player.Authenticated() {
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.submitTimeout)
		defer cancel()

		_, err := s.SubmitGame(ctx, player, result.Submission())
		if err == nil {
			return
		}
		if !errors.Is(err, domain.ErrSubmissionFailure) {
			err = fmt.Errorf("%w: %v", domain.ErrSubmissionFailure, err)
		}
		log.Printf("submit game for %s failed: %v", player.ID, err)
	}()
}

// SetSubmitTimeout bounds background persistence of finished games.
func (s *QuizService) SetSubmitTimeout(d time.Duration) {
	if d > 0 {
		s.submitTimeout = d
	}
}
