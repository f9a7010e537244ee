package app

import "trivia-quiz-service/internal/domain"

// draw picks limit questions uniformly at random and shuffles each
// question's options. The input slice is not modified.
func (s *QuizService) draw(all []domain.Question, limit int) []domain.PlayableQuestion {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()

	picked := append([]domain.Question(nil), all...)
	s.rnd.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if limit < len(picked) {
		picked = picked[:limit]
	}

	out := make([]domain.PlayableQuestion, 0, len(picked))
	for _, q := range picked {
		answers := q.Options()
		s.rnd.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })
		out = append(out, domain.PlayableQuestion{
			ID:            q.ID,
			CategoryID:    q.CategoryID,
			Prompt:        q.Prompt,
			Answers:       answers,
			CorrectAnswer: q.CorrectAnswer,
			Difficulty:    q.Difficulty,
		})
	}
	return out
}
