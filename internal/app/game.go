package app

import (
	"context"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/game"

	"github.com/google/uuid"
)

// Game binds one player's session to a category and to the result
// submission path. It is driven from a single goroutine.
type Game struct {
	svc      *QuizService
	player   domain.Player
	category domain.Category
	limit    int
	token    string
	session  *game.Session
}

// NewGame loads a question set for categoryID and starts a session.
func (s *QuizService) NewGame(ctx context.Context, player domain.Player, categoryID int64, limit int) (*Game, error) {
	category, err := s.bank.Category(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	g := &Game{
		svc:      s,
		player:   player,
		category: category,
		limit:    limit,
	}
	g.session = game.NewSession(g.complete)
	if err := g.Replay(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

// Replay draws a fresh question set and starts over. It is valid before
// the first start and after completion.
func (g *Game) Replay(ctx context.Context) error {
	questions, err := g.svc.FetchQuestions(ctx, g.category.ID, g.limit)
	if err != nil {
		return err
	}
	if err := g.session.Start(g.category.ID, g.category.Name, questions); err != nil {
		return err
	}
	g.token = uuid.NewString()
	return nil
}

// Session exposes the state machine.
func (g *Game) Session() *game.Session {
	return g.session
}

// Category is the category being played.
func (g *Game) Category() domain.Category {
	return g.category
}

// ResultToken identifies the stashed result of the current play-through.
func (g *Game) ResultToken() string {
	return g.token
}

// Explanation looks up the explanation of a question that was already
// answered in this play-through.
func (g *Game) Explanation(ctx context.Context, questionID int64) (string, error) {
	for _, a := range g.session.Snapshot().Answers {
		if a.QuestionID == questionID {
			q, err := g.svc.QuestionDetails(ctx, questionID)
			if err != nil {
				return "", err
			}
			return q.Explanation, nil
		}
	}
	return "", domain.ErrQuestionNotFound
}

func (g *Game) complete(result domain.GameResult) {
	g.svc.completeGame(g.token, g.player, result)
}
