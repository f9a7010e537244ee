package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"trivia-quiz-service/internal/domain"

	"github.com/uptrace/bun"
)

type categoryModel struct {
	bun.BaseModel `bun:"table:categories"`

	ID          int64  `bun:"id,pk"`
	Name        string `bun:"name,notnull"`
	Description string `bun:"description,notnull"`
	Icon        string `bun:"icon,notnull"`
	Color       string `bun:"color,notnull"`
	ParentID    *int64 `bun:"parent_id"`
}

type questionModel struct {
	bun.BaseModel `bun:"table:questions"`

	ID            int64  `bun:"id,pk"`
	CategoryID    int64  `bun:"category_id,notnull"`
	Question      string `bun:"question,notnull"`
	CorrectAnswer string `bun:"correct_answer,notnull"`
	WrongAnswer1  string `bun:"wrong_answer1,notnull"`
	WrongAnswer2  string `bun:"wrong_answer2,notnull"`
	WrongAnswer3  string `bun:"wrong_answer3,notnull"`
	Explanation   string `bun:"explanation,notnull"`
	Difficulty    string `bun:"difficulty,notnull"`
}

// Seed upserts the given categories and questions in one transaction.
// Roots are written before their children so parent references resolve.
func Seed(ctx context.Context, db *bun.DB, categories []domain.Category, questions []domain.Question) error {
	if err := domain.ValidateCategories(categories); err != nil {
		return err
	}
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}

	cats := make([]categoryModel, 0, len(categories))
	for _, root := range []bool{true, false} {
		for _, c := range categories {
			if c.IsRoot() != root {
				continue
			}
			cats = append(cats, categoryModel{
				ID:          c.ID,
				Name:        c.Name,
				Description: c.Description,
				Icon:        c.Icon,
				Color:       c.Color,
				ParentID:    c.ParentID,
			})
		}
	}
	qs := make([]questionModel, 0, len(questions))
	for _, q := range questions {
		difficulty := q.Difficulty
		if difficulty == "" {
			difficulty = domain.DifficultyMedium
		}
		qs = append(qs, questionModel{
			ID:            q.ID,
			CategoryID:    q.CategoryID,
			Question:      q.Prompt,
			CorrectAnswer: q.CorrectAnswer,
			WrongAnswer1:  q.Distractors[0],
			WrongAnswer2:  q.Distractors[1],
			WrongAnswer3:  q.Distractors[2],
			Explanation:   q.Explanation,
			Difficulty:    string(difficulty),
		})
	}

	return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if len(cats) > 0 {
			if _, err := tx.NewInsert().Model(&cats).
				On("CONFLICT (id) DO UPDATE").
				Set("name = EXCLUDED.name").
				Set("description = EXCLUDED.description").
				Set("icon = EXCLUDED.icon").
				Set("color = EXCLUDED.color").
				Set("parent_id = EXCLUDED.parent_id").
				Exec(ctx); err != nil {
				return fmt.Errorf("seed categories: %w", err)
			}
		}
		if len(qs) > 0 {
			if _, err := tx.NewInsert().Model(&qs).
				On("CONFLICT (id) DO UPDATE").
				Set("category_id = EXCLUDED.category_id").
				Set("question = EXCLUDED.question").
				Set("correct_answer = EXCLUDED.correct_answer").
				Set("wrong_answer1 = EXCLUDED.wrong_answer1").
				Set("wrong_answer2 = EXCLUDED.wrong_answer2").
				Set("wrong_answer3 = EXCLUDED.wrong_answer3").
				Set("explanation = EXCLUDED.explanation").
				Set("difficulty = EXCLUDED.difficulty").
				Exec(ctx); err != nil {
				return fmt.Errorf("seed questions: %w", err)
			}
		}
		// Explicit ids leave the serial sequences behind.
		for _, table := range []string{"categories", "questions"} {
			if _, err := tx.ExecContext(ctx,
				`SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM `+table+`), 1))`, table); err != nil {
				return fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}
		return nil
	})
}
