package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"trivia-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionBank reads categories and questions from Postgres. Rows that break
// the nesting or option rules are logged and skipped.
type QuestionBank struct {
	pool *pgxpool.Pool
}

func NewQuestionBank(pool *pgxpool.Pool) *QuestionBank {
	return &QuestionBank{pool: pool}
}

const categoryColumns = `id, name, description, icon, color, parent_id`

const questionColumns = `id, category_id, question, correct_answer,
	wrong_answer1, wrong_answer2, wrong_answer3, difficulty, explanation`

func (b *QuestionBank) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := b.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	kept, dropped := domain.FilterCategories(out)
	for _, err := range dropped {
		log.Printf("skipping category row: %v", err)
	}
	return kept, nil
}

func (b *QuestionBank) Category(ctx context.Context, id int64) (domain.Category, error) {
	row := b.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id=$1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, fmt.Errorf("%w: %d", domain.ErrCategoryNotFound, id)
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("load category: %w", err)
	}
	if c.ParentID == nil {
		return c, nil
	}

	var parent *domain.Category
	row = b.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id=$1`, *c.ParentID)
	p, err := scanCategory(row)
	switch {
	case err == nil:
		parent = &p
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.Category{}, fmt.Errorf("load parent category: %w", err)
	}
	if err := domain.ValidateParent(c, parent); err != nil {
		log.Printf("skipping category row: %v", err)
		return domain.Category{}, fmt.Errorf("%w: %d", domain.ErrCategoryNotFound, id)
	}
	return c, nil
}

// Questions returns every question of a category. An unknown category is
// reported as ErrCategoryNotFound rather than an empty set.
func (b *QuestionBank) Questions(ctx context.Context, categoryID int64) ([]domain.Question, error) {
	if _, err := b.Category(ctx, categoryID); err != nil {
		return nil, err
	}
	rows, err := b.pool.Query(ctx, `SELECT `+questionColumns+` FROM questions WHERE category_id=$1 ORDER BY id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := q.Validate(); err != nil {
			log.Printf("skipping question row: %v", err)
			continue
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (b *QuestionBank) Question(ctx context.Context, id int64) (domain.Question, error) {
	row := b.pool.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id=$1`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, fmt.Errorf("%w: %d", domain.ErrQuestionNotFound, id)
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	if err := q.Validate(); err != nil {
		log.Printf("skipping question row: %v", err)
		return domain.Question{}, fmt.Errorf("%w: %d", domain.ErrQuestionNotFound, id)
	}
	return q, nil
}

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.ParentID)
	return c, err
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var (
		q          domain.Question
		wrong      [3]string
		difficulty string
	)
	err := row.Scan(&q.ID, &q.CategoryID, &q.Prompt, &q.CorrectAnswer,
		&wrong[0], &wrong[1], &wrong[2], &difficulty, &q.Explanation)
	if err != nil {
		return domain.Question{}, err
	}
	q.Distractors = wrong[:]
	q.Difficulty = domain.Difficulty(difficulty)
	return q, nil
}
