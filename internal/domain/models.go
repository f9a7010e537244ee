package domain

import (
	"fmt"
	"time"
)

// Difficulty tags a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty tags.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Category groups questions. ParentID is nil for root categories.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color,omitempty"`
	ParentID    *int64 `json:"parentId"`
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// Question is the full stored form of a question, explanation included.
type Question struct {
	ID            int64      `json:"id"`
	CategoryID    int64      `json:"categoryId"`
	Prompt        string     `json:"question"`
	CorrectAnswer string     `json:"correctAnswer"`
	Distractors   []string   `json:"distractors"`
	Difficulty    Difficulty `json:"difficulty"`
	Explanation   string     `json:"explanation"`
}

// Validate checks that the question has exactly three distinct distractors
// and that none of them equals the correct answer.
func (q Question) Validate() error {
	if q.Prompt == "" || q.CorrectAnswer == "" {
		return fmt.Errorf("%w: question %d is missing prompt or answer", ErrInvalidInput, q.ID)
	}
	if len(q.Distractors) != 3 {
		return fmt.Errorf("%w: question %d has %d distractors", ErrInvalidInput, q.ID, len(q.Distractors))
	}
	seen := map[string]struct{}{q.CorrectAnswer: {}}
	for _, d := range q.Distractors {
		if _, dup := seen[d]; dup {
			return fmt.Errorf("%w: question %d has duplicate option %q", ErrInvalidInput, q.ID, d)
		}
		seen[d] = struct{}{}
	}
	if q.Difficulty != "" && !q.Difficulty.Valid() {
		return fmt.Errorf("%w: question %d has unknown difficulty %q", ErrInvalidInput, q.ID, q.Difficulty)
	}
	return nil
}

// Options returns the correct answer followed by the distractors, unshuffled.
func (q Question) Options() []string {
	out := make([]string, 0, len(q.Distractors)+1)
	out = append(out, q.CorrectAnswer)
	return append(out, q.Distractors...)
}

// PlayableQuestion is what a game session receives: options are shuffled
// and the explanation is never present.
type PlayableQuestion struct {
	ID            int64      `json:"id"`
	CategoryID    int64      `json:"categoryId"`
	Prompt        string     `json:"question"`
	Answers       []string   `json:"answers"`
	CorrectAnswer string     `json:"correctAnswer"`
	Difficulty    Difficulty `json:"difficulty"`
}

// AnswerRecord is one entry in a session's answer log. An empty
// SubmittedAnswer represents a timeout.
type AnswerRecord struct {
	QuestionID      int64  `json:"questionId"`
	SubmittedAnswer string `json:"answer"`
	IsCorrect       bool   `json:"isCorrect"`
}

// GameSubmission is the tally sent to the result submission collaborator.
type GameSubmission struct {
	CategoryID     int64 `json:"categoryId"`
	Score          int   `json:"score"`
	MaxCombo       int   `json:"maxCombo"`
	CorrectAnswers int   `json:"correctAnswers"`
	TotalQuestions int   `json:"totalQuestions"`
}

// Validate rejects tallies that cannot come out of a real session.
func (s GameSubmission) Validate() error {
	switch {
	case s.TotalQuestions <= 0:
		return fmt.Errorf("%w: totalQuestions must be positive", ErrInvalidInput)
	case s.Score < 0 || s.MaxCombo < 0 || s.CorrectAnswers < 0:
		return fmt.Errorf("%w: negative tally", ErrInvalidInput)
	case s.CorrectAnswers > s.TotalQuestions || s.MaxCombo > s.CorrectAnswers:
		return fmt.Errorf("%w: tally exceeds question count", ErrInvalidInput)
	}
	return nil
}

// SubmitResult is returned by game submission.
type SubmitResult struct {
	Success bool `json:"success"`
}

// GameResult is the final tally of a completed session plus what the
// results view needs to render it.
type GameResult struct {
	CategoryID     int64              `json:"categoryId"`
	CategoryName   string             `json:"categoryName"`
	Score          int                `json:"score"`
	MaxCombo       int                `json:"maxCombo"`
	CorrectAnswers int                `json:"correctAnswers"`
	TotalQuestions int                `json:"totalQuestions"`
	Questions      []PlayableQuestion `json:"questions"`
	Answers        []AnswerRecord     `json:"userAnswers"`
}

// Submission extracts the persisted fields of the result.
func (r GameResult) Submission() GameSubmission {
	return GameSubmission{
		CategoryID:     r.CategoryID,
		Score:          r.Score,
		MaxCombo:       r.MaxCombo,
		CorrectAnswers: r.CorrectAnswers,
		TotalQuestions: r.TotalQuestions,
	}
}

// Accuracy returns the rounded percentage of correct answers.
func (r GameResult) Accuracy() int {
	return Accuracy(r.CorrectAnswers, r.TotalQuestions)
}

// Accuracy returns round(correct/total*100), or 0 when total is zero.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (correct*200 + total) / (total * 2)
}

// GameSessionRecord is an immutable persisted game.
type GameSessionRecord struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"userId"`
	CategoryID     int64     `json:"categoryId"`
	Score          int       `json:"score"`
	MaxCombo       int       `json:"maxCombo"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	CompletedAt    time.Time `json:"completedAt"`
}

// Player identifies who is playing. An empty ID means anonymous.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Authenticated reports whether the player carries an identity.
func (p Player) Authenticated() bool {
	return p.ID != ""
}

// User is a known player.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	LastSignedIn time.Time `json:"lastSignedIn"`
}

// LeaderboardEntry is one ranked game on a leaderboard.
type LeaderboardEntry struct {
	UserID         string    `json:"userId"`
	UserName       string    `json:"userName"`
	CategoryID     int64     `json:"categoryId"`
	CategoryName   string    `json:"categoryName"`
	Score          int       `json:"score"`
	MaxCombo       int       `json:"maxCombo"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	CompletedAt    time.Time `json:"completedAt"`
}

// HistoryEntry is one game in a user's history.
type HistoryEntry struct {
	ID             int64     `json:"id"`
	CategoryID     int64     `json:"categoryId"`
	CategoryName   string    `json:"categoryName"`
	Score          int       `json:"score"`
	MaxCombo       int       `json:"maxCombo"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	CompletedAt    time.Time `json:"completedAt"`
}

// UserStats aggregates a user's persisted games.
type UserStats struct {
	TotalGames     int     `json:"totalGames"`
	TotalScore     int     `json:"totalScore"`
	AvgScore       float64 `json:"avgScore"`
	MaxScore       int     `json:"maxScore"`
	BestCombo      int     `json:"bestCombo"`
	TotalCorrect   int     `json:"totalCorrect"`
	TotalQuestions int     `json:"totalQuestions"`
	Accuracy       int     `json:"accuracy"`
}

// Friend is an entry in a user's friend list.
type Friend struct {
	FriendID    string    `json:"friendId"`
	FriendName  string    `json:"friendName"`
	FriendEmail string    `json:"friendEmail"`
	CreatedAt   time.Time `json:"createdAt"`
}
