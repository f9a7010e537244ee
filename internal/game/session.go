// Package game holds the lifecycle of a single quiz attempt.
//
// A Session is not safe for concurrent use. Callers serialize timer ticks and
// player events onto one goroutine; once an answer is accepted for a question
// further ticks are rejected until Advance moves on.
package game

import (
	"fmt"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/scoring"
)

// QuestionTime is the number of seconds a player gets per question.
const QuestionTime = 30

// State is the lifecycle phase of a Session.
type State int

const (
	StateIdle State = iota
	StateActive
	StateAwaitingAdvance
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateAwaitingAdvance:
		return "awaiting_advance"
	case StateCompleted:
		return "completed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Feedback describes the scored answer for the current question.
type Feedback struct {
	QuestionID      int64  `json:"questionId"`
	SubmittedAnswer string `json:"answer"`
	CorrectAnswer   string `json:"correctAnswer"`
	TimedOut        bool   `json:"timedOut"`
	scoring.Outcome
	Score    int `json:"score"`
	MaxCombo int `json:"maxCombo"`
}

// Step is the outcome of Advance.
type Step struct {
	Completed bool
	Index     int
	Question  domain.PlayableQuestion
	Result    domain.GameResult
}

// Snapshot is a read-only copy of a session.
type Snapshot struct {
	State         State                     `json:"-"`
	CategoryID    int64                     `json:"categoryId"`
	CategoryName  string                    `json:"categoryName"`
	Questions     []domain.PlayableQuestion `json:"-"`
	CurrentIndex  int                       `json:"currentIndex"`
	Score         int                       `json:"score"`
	Combo         int                       `json:"combo"`
	MaxCombo      int                       `json:"maxCombo"`
	CorrectCount  int                       `json:"correctCount"`
	Answers       []domain.AnswerRecord     `json:"answers"`
	TimeRemaining int                       `json:"timeRemaining"`
}

// Session is the state machine for one play-through.
type Session struct {
	state         State
	categoryID    int64
	categoryName  string
	questions     []domain.PlayableQuestion
	currentIndex  int
	score         int
	combo         int
	maxCombo      int
	correctCount  int
	answers       []domain.AnswerRecord
	timeRemaining int
	last          Feedback
	onComplete    func(domain.GameResult)
}

// NewSession returns an idle session. onComplete, if non-nil, receives the
// final tally exactly once per completed play-through.
func NewSession(onComplete func(domain.GameResult)) *Session {
	return &Session{state: StateIdle, timeRemaining: QuestionTime, onComplete: onComplete}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// Active reports whether the session accepts answers and ticks.
func (s *Session) Active() bool {
	return s.state == StateActive
}

// Start begins a play-through. It is valid from Idle or Completed.
func (s *Session) Start(categoryID int64, categoryName string, questions []domain.PlayableQuestion) error {
	if s.state != StateIdle && s.state != StateCompleted {
		return s.illegal("start")
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions for category %d", domain.ErrInvalidInput, categoryID)
	}

	*s = Session{
		state:         StateActive,
		categoryID:    categoryID,
		categoryName:  categoryName,
		questions:     append([]domain.PlayableQuestion(nil), questions...),
		answers:       make([]domain.AnswerRecord, 0, len(questions)),
		timeRemaining: QuestionTime,
		onComplete:    s.onComplete,
	}
	return nil
}

// Current returns the question being played.
func (s *Session) Current() (domain.PlayableQuestion, bool) {
	if s.state == StateIdle || s.currentIndex >= len(s.questions) {
		return domain.PlayableQuestion{}, false
	}
	return s.questions[s.currentIndex], true
}

// Tick decrements the clock. When it reaches zero the current question is
// answered with an empty submission and the timeout feedback is returned.
func (s *Session) Tick() (Feedback, bool, error) {
	if s.state != StateActive {
		return Feedback{}, false, s.illegal("tick")
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining > 0 {
		return Feedback{}, false, nil
	}
	fb, err := s.SubmitAnswer("")
	return fb, true, err
}

// SubmitAnswer scores answer against the current question. Repeated calls
// before Advance return the first feedback without changing the tally.
func (s *Session) SubmitAnswer(answer string) (Feedback, error) {
	switch s.state {
	case StateAwaitingAdvance:
		return s.last, nil
	case StateActive:
	default:
		return Feedback{}, s.illegal("submit")
	}

	q := s.questions[s.currentIndex]
	out := scoring.Score(answer, q.CorrectAnswer, s.combo, s.timeRemaining)

	s.score += out.Delta
	s.combo = out.NewCombo
	s.maxCombo = max(s.maxCombo, s.combo)
	if out.IsCorrect {
		s.correctCount++
	}
	s.answers = append(s.answers, domain.AnswerRecord{
		QuestionID:      q.ID,
		SubmittedAnswer: answer,
		IsCorrect:       out.IsCorrect,
	})

	s.last = Feedback{
		QuestionID:      q.ID,
		SubmittedAnswer: answer,
		CorrectAnswer:   q.CorrectAnswer,
		TimedOut:        answer == "",
		Outcome:         out,
		Score:           s.score,
		MaxCombo:        s.maxCombo,
	}
	s.state = StateAwaitingAdvance
	return s.last, nil
}

// Advance moves to the next question or completes the session.
func (s *Session) Advance() (Step, error) {
	if s.state != StateAwaitingAdvance {
		return Step{}, s.illegal("advance")
	}

	if s.currentIndex+1 < len(s.questions) {
		s.currentIndex++
		s.timeRemaining = QuestionTime
		s.last = Feedback{}
		s.state = StateActive
		return Step{Index: s.currentIndex, Question: s.questions[s.currentIndex]}, nil
	}

	// currentIndex moves past the last question so that
	// len(answers) == currentIndex holds for the finished session too.
	s.currentIndex = len(s.questions)
	s.state = StateCompleted
	result := s.result()
	if s.onComplete != nil {
		s.onComplete(result)
	}
	return Step{Completed: true, Index: s.currentIndex, Result: result}, nil
}

// Reset discards the session and returns it to Idle.
func (s *Session) Reset() {
	*s = Session{state: StateIdle, timeRemaining: QuestionTime, onComplete: s.onComplete}
}

// Snapshot returns a copy of the session fields.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:         s.state,
		CategoryID:    s.categoryID,
		CategoryName:  s.categoryName,
		Questions:     append([]domain.PlayableQuestion(nil), s.questions...),
		CurrentIndex:  s.currentIndex,
		Score:         s.score,
		Combo:         s.combo,
		MaxCombo:      s.maxCombo,
		CorrectCount:  s.correctCount,
		Answers:       append([]domain.AnswerRecord(nil), s.answers...),
		TimeRemaining: s.timeRemaining,
	}
}

func (s *Session) result() domain.GameResult {
	return domain.GameResult{
		CategoryID:     s.categoryID,
		CategoryName:   s.categoryName,
		Score:          s.score,
		MaxCombo:       s.maxCombo,
		CorrectAnswers: s.correctCount,
		TotalQuestions: len(s.questions),
		Questions:      append([]domain.PlayableQuestion(nil), s.questions...),
		Answers:        append([]domain.AnswerRecord(nil), s.answers...),
	}
}

func (s *Session) illegal(op string) error {
	return fmt.Errorf("%w: %s while %s", domain.ErrIllegalTransition, op, s.state)
}
