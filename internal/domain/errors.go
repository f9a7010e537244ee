package domain

import "errors"

var (
	// ErrInvalidInput is returned when an operation receives arguments it cannot accept.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIllegalTransition is returned when a game operation is invoked from a state that does not permit it.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrSubmissionFailure wraps failures to persist a completed game.
	ErrSubmissionFailure = errors.New("game submission failed")
	// ErrCategoryNotFound indicates the category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrQuestionNotFound indicates the question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrResultNotFound is returned when a result hand-off token is unknown, expired or already consumed.
	ErrResultNotFound = errors.New("result not found")
	// ErrUnauthenticated is returned when an operation requires a known player.
	ErrUnauthenticated = errors.New("unauthenticated")
)
