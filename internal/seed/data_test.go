package seed

import (
	"testing"

	"trivia-quiz-service/internal/domain"
)

func TestSampleDataIsValid(t *testing.T) {
	if err := domain.ValidateCategories(Categories()); err != nil {
		t.Fatalf("categories: %v", err)
	}

	known := map[int64]bool{}
	for _, c := range Categories() {
		known[c.ID] = true
	}
	for _, q := range Questions() {
		if err := q.Validate(); err != nil {
			t.Fatalf("question %d: %v", q.ID, err)
		}
		if !known[q.CategoryID] {
			t.Fatalf("question %d references unknown category %d", q.ID, q.CategoryID)
		}
	}
}
