package domain

import (
	"errors"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{
			name: "valid",
			q:    Question{ID: 1, Prompt: "Capital of Korea?", CorrectAnswer: "서울", Distractors: []string{"부산", "인천", "대구"}, Difficulty: DifficultyEasy},
		},
		{
			name:    "correct answer repeated as distractor",
			q:       Question{ID: 2, Prompt: "p", CorrectAnswer: "a", Distractors: []string{"a", "b", "c"}},
			wantErr: true,
		},
		{
			name:    "duplicate distractors",
			q:       Question{ID: 3, Prompt: "p", CorrectAnswer: "a", Distractors: []string{"b", "b", "c"}},
			wantErr: true,
		},
		{
			name:    "two distractors",
			q:       Question{ID: 4, Prompt: "p", CorrectAnswer: "a", Distractors: []string{"b", "c"}},
			wantErr: true,
		},
		{
			name:    "unknown difficulty",
			q:       Question{ID: 5, Prompt: "p", CorrectAnswer: "a", Distractors: []string{"b", "c", "d"}, Difficulty: "extreme"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestValidateCategories(t *testing.T) {
	sports := int64(4)
	overseas := int64(5)

	ok := []Category{
		{ID: 4, Name: "스포츠"},
		{ID: 5, Name: "해외 스포츠", ParentID: &sports},
	}
	if err := ValidateCategories(ok); err != nil {
		t.Fatalf("expected valid categories, got %v", err)
	}

	tooDeep := append(ok, Category{ID: 6, Name: "축구", ParentID: &overseas})
	if err := ValidateCategories(tooDeep); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected nesting error, got %v", err)
	}

	missing := int64(99)
	orphan := []Category{{ID: 1, Name: "x", ParentID: &missing}}
	if err := ValidateCategories(orphan); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected missing parent error, got %v", err)
	}
}

func TestFilterCategoriesDropsDeepNesting(t *testing.T) {
	sports := int64(4)
	overseas := int64(5)
	missing := int64(99)

	kept, dropped := FilterCategories([]Category{
		{ID: 4, Name: "스포츠"},
		{ID: 5, Name: "해외 스포츠", ParentID: &sports},
		{ID: 6, Name: "축구", ParentID: &overseas},
		{ID: 7, Name: "x", ParentID: &missing},
	})
	if len(kept) != 2 || kept[0].ID != 4 || kept[1].ID != 5 {
		t.Fatalf("unexpected kept categories %+v", kept)
	}
	if len(dropped) != 2 || !errors.Is(dropped[0], ErrInvalidInput) {
		t.Fatalf("expected two invalid-input drops, got %v", dropped)
	}

	if err := ValidateParent(Category{ID: 6, ParentID: &overseas}, &kept[1]); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected nesting error, got %v", err)
	}
	if err := ValidateParent(kept[1], &kept[0]); err != nil {
		t.Fatalf("expected valid parent, got %v", err)
	}
}

func TestAccuracyRounds(t *testing.T) {
	cases := []struct{ correct, total, want int }{
		{0, 0, 0},
		{8, 10, 80},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13},
		{5, 5, 100},
	}
	for _, c := range cases {
		if got := Accuracy(c.correct, c.total); got != c.want {
			t.Fatalf("Accuracy(%d, %d) = %d, want %d", c.correct, c.total, got, c.want)
		}
	}
}
