package domain

import "fmt"

// ValidateCategories checks that every parent reference points at an
// existing root category, so nesting never goes deeper than one level.
func ValidateCategories(categories []Category) error {
	byID := make(map[int64]Category, len(categories))
	for _, c := range categories {
		if _, dup := byID[c.ID]; dup {
			return fmt.Errorf("%w: duplicate category id %d", ErrInvalidInput, c.ID)
		}
		byID[c.ID] = c
	}
	for _, c := range categories {
		if err := ValidateParent(c, parentOf(c, byID)); err != nil {
			return err
		}
	}
	return nil
}

// FilterCategories returns the categories that pass ValidateParent together
// with the reasons the others were dropped.
func FilterCategories(categories []Category) ([]Category, []error) {
	byID := make(map[int64]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	kept := make([]Category, 0, len(categories))
	var dropped []error
	for _, c := range categories {
		if err := ValidateParent(c, parentOf(c, byID)); err != nil {
			dropped = append(dropped, err)
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}

func parentOf(c Category, byID map[int64]Category) *Category {
	if c.ParentID == nil {
		return nil
	}
	parent, ok := byID[*c.ParentID]
	if !ok {
		return nil
	}
	return &parent
}

// ValidateParent checks a single category against its loaded parent; parent
// is nil when the referenced row does not exist.
func ValidateParent(c Category, parent *Category) error {
	if c.ParentID == nil {
		return nil
	}
	if parent == nil {
		return fmt.Errorf("%w: category %d references missing parent %d", ErrInvalidInput, c.ID, *c.ParentID)
	}
	if !parent.IsRoot() {
		return fmt.Errorf("%w: category %d is nested under non-root %d", ErrInvalidInput, c.ID, parent.ID)
	}
	return nil
}
