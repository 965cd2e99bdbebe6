package domain

// ScheduleTerm is a named time-of-day slot used to order daily medication
// administration (e.g. "Before breakfast"). The nine canonical terms are a
// fixed lookup table: seeded once, read-only afterwards. SortOrder defines
// presentation order independently of the id value and is unique across terms.
type ScheduleTerm struct {
	ID        int    `json:"id"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
}

// DefaultTerms returns the canonical nine-term seed set:
// before/at/after × breakfast/lunch/dinner, ids 1–9, sort order equal to id.
func DefaultTerms() []ScheduleTerm {
	return []ScheduleTerm{
		{ID: 1, Label: "Before breakfast", SortOrder: 1},
		{ID: 2, Label: "At breakfast", SortOrder: 2},
		{ID: 3, Label: "After breakfast", SortOrder: 3},
		{ID: 4, Label: "Before lunch", SortOrder: 4},
		{ID: 5, Label: "At lunch", SortOrder: 5},
		{ID: 6, Label: "After lunch", SortOrder: 6},
		{ID: 7, Label: "Before dinner", SortOrder: 7},
		{ID: 8, Label: "At dinner", SortOrder: 8},
		{ID: 9, Label: "After dinner", SortOrder: 9},
	}
}

// termLabels maps term id to display label for the canonical seed set.
var termLabels = func() map[int]string {
	m := make(map[int]string, 9)
	for _, t := range DefaultTerms() {
		m[t.ID] = t.Label
	}
	return m
}()

// TermLabel returns the display label for a term id, or "Unknown" for ids
// outside the canonical set. Export rendering uses the fallback rather than
// failing on a dangling reference.
func TermLabel(id int) string {
	if label, ok := termLabels[id]; ok {
		return label
	}
	return "Unknown"
}
