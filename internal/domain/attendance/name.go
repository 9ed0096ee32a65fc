package attendance

import (
	"strings"

	"golang.org/x/text/cases"
)

// NameMatcher tests employee names for a case-insensitive substring using
// Unicode case folding. Not safe for concurrent use.
type NameMatcher struct {
	fold   cases.Caser
	needle string
}

func NewNameMatcher(substr string) *NameMatcher {
	fold := cases.Fold()
	return &NameMatcher{
		fold:   fold,
		needle: fold.String(substr),
	}
}

func (m *NameMatcher) Match(name string) bool {
	return strings.Contains(m.fold.String(name), m.needle)
}
