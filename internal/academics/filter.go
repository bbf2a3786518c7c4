package academics

import (
	"strings"

	"golang.org/x/text/cases"
)

// All disables a department or status clause.
const All = "all"

// Fielder is implemented by anything the entity filter can inspect.
type Fielder interface {
	FieldValue(name string) string
}

// Criteria narrows a record list. Every clause is optional; unset or "all"
// clauses accept everything. Clauses are ANDed.
type Criteria struct {
	SearchText   string
	SearchFields []string
	Department   string
	Status       string
}

// Matches reports whether record satisfies every clause of c.
func Matches(record Fielder, c Criteria) bool {
	if active(c.Department) && record.FieldValue("department") != c.Department {
		return false
	}
	if active(c.Status) && record.FieldValue("status") != c.Status {
		return false
	}

	needle := strings.TrimSpace(c.SearchText)
	if needle == "" {
		return true
	}
	needle = fold(needle)
	for _, field := range c.SearchFields {
		if strings.Contains(fold(record.FieldValue(field)), needle) {
			return true
		}
	}
	return false
}

// Filter keeps the records matching c, preserving order. The input is not
// modified.
func Filter[T Fielder](records []T, c Criteria) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if Matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

func active(clause string) bool {
	return clause != "" && !strings.EqualFold(clause, All)
}

// fold builds a fresh caser per call; cases.Caser is stateful and not safe
// for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}
