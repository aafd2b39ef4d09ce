package domain

import (
	"math"
	"slices"
	"strings"
)

// Pagination defaults applied when a caller gives no usable value.
const (
	DefaultPage      = 1
	DefaultPageLimit = 50
)

// ExerciseFilter holds the optional filter dimensions of an exercise query.
// Active dimensions are combined with AND; an empty dimension imposes no
// constraint.
type ExerciseFilter struct {
	// Muscles matches when any value appears in primaryMuscles or secondaryMuscles.
	Muscles []string
	// Equipment matches when the record's equipment equals any value.
	Equipment []string
	// Category is an exact, case-sensitive match.
	Category string
	// Search is a case-insensitive substring match against the name.
	Search string
}

// IsEmpty reports whether no dimension is active.
func (f ExerciseFilter) IsEmpty() bool {
	return len(f.Muscles) == 0 && len(f.Equipment) == 0 && f.Category == "" && f.Search == ""
}

// Matches evaluates the filter against a single record in memory. The Mongo
// repository translates the same rules into a query document.
func (f ExerciseFilter) Matches(e Exercise) bool {
	if len(f.Muscles) > 0 && !slices.ContainsFunc(e.Muscles(), func(m string) bool {
		return slices.Contains(f.Muscles, m)
	}) {
		return false
	}
	if len(f.Equipment) > 0 && !slices.Contains(f.Equipment, e.Equipment) {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Pagination is the metadata returned alongside a page of exercises.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for total matches at the given limit.
// Page and limit are expected to be already coerced to positive values.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		n := total / int64(limit)
		if total%int64(limit) != 0 {
			n++
		}
		pages = int(n)
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Skip is the number of sorted matches preceding the page. It saturates at
// math.MaxInt64 when the product does not fit.
func (p Pagination) Skip() int64 {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Overflows() {
		return math.MaxInt64
	}
	return int64(p.Page-1) * int64(p.Limit)
}

// Overflows reports whether (page-1)*limit exceeds math.MaxInt64. Such a page
// lies past the end of any collection.
func (p Pagination) Overflows() bool {
	return p.Page > 1 && p.Limit > 0 && int64(p.Page-1) > math.MaxInt64/int64(p.Limit)
}

// ExercisePage is one page of a filtered, name-sorted exercise listing.
type ExercisePage struct {
	Exercises  []Exercise `json:"exercises"`
	Pagination Pagination `json:"pagination"`
}

// SplitList turns repeated and/or comma-separated values into a clean list:
// entries are trimmed, empties dropped and duplicates removed, first
// occurrence wins.
func SplitList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || slices.Contains(out, part) {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}
