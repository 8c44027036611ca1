// Package catalog holds the pure core of the facts catalog: the
// filter/search/sort pipeline that derives the displayed view, and the
// merge/identity helpers for the combined base+user collection.
//
// Nothing in this package has side effects or mutates its inputs, so
// every function is safe to call repeatedly with the same arguments.
package catalog

import (
	"sort"
	"strings"
	"time"

	"faktoteka/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryAll is the sentinel category that disables category filtering.
const CategoryAll = "all"

// Supported sort keys. Anything else is an identity pass.
const (
	SortDateDesc  = "date-desc"
	SortDateAsc   = "date-asc"
	SortTitleAsc  = "title-asc"
	SortTitleDesc = "title-desc"
)

// Query describes what the user currently wants to see.
type Query struct {
	Category   string `json:"category"`
	SearchText string `json:"searchText"`
	SortKey    string `json:"sortKey"`
}

// DefaultQuery is the view state on startup: everything, newest first.
func DefaultQuery() Query {
	return Query{Category: CategoryAll, SearchText: "", SortKey: SortDateDesc}
}

// FilterByCategory retains facts whose category matches exactly,
// case-insensitively. The sentinel "all" passes the input through.
func FilterByCategory(facts []models.Fact, category string) []models.Fact {
	if category == CategoryAll {
		return facts
	}

	want := strings.ToLower(category)
	result := make([]models.Fact, 0, len(facts))
	for _, f := range facts {
		if strings.ToLower(f.Category) == want {
			result = append(result, f)
		}
	}
	return result
}

// Search retains facts where the trimmed, lower-cased query is a
// substring of the lower-cased title, description or category. An empty
// or whitespace-only query is the identity.
func Search(facts []models.Fact, query string) []models.Fact {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return facts
	}

	result := make([]models.Fact, 0, len(facts))
	for _, f := range facts {
		if strings.Contains(strings.ToLower(f.Title), q) ||
			strings.Contains(strings.ToLower(f.Description), q) ||
			strings.Contains(strings.ToLower(f.Category), q) {
			result = append(result, f)
		}
	}
	return result
}

// SortFacts returns a sorted copy of facts. The input is never mutated
// and the sort is stable: facts with equal keys keep their relative
// order. Titles compare under Polish collation so diacritics land where
// the alphabet puts them, not where their code points do. An
// unrecognized key returns the copy unchanged.
func SortFacts(facts []models.Fact, sortKey string) []models.Fact {
	sorted := make([]models.Fact, len(facts))
	copy(sorted, facts)

	switch sortKey {
	case SortDateDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return parseDate(sorted[i].Date).After(parseDate(sorted[j].Date))
		})
	case SortDateAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return parseDate(sorted[i].Date).Before(parseDate(sorted[j].Date))
		})
	case SortTitleAsc:
		c := collate.New(language.Polish)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	case SortTitleDesc:
		c := collate.New(language.Polish)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[j].Title, sorted[i].Title) < 0
		})
	}

	return sorted
}

// parseDate reads an ISO calendar date. Unparseable dates sort as the
// zero time, i.e. before every real date.
func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ApplyAll runs the full pipeline: category reduction, then text search,
// then sort. The stage order matters for intermediate counts but not for
// final membership, since the two filters commute.
func ApplyAll(facts []models.Fact, q Query) []models.Fact {
	result := FilterByCategory(facts, q.Category)
	result = Search(result, q.SearchText)
	return SortFacts(result, q.SortKey)
}

// Merge combines the user and base subsets into one collection with user
// facts first, so fresh additions surface at the top under the default
// recency sort. No deduplication: the two id spaces are disjoint because
// NextID always considers both.
func Merge(base, user []models.Fact) []models.Fact {
	merged := make([]models.Fact, 0, len(base)+len(user))
	merged = append(merged, user...)
	merged = append(merged, base...)
	return merged
}

// NextID returns max(id)+1 over the whole collection, with 1 for an
// empty one. It is recomputed on every create rather than cached:
// deleting the current maximum lowers the next id, and that is the
// documented behavior, not a bug to fix.
func NextID(facts []models.Fact) int {
	maxID := 0
	for _, f := range facts {
		if f.ID > maxID {
			maxID = f.ID
		}
	}
	return maxID + 1
}

// FindByID returns the fact with the given id, if present.
func FindByID(facts []models.Fact, id int) (models.Fact, bool) {
	for _, f := range facts {
		if f.ID == id {
			return f, true
		}
	}
	return models.Fact{}, false
}

// RemoveByID returns a new slice without the fact with the given id.
func RemoveByID(facts []models.Fact, id int) []models.Fact {
	result := make([]models.Fact, 0, len(facts))
	for _, f := range facts {
		if f.ID != id {
			result = append(result, f)
		}
	}
	return result
}
