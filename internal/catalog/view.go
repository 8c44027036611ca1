package catalog

import (
	"fmt"
	"strings"

	"faktoteka/internal/models"
)

// View is the derived result of running a query against the merged
// collection: the exact ordered sequence to display plus the counter
// label that goes with it. Views are recomputed on every event and never
// stored.
type View struct {
	Facts      []models.Fact `json:"facts"`
	Total      int           `json:"total"`
	Filtered   bool          `json:"filtered"`
	CountLabel string        `json:"countLabel"`
}

// BuildView derives the view for a query. The counter reads "found N"
// only when a search or a category filter is active; otherwise it
// reports the plain total.
func BuildView(facts []models.Fact, q Query) View {
	result := ApplyAll(facts, q)
	filtered := q.Category != CategoryAll || strings.TrimSpace(q.SearchText) != ""

	label := fmt.Sprintf("Liczba ciekawostek: %d", len(result))
	if filtered {
		label = fmt.Sprintf("Znaleziono %d ciekawostek.", len(result))
	}

	return View{
		Facts:      result,
		Total:      len(result),
		Filtered:   filtered,
		CountLabel: label,
	}
}
