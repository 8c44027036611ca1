package models

import (
	"fmt"
	"strings"
	"time"
)

// Origin marks where a fact came from and governs mutability:
// base facts are read-only, user facts can be deleted.
type Origin string

const (
	OriginBase Origin = "base"
	OriginUser Origin = "user"
)

// Fact is a single catalog record.
type Fact struct {
	ID          int    `json:"id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"`
	Date        string `json:"date"` // ISO calendar date, YYYY-MM-DD
	Origin      Origin `json:"origin,omitempty"`
}

// IsUser reports whether the fact was authored by the user and is
// therefore deletable.
func (f Fact) IsUser() bool {
	return f.Origin == OriginUser
}

// Validation limits for user-authored facts. Base dataset records are
// not constrained.
const (
	TitleMinLen       = 5
	TitleMaxLen       = 100
	DescriptionMinLen = 20
	DescriptionMaxLen = 500
)

// DefaultSource is stamped on user facts submitted without a source.
const DefaultSource = "Użytkownik"

// CreateFactRequest is the payload for adding a user fact.
type CreateFactRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Validate checks the request and returns every violated rule in order,
// not just the first. An empty slice means the request is valid.
func (r CreateFactRequest) Validate() []string {
	var violations []string

	title := strings.TrimSpace(r.Title)
	if len([]rune(title)) < TitleMinLen {
		violations = append(violations, fmt.Sprintf("Tytuł musi mieć minimum %d znaków", TitleMinLen))
	}
	if len([]rune(title)) > TitleMaxLen {
		violations = append(violations, fmt.Sprintf("Tytuł nie może przekroczyć %d znaków", TitleMaxLen))
	}

	if strings.TrimSpace(r.Category) == "" {
		violations = append(violations, "Wybierz kategorię")
	}

	description := strings.TrimSpace(r.Description)
	if len([]rune(description)) < DescriptionMinLen {
		violations = append(violations, fmt.Sprintf("Opis musi mieć minimum %d znaków", DescriptionMinLen))
	}
	if len([]rune(description)) > DescriptionMaxLen {
		violations = append(violations, fmt.Sprintf("Opis nie może przekroczyć %d znaków", DescriptionMaxLen))
	}

	return violations
}

// ToFact builds the persistable user fact. The caller supplies the id
// (freshly computed against the merged collection). Title, description
// and source are trimmed; an omitted source falls back to DefaultSource;
// the date is stamped with today's calendar date.
func (r CreateFactRequest) ToFact(id int) Fact {
	source := strings.TrimSpace(r.Source)
	if source == "" {
		source = DefaultSource
	}

	return Fact{
		ID:          id,
		Category:    strings.TrimSpace(r.Category),
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Source:      source,
		Date:        time.Now().Format("2006-01-02"),
		Origin:      OriginUser,
	}
}
