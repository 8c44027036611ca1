// Package storage is the narrow persistence port for user data. It owns
// the two logical keys in the key-value slot and keeps JSON
// serialization at this boundary so the catalog logic never sees it.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"faktoteka/internal/database"
	"faktoteka/internal/models"
)

// Storage keys. Everything the user owns lives under these two.
const (
	KeyUserFacts = "userFacts"
	KeyTheme     = "theme"
)

// Theme names accepted by SaveTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store persists user facts and the selected theme.
type Store struct {
	db *database.DB
}

// New creates a store over an initialized database.
func New(db *database.DB) *Store {
	return &Store{db: db}
}

// UserFacts loads the persisted user facts. A missing or corrupt value
// degrades to an empty collection: the caller always gets something
// renderable. Loaded facts are normalized to user origin, since only
// user facts live in this slot.
func (s *Store) UserFacts() []models.Fact {
	raw, ok, err := s.db.GetValue(KeyUserFacts)
	if err != nil {
		slog.Warn("failed to read user facts, continuing with empty set", "error", err)
		return []models.Fact{}
	}
	if !ok {
		return []models.Fact{}
	}

	var facts []models.Fact
	if err := json.Unmarshal([]byte(raw), &facts); err != nil {
		slog.Warn("corrupt user facts payload, continuing with empty set", "error", err)
		return []models.Fact{}
	}

	for i := range facts {
		facts[i].Origin = models.OriginUser
	}
	return facts
}

// SaveUserFacts durably replaces the persisted user subset. This is the
// write-through target: callers must not treat an in-memory mutation as
// authoritative until this returns nil.
func (s *Store) SaveUserFacts(facts []models.Fact) error {
	payload, err := json.Marshal(facts)
	if err != nil {
		return fmt.Errorf("failed to serialize user facts: %w", err)
	}
	if err := s.db.SetValue(KeyUserFacts, string(payload)); err != nil {
		return fmt.Errorf("failed to persist user facts: %w", err)
	}
	return nil
}

// DeleteUserFact removes one fact from the persisted subset. Returns
// false without writing when the id is not present.
func (s *Store) DeleteUserFact(id int) (bool, error) {
	facts := s.UserFacts()

	remaining := make([]models.Fact, 0, len(facts))
	for _, f := range facts {
		if f.ID != id {
			remaining = append(remaining, f)
		}
	}
	if len(remaining) == len(facts) {
		return false, nil
	}

	if err := s.SaveUserFacts(remaining); err != nil {
		return false, err
	}
	return true, nil
}

// ClearUserData wipes every persisted user fact.
func (s *Store) ClearUserData() error {
	return s.db.DeleteValue(KeyUserFacts)
}

// Theme returns the persisted theme name, defaulting to dark.
func (s *Store) Theme() string {
	value, ok, err := s.db.GetValue(KeyTheme)
	if err != nil {
		slog.Warn("failed to read theme, using default", "error", err)
		return ThemeDark
	}
	if !ok || (value != ThemeLight && value != ThemeDark) {
		return ThemeDark
	}
	return value
}

// SaveTheme persists the selected theme. Only light and dark exist.
func (s *Store) SaveTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.db.SetValue(KeyTheme, theme)
}
