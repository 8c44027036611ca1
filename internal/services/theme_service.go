package services

import (
	"log/slog"

	"faktoteka/internal/storage"
)

// ThemeService persists the selected UI theme. It sits outside the
// catalog core but shares the same key-value slot.
type ThemeService struct {
	store *storage.Store
}

// NewThemeService creates a theme service.
func NewThemeService(store *storage.Store) *ThemeService {
	return &ThemeService{store: store}
}

// Theme returns the persisted theme name (light or dark).
func (s *ThemeService) Theme() string {
	return s.store.Theme()
}

// SetTheme persists the theme. Unknown names are rejected.
func (s *ThemeService) SetTheme(theme string) error {
	if err := s.store.SaveTheme(theme); err != nil {
		return err
	}
	slog.Info("theme saved", "theme", theme)
	return nil
}
