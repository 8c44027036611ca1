package handlers

import (
	"faktoteka/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ThemeHandler handles theme persistence requests
type ThemeHandler struct {
	themeService *services.ThemeService
}

// NewThemeHandler creates a new theme handler
func NewThemeHandler(themeService *services.ThemeService) *ThemeHandler {
	return &ThemeHandler{themeService: themeService}
}

// Get returns the persisted theme
func (h *ThemeHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"theme": h.themeService.Theme(),
	})
}

// Set persists the selected theme
func (h *ThemeHandler) Set(c *fiber.Ctx) error {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.themeService.SetTheme(req.Theme); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Theme must be light or dark",
		})
	}

	return c.JSON(fiber.Map{
		"theme": req.Theme,
	})
}
