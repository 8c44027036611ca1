package handlers

import (
	"errors"

	"faktoteka/internal/catalog"
	"faktoteka/internal/models"
	"faktoteka/internal/services"

	"github.com/gofiber/fiber/v2"
)

// FactsHandler handles fact-related HTTP requests
type FactsHandler struct {
	factsService  *services.FactsService
	exportService *services.ExportService
}

// NewFactsHandler creates a new facts handler
func NewFactsHandler(factsService *services.FactsService, exportService *services.ExportService) *FactsHandler {
	return &FactsHandler{factsService: factsService, exportService: exportService}
}

func queryFromRequest(c *fiber.Ctx) catalog.Query {
	return catalog.Query{
		Category:   c.Query("category", catalog.CategoryAll),
		SearchText: c.Query("search", ""),
		SortKey:    c.Query("sort", catalog.SortDateDesc),
	}
}

// List returns the derived view for the requested category, search text
// and sort key, with optional limit/offset paging applied after the
// pipeline.
func (h *FactsHandler) List(c *fiber.Ctx) error {
	view := h.factsService.ViewFor(queryFromRequest(c))

	facts := view.Facts
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 0)

	if offset > 0 {
		if offset >= len(facts) {
			facts = []models.Fact{}
		} else {
			facts = facts[offset:]
		}
	}
	if limit > 0 && limit < len(facts) {
		facts = facts[:limit]
	}

	return c.JSON(fiber.Map{
		"facts":      facts,
		"total":      view.Total,
		"filtered":   view.Filtered,
		"countLabel": view.CountLabel,
	})
}

// Get returns a single fact by id
func (h *FactsHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fact id",
		})
	}

	fact, ok := catalog.FindByID(h.factsService.All(), id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fact not found",
		})
	}

	return c.JSON(fact)
}

// Create adds a new user fact. Validation failures come back with every
// violated rule, not just the first.
func (h *FactsHandler) Create(c *fiber.Ctx) error {
	var req models.CreateFactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	fact, view, err := h.factsService.AddFact(req)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":      "Validation failed",
				"violations": verr.Violations,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to persist fact",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"fact":       fact,
		"countLabel": view.CountLabel,
	})
}

// Delete removes a user fact. Base facts are read-only.
func (h *FactsHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fact id",
		})
	}

	view, err := h.factsService.DeleteFact(id)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Fact not found",
			})
		case errors.Is(err, catalog.ErrNotDeletable):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Only user facts can be deleted",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to persist deletion",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"countLabel": view.CountLabel,
	})
}

// Random returns one uniformly random fact from the current view.
func (h *FactsHandler) Random(c *fiber.Ctx) error {
	fact, ok := h.factsService.RandomFact()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Brak ciekawostek do wyświetlenia.",
		})
	}
	return c.JSON(fact)
}

// Categories lists the distinct categories of the merged collection
func (h *FactsHandler) Categories(c *fiber.Ctx) error {
	categories := h.factsService.Categories()
	return c.JSON(fiber.Map{
		"categories": categories,
		"total":      len(categories),
	})
}

// Export streams the current view as an XLSX attachment.
func (h *FactsHandler) Export(c *fiber.Ctx) error {
	view := h.factsService.ViewFor(queryFromRequest(c))

	payload, err := h.exportService.ExportXLSX(view)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build export",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ciekawostki.xlsx"`)
	return c.Send(payload)
}
