package handlers

import (
	"time"

	"faktoteka/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	factsService *services.FactsService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(factsService *services.FactsService) *HealthHandler {
	return &HealthHandler{factsService: factsService}
}

// Handle responds with server health status. A failed base dataset load
// is reported here but keeps the status healthy: the catalog still
// serves user facts.
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	total, base, user := h.factsService.Counts()

	datasetError := ""
	if err := h.factsService.LoadError(); err != nil {
		datasetError = err.Error()
	}

	return c.JSON(fiber.Map{
		"status":       "healthy",
		"facts":        total,
		"baseFacts":    base,
		"userFacts":    user,
		"datasetError": datasetError,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}
