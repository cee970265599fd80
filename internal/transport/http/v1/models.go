package v1

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/chatmem/internal/domain"
)

// ListModels lists the models of the completion upstream.
// GET /api/models
func (h *Handler) ListModels(c echo.Context) error {
	models, err := h.service.ListModels(c.Request().Context())
	if err != nil {
		log.Printf("ERROR: list models failed: %v", err)
		return c.JSON(http.StatusBadGateway, domain.ErrorResponse{Error: "Error listing models."})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"models": models,
	})
}
