package v1

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/chatmem/internal/domain"
)

// GetHistory returns the stored turns of a session.
// GET /api/history/:sessionId
func (h *Handler) GetHistory(c echo.Context) error {
	sessionID := c.Param("sessionId")

	history, err := h.service.FetchHistory(c.Request().Context(), sessionID)
	if err != nil {
		log.Printf("ERROR: fetch history failed for session %s: %v", sessionID, err)
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "Error fetching history."})
	}

	return c.JSON(http.StatusOK, domain.HistoryResponse{SessionID: sessionID, History: history})
}

// DeleteHistory clears the history of a session.
// DELETE /api/history/:sessionId
func (h *Handler) DeleteHistory(c echo.Context) error {
	sessionID := c.Param("sessionId")

	if err := h.service.DeleteHistory(c.Request().Context(), sessionID); err != nil {
		log.Printf("ERROR: delete history failed for session %s: %v", sessionID, err)
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "Error clearing history."})
	}

	return c.JSON(http.StatusOK, domain.DeleteHistoryResponse{SessionID: sessionID, Message: "History deleted"})
}
