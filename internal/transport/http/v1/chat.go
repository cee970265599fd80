package v1

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/chatmem/internal/domain"
	"github.com/xiaot623/gogo/chatmem/internal/service"
)

// PostChat answers one chat message.
// POST /api/chat
func (h *Handler) PostChat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "invalid request body"})
	}

	sessionID := req.Session()
	message := req.Text()
	ctx := c.Request().Context()

	if err := h.service.Admit(ctx, sessionID, message); err != nil {
		var rejected *service.RejectedError
		if errors.As(err, &rejected) {
			return c.JSON(http.StatusBadRequest, domain.ChatResponse{SessionID: sessionID, Answer: rejected.Reason})
		}
		log.Printf("ERROR: chat admission failed: %v", err)
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "Error processing chat."})
	}

	answer, err := h.service.Chat(ctx, sessionID, message)
	if err != nil {
		log.Printf("ERROR: chat failed for session %s: %v", sessionID, err)
		return c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "Error processing chat."})
	}

	return c.JSON(http.StatusOK, domain.ChatResponse{SessionID: sessionID, Answer: answer})
}
