package v1

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/chatmem/internal/adapter/kv"
	"github.com/xiaot623/gogo/chatmem/internal/adapter/llm"
	"github.com/xiaot623/gogo/chatmem/internal/domain"
	"github.com/xiaot623/gogo/chatmem/tests/helpers"
)

func postChat(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.PostChat(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestPostChatSuccess(t *testing.T) {
	h, provider := newTestHandler(t, helpers.NewTestSQLiteStore(t), llm.NewMockClient(""))

	rec := postChat(t, h, `{"sessionId":"s1","prompt":"hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp domain.ChatResponse
	decode(t, rec, &resp)
	if resp.SessionID != "s1" || resp.Answer != "echo:hi" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if provider.Calls() != 1 {
		t.Fatalf("expected 1 provider call, got %d", provider.Calls())
	}
}

func TestPostChatAliasesAndDefaultSession(t *testing.T) {
	h, _ := newTestHandler(t, helpers.NewTestSQLiteStore(t), llm.NewMockClient(""))

	rec := postChat(t, h, `{"question":"what?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.ChatResponse
	decode(t, rec, &resp)
	if resp.SessionID != domain.DefaultSessionID || resp.Answer != "echo:what?" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPostChatRejectsBlankMessage(t *testing.T) {
	h, provider := newTestHandler(t, helpers.NewTestSQLiteStore(t), llm.NewMockClient(""))

	rec := postChat(t, h, `{"sessionId":"s1","message":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp domain.ChatResponse
	decode(t, rec, &resp)
	if resp.SessionID != "s1" || resp.Answer != llm.EmptyPromptText {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if provider.Calls() != 0 {
		t.Fatalf("blank message reached the provider")
	}
}

func TestPostChatRejectsLongMessage(t *testing.T) {
	h, _ := newTestHandler(t, helpers.NewTestSQLiteStore(t), llm.NewMockClient(""))

	long := bytes.Repeat([]byte("a"), 51)
	rec := postChat(t, h, `{"sessionId":"s1","message":"`+string(long)+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostChatMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t, helpers.NewTestSQLiteStore(t), llm.NewMockClient(""))

	rec := postChat(t, h, `{"sessionId":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostChatCorruptHistory(t *testing.T) {
	store := helpers.NewTestSQLiteStore(t)
	if err := store.Append(context.Background(), "chat:s1", "{broken"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	h, _ := newTestHandler(t, store, llm.NewMockClient(""))

	rec := postChat(t, h, `{"sessionId":"s1","message":"hello"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp domain.ErrorResponse
	decode(t, rec, &resp)
	if resp.Error != "Error processing chat." {
		t.Fatalf("unexpected error body: %+v", resp)
	}
}

func TestPostChatStoreUnavailable(t *testing.T) {
	h, _ := newTestHandler(t, kv.Unavailable{}, llm.NewMockClient(""))

	rec := postChat(t, h, `{"sessionId":"s1","message":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
