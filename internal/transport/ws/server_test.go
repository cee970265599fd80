package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/chatmem/internal/adapter/llm"
	"github.com/xiaot623/gogo/chatmem/internal/config"
	"github.com/xiaot623/gogo/chatmem/internal/domain"
	"github.com/xiaot623/gogo/chatmem/internal/service"
	"github.com/xiaot623/gogo/chatmem/policy"
	"github.com/xiaot623/gogo/chatmem/tests/helpers"
)

func newTestServer(t *testing.T) (*websocket.Conn, *helpers.EchoProvider) {
	t.Helper()
	provider := &helpers.EchoProvider{}
	return dialTestServer(t, time.Minute, provider), provider
}

func dialTestServer(t *testing.T, idle time.Duration, provider *helpers.EchoProvider) *websocket.Conn {
	t.Helper()
	cfg := &config.Config{
		SessionTTL:       time.Hour,
		CacheTTL:         time.Hour,
		SummaryThreshold: 6,
		RetainTurns:      2,
		CacheDegraded:    true,
		WSIdleTimeout:    idle,
		WSMaxFrameSize:   4096,
	}
	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	svc := service.New(helpers.NewTestSQLiteStore(t), provider, llm.NewMockClient(""), cfg, policyEngine)

	e := echo.New()
	NewServer(svc, cfg).RegisterRoutes(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, frame domain.Frame) domain.Frame {
	t.Helper()
	require.NoError(t, conn.WriteJSON(frame))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply domain.Frame
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestHelloAssignsSession(t *testing.T) {
	conn, _ := newTestServer(t)

	ack := roundTrip(t, conn, domain.Frame{Type: domain.FrameHello})
	assert.Equal(t, domain.FrameHelloAck, ack.Type)
	assert.True(t, strings.HasPrefix(ack.SessionID, "sess_"), ack.SessionID)
}

func TestHelloKeepsSession(t *testing.T) {
	conn, _ := newTestServer(t)

	ack := roundTrip(t, conn, domain.Frame{Type: domain.FrameHello, SessionID: "mine"})
	assert.Equal(t, "mine", ack.SessionID)
}

func TestChatUsesHelloSession(t *testing.T) {
	conn, provider := newTestServer(t)

	ack := roundTrip(t, conn, domain.Frame{Type: domain.FrameHello, SessionID: "s1"})
	require.Equal(t, domain.FrameHelloAck, ack.Type)

	answer := roundTrip(t, conn, domain.Frame{Type: domain.FrameChat, RequestID: "r1", Message: "hi"})
	assert.Equal(t, domain.FrameAnswer, answer.Type)
	assert.Equal(t, "r1", answer.RequestID)
	assert.Equal(t, "s1", answer.SessionID)
	assert.Equal(t, "echo:hi", answer.Answer)

	answer = roundTrip(t, conn, domain.Frame{Type: domain.FrameChat, RequestID: "r2", Message: "again"})
	assert.Equal(t, "r2", answer.RequestID)
	prompts := provider.Prompts()
	require.Len(t, prompts, 2)
	assert.Equal(t, "again", prompts[1])
}

func TestChatWithoutHello(t *testing.T) {
	conn, _ := newTestServer(t)

	answer := roundTrip(t, conn, domain.Frame{Type: domain.FrameChat, RequestID: "r1", Message: "hi"})
	assert.Equal(t, domain.FrameAnswer, answer.Type)
	assert.Equal(t, domain.DefaultSessionID, answer.SessionID)
}

func TestChatRejected(t *testing.T) {
	conn, provider := newTestServer(t)

	reply := roundTrip(t, conn, domain.Frame{Type: domain.FrameChat, RequestID: "r1", Message: " "})
	assert.Equal(t, domain.FrameError, reply.Type)
	assert.Equal(t, ErrorCodeRejected, reply.Code)
	assert.Equal(t, "r1", reply.RequestID)
	assert.Equal(t, llm.EmptyPromptText, reply.Message)
	assert.Equal(t, 0, provider.Calls())
}

func TestInvalidFrames(t *testing.T) {
	conn, _ := newTestServer(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{nope")))
	var reply domain.Frame
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, ErrorCodeInvalidMessage, reply.Code)

	reply = roundTrip(t, conn, domain.Frame{Type: "dance"})
	assert.Equal(t, domain.FrameError, reply.Type)
	assert.Equal(t, ErrorCodeInvalidMessage, reply.Code)
}

func TestSlowTurnDoesNotCountAsIdle(t *testing.T) {
	provider := &helpers.EchoProvider{Delay: 600 * time.Millisecond}
	conn := dialTestServer(t, 200*time.Millisecond, provider)

	first := roundTrip(t, conn, domain.Frame{Type: domain.FrameChat, RequestID: "r1", SessionID: "s1", Message: "slow"})
	assert.Equal(t, domain.FrameAnswer, first.Type)

	second := roundTrip(t, conn, domain.Frame{Type: domain.FrameChat, RequestID: "r2", SessionID: "s1", Message: "again"})
	assert.Equal(t, domain.FrameAnswer, second.Type)
	assert.Equal(t, "r2", second.RequestID)
	assert.Equal(t, 2, provider.Calls())
}
