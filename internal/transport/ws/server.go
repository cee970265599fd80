// Package ws provides the WebSocket chat endpoint.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/chatmem/internal/config"
	"github.com/xiaot623/gogo/chatmem/internal/domain"
	"github.com/xiaot623/gogo/chatmem/internal/service"
)

// Error codes sent in error frames.
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeRejected       = "rejected"
	ErrorCodeInternalError  = "internal_error"
)

const writeTimeout = 10 * time.Second

// Server handles WebSocket connections.
type Server struct {
	cfg      *config.Config
	service  *service.Service
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(svc *service.Service, cfg *config.Config) *Server {
	return &Server{
		cfg:     cfg,
		service: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes registers the WebSocket route with the echo server.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/chat", s.HandleWebSocket)
}

// connection is one client socket. Writes are serialized since the ping
// loop and the reader both send.
type connection struct {
	conn      *websocket.Conn
	sessionID string
	mu        sync.Mutex
}

func (c *connection) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

func (c *connection) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// HandleWebSocket handles WebSocket upgrade and serves the connection until
// the client goes away.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	conn := &connection{conn: ws}
	defer ws.Close()

	if s.cfg.WSMaxFrameSize > 0 {
		ws.SetReadLimit(s.cfg.WSMaxFrameSize)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if s.cfg.WSIdleTimeout > 0 {
		s.extendDeadline(ws)
		ws.SetPongHandler(func(string) error {
			s.extendDeadline(ws)
			return nil
		})
		go s.pingLoop(ctx, conn)
	}

	s.readLoop(ctx, conn)
	return nil
}

func (s *Server) extendDeadline(ws *websocket.Conn) {
	ws.SetReadDeadline(time.Now().Add(s.cfg.WSIdleTimeout))
}

// pingLoop keeps idle but live clients from hitting the read deadline.
func (s *Server) pingLoop(ctx context.Context, conn *connection) {
	ticker := time.NewTicker(s.cfg.WSIdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}

// readLoop handles frames one at a time, so replies on a connection keep
// request order.
func (s *Server) readLoop(ctx context.Context, conn *connection) {
	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		reply := s.handleMessage(ctx, conn, data)

		// Pongs are not read while a chat turn runs, so the idle window
		// starts again once the turn is done.
		if s.cfg.WSIdleTimeout > 0 {
			s.extendDeadline(conn.conn)
		}
		if err := conn.writeJSON(reply); err != nil {
			log.Printf("Failed to write message: %v", err)
			return
		}
	}
}

// handleMessage dispatches an incoming frame and returns the reply.
func (s *Server) handleMessage(ctx context.Context, conn *connection, data []byte) domain.Frame {
	var frame domain.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return errorFrame("", ErrorCodeInvalidMessage, "invalid JSON message")
	}

	switch frame.Type {
	case domain.FrameHello:
		return s.handleHello(conn, frame)
	case domain.FrameChat:
		return s.handleChat(ctx, conn, frame)
	default:
		return errorFrame(frame.RequestID, ErrorCodeInvalidMessage, "unknown message type: "+frame.Type)
	}
}

// handleHello binds the connection to a session, assigning one if the client
// did not name it.
func (s *Server) handleHello(conn *connection, frame domain.Frame) domain.Frame {
	sessionID := frame.SessionID
	if sessionID == "" {
		sessionID = "sess_" + uuid.New().String()
	}
	conn.sessionID = sessionID

	log.Printf("Hello handshake completed for session: %s", sessionID)
	return domain.Frame{
		Type:      domain.FrameHelloAck,
		Ts:        time.Now().UnixMilli(),
		SessionID: sessionID,
	}
}

func (s *Server) handleChat(ctx context.Context, conn *connection, frame domain.Frame) domain.Frame {
	// Use session from message, then connection.
	sessionID := frame.SessionID
	if sessionID == "" {
		sessionID = conn.sessionID
	}
	if sessionID == "" {
		sessionID = domain.DefaultSessionID
	}

	if err := s.service.Admit(ctx, sessionID, frame.Message); err != nil {
		var rejected *service.RejectedError
		if errors.As(err, &rejected) {
			return errorFrame(frame.RequestID, ErrorCodeRejected, rejected.Reason)
		}
		log.Printf("ERROR: chat admission failed: %v", err)
		return errorFrame(frame.RequestID, ErrorCodeInternalError, "Error processing chat.")
	}

	answer, err := s.service.Chat(ctx, sessionID, frame.Message)
	if err != nil {
		log.Printf("ERROR: chat failed for session %s: %v", sessionID, err)
		return errorFrame(frame.RequestID, ErrorCodeInternalError, "Error processing chat.")
	}

	return domain.Frame{
		Type:      domain.FrameAnswer,
		Ts:        time.Now().UnixMilli(),
		RequestID: frame.RequestID,
		SessionID: sessionID,
		Answer:    answer,
	}
}

func errorFrame(requestID, code, message string) domain.Frame {
	return domain.Frame{
		Type:      domain.FrameError,
		Ts:        time.Now().UnixMilli(),
		RequestID: requestID,
		Code:      code,
		Message:   message,
	}
}
