// Package domain defines the core domain models for the chat backend.
package domain

// Role identifies who produced a turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// DefaultSessionID is used when a caller does not name a session.
const DefaultSessionID = "unknown"

// Frame types exchanged on the WebSocket chat endpoint.
const (
	FrameHello    = "hello"
	FrameHelloAck = "hello_ack"
	FrameChat     = "chat"
	FrameAnswer   = "answer"
	FrameError    = "error"
)
