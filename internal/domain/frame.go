package domain

// Frame is a WebSocket chat message in either direction.
type Frame struct {
	Type      string `json:"type"`
	Ts        int64  `json:"ts,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message,omitempty"`
	Answer    string `json:"answer,omitempty"`
	Code      string `json:"code,omitempty"`
}
