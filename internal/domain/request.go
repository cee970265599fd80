package domain

// ChatRequest is the inbound chat payload. Prompt and Question are accepted
// as aliases of Message.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
	Question  string `json:"question,omitempty"`
}

// Text returns the first non-empty of Prompt, Question and Message.
func (r ChatRequest) Text() string {
	switch {
	case r.Prompt != "":
		return r.Prompt
	case r.Question != "":
		return r.Question
	default:
		return r.Message
	}
}

// Session returns the session id, defaulting to DefaultSessionID.
func (r ChatRequest) Session() string {
	if r.SessionID == "" {
		return DefaultSessionID
	}
	return r.SessionID
}

// ChatResponse is the answer to a chat request.
type ChatResponse struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
}

// HistoryResponse lists the turns of a session.
type HistoryResponse struct {
	SessionID string `json:"sessionId"`
	History   []Turn `json:"history"`
}

// DeleteHistoryResponse acknowledges a history deletion.
type DeleteHistoryResponse struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// ErrorResponse is returned for unexpected internal faults.
type ErrorResponse struct {
	Error string `json:"error"`
}
