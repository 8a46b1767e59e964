package models

import "time"

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role      string     `json:"role"` // "system", "user" or "assistant"
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ChatRequest is the payload sent to the chat endpoints.
type ChatRequest struct {
	Messages   []ChatMessage `json:"messages"`
	Transcript string        `json:"transcript"`
	UserID     string        `json:"user_id,omitempty"`
}

// ChatResponse is the reply from the AI tutor.
type ChatResponse struct {
	Message string `json:"message"`
}
