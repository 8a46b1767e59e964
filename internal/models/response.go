package models

// APIError is the typed error body returned by structured endpoints.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// WSMessage is the envelope for WebSocket push events.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StatusUpdate notifies a connected client about long-running work.
type StatusUpdate struct {
	ResourceID string `json:"resource_id"`
	Step       string `json:"step"`
	Detail     string `json:"detail,omitempty"`
}

type SignedURLResponse struct {
	SignedURL string `json:"signedUrl"`
}

type ChunkSearchRequest struct {
	Transcript string `json:"transcript"`
	Query      string `json:"query"`
	TopK       int    `json:"top_k"`
}

type ChunkSearchResponse struct {
	Success bool     `json:"success"`
	Chunks  []string `json:"chunks"`
}
