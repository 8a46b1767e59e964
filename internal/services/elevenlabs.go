package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const elevenLabsSignedURLEndpoint = "https://api.elevenlabs.io/v1/convai/conversation/get_signed_url"

// ElevenLabsService mints short-lived signed WebSocket URLs for the
// conversational voice agent. The browser connects to the returned URL
// directly; the API key never leaves the backend.
type ElevenLabsService struct {
	apiKey     string
	agentID    string
	httpClient *http.Client
}

func NewElevenLabsService(apiKey, agentID string) *ElevenLabsService {
	return &ElevenLabsService{
		apiKey:     apiKey,
		agentID:    agentID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *ElevenLabsService) Configured() bool {
	return s.apiKey != "" && s.agentID != ""
}

// GetSignedURL requests a signed conversation URL for the configured agent.
func (s *ElevenLabsService) GetSignedURL(ctx context.Context) (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("ElevenLabs credentials are not configured")
	}

	endpoint := elevenLabsSignedURLEndpoint + "?agent_id=" + url.QueryEscape(s.agentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build ElevenLabs request: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ElevenLabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ElevenLabs returned %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		SignedURL string `json:"signed_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode ElevenLabs response: %w", err)
	}
	if parsed.SignedURL == "" {
		return "", fmt.Errorf("ElevenLabs response did not contain a signed URL")
	}

	return parsed.SignedURL, nil
}
