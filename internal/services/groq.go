package services

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"tutormind-backend/internal/models"
	"tutormind-backend/internal/stream"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqService talks to Groq's OpenAI-compatible chat completions API. With
// an empty API key the service reports unconfigured and callers fall back to
// mock behavior; no request is ever attempted.
type GroqService struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewGroqService(apiKey, model string, maxTokens int) *GroqService {
	s := &GroqService{model: model, maxTokens: maxTokens}
	if s.maxTokens <= 0 {
		s.maxTokens = 1024
	}
	if apiKey == "" {
		return s
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	s.client = openai.NewClientWithConfig(cfg)
	return s
}

func (s *GroqService) Configured() bool {
	return s.client != nil
}

func (s *GroqService) request(messages []models.ChatMessage, temperature float32, maxTokens int) openai.ChatCompletionRequest {
	if maxTokens <= 0 {
		maxTokens = s.maxTokens
	}

	converted := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		converted[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	return openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    converted,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

// Complete runs a single chat completion and returns the assistant text.
func (s *GroqService) Complete(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("groq client is not configured")
	}

	resp, err := s.client.CreateChatCompletion(ctx, s.request(messages, temperature, maxTokens))
	if err != nil {
		return "", fmt.Errorf("groq completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream opens a streaming completion and adapts it to a TokenStream of
// content deltas.
func (s *GroqService) Stream(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (stream.TokenStream, error) {
	if s.client == nil {
		return nil, fmt.Errorf("groq client is not configured")
	}

	cs, err := s.client.CreateChatCompletionStream(ctx, s.request(messages, temperature, maxTokens))
	if err != nil {
		return nil, fmt.Errorf("groq stream failed: %w", err)
	}
	return &groqStream{inner: cs}, nil
}

type groqStream struct {
	inner *openai.ChatCompletionStream
}

func (s *groqStream) Recv() (string, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		if err == io.EOF {
			return "", io.EOF
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *groqStream) Close() error {
	return s.inner.Close()
}
