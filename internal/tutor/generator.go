package tutor

import (
	"context"
	"fmt"

	"tutormind-backend/internal/models"
	"tutormind-backend/internal/stream"
)

// transcriptExcerptLimit bounds the grounding excerpt prepended ahead of
// the conversation history.
const transcriptExcerptLimit = 8000

// Provider is the generative-text collaborator. It is injected at
// construction so tests can substitute a fake; there is no package-level
// client handle.
type Provider interface {
	Complete(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (string, error)
	Stream(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (stream.TokenStream, error)
	Configured() bool
}

// Generator builds persona-specific prompts and requests completions.
type Generator struct {
	provider  Provider
	maxTokens int
}

func NewGenerator(provider Provider, maxTokens int) *Generator {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Generator{provider: provider, maxTokens: maxTokens}
}

// BuildMessages assembles the full message sequence: persona system prompt,
// transcript grounding excerpt (first 8000 characters), then the
// conversation history.
func (g *Generator) BuildMessages(mode Mode, transcript string, history []models.ChatMessage, p *models.LearningStyleProfile) []models.ChatMessage {
	excerpt := transcript
	if len(excerpt) > transcriptExcerptLimit {
		excerpt = excerpt[:transcriptExcerptLimit]
	}

	messages := make([]models.ChatMessage, 0, len(history)+2)
	messages = append(messages, models.ChatMessage{Role: "system", Content: systemPrompt(mode, p)})
	messages = append(messages, models.ChatMessage{Role: "system", Content: transcriptContext(mode, excerpt)})
	for _, m := range history {
		messages = append(messages, models.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return messages
}

// Reply requests a single completion. Provider failures never propagate:
// the chat surface deliberately returns a natural-language apology with the
// error detail instead of failing the request.
func (g *Generator) Reply(ctx context.Context, mode Mode, transcript string, history []models.ChatMessage, p *models.LearningStyleProfile) string {
	if g.provider == nil || !g.provider.Configured() {
		return g.MockReply(mode)
	}

	messages := g.BuildMessages(mode, transcript, history, p)
	text, err := g.provider.Complete(ctx, messages, mode.Temperature(), g.maxTokens)
	if err != nil {
		return fmt.Sprintf("I'm having trouble processing your question. Could you try asking in a different way? (Error: %s)", err)
	}
	return text
}

// OpenStream starts a streaming completion. The second return value is
// false when no provider is configured, in which case the caller should
// relay MockReply through the mock path instead.
func (g *Generator) OpenStream(ctx context.Context, mode Mode, transcript string, history []models.ChatMessage, p *models.LearningStyleProfile) (stream.TokenStream, bool, error) {
	if g.provider == nil || !g.provider.Configured() {
		return nil, false, nil
	}

	messages := g.BuildMessages(mode, transcript, history, p)
	s, err := g.provider.Stream(ctx, messages, mode.Temperature(), g.maxTokens)
	if err != nil {
		return nil, true, err
	}
	return s, true, nil
}

// MockReply is the deterministic fallback used without credentials.
func (g *Generator) MockReply(mode Mode) string {
	if mode == ModeDirect {
		return "Based on the transcript, I can tell you that the key ideas are covered in the lecture content. (Note: This is a mock response as the Groq API key is not configured)"
	}
	return "I'd be happy to discuss this lecture with you! What specific aspect would you like to explore further? Is there a concept you find particularly challenging or interesting? (Note: This is a mock response as the Groq API key is not configured)"
}
