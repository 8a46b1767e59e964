package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tutormind-backend/internal/models"
	"tutormind-backend/internal/stream"
)

type fakeProvider struct {
	reply      string
	err        error
	configured bool

	lastMessages []models.ChatMessage
	lastTemp     float32
}

func (p *fakeProvider) Complete(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (string, error) {
	p.lastMessages = messages
	p.lastTemp = temperature
	return p.reply, p.err
}

func (p *fakeProvider) Stream(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (stream.TokenStream, error) {
	p.lastMessages = messages
	p.lastTemp = temperature
	return nil, p.err
}

func (p *fakeProvider) Configured() bool { return p.configured }

func TestModeTemperature(t *testing.T) {
	if got := ModeDirect.Temperature(); got != 0.3 {
		t.Errorf("Direct temperature = %v, want 0.3", got)
	}
	if got := ModeSocratic.Temperature(); got != 0.7 {
		t.Errorf("Socratic temperature = %v, want 0.7", got)
	}
	if got := ModeAdaptive.Temperature(); got != 0.7 {
		t.Errorf("Adaptive temperature = %v, want 0.7", got)
	}
}

func TestDominantStyle(t *testing.T) {
	p := models.NewLearningStyleProfile()
	p.PerceptualMode["kinesthetic"] = 0.6
	p.PerceptualMode["visual"] = 0.2

	if got := DominantStyle(p); got != "kinesthetic" {
		t.Errorf("DominantStyle = %q, want kinesthetic", got)
	}
}

func TestDominantStyle_TieBreaksByCanonicalOrder(t *testing.T) {
	// Uniform weights: the first key in the canonical order wins, so the
	// result does not depend on map iteration.
	p := models.NewLearningStyleProfile()
	for i := 0; i < 50; i++ {
		if got := DominantStyle(p); got != "visual" {
			t.Fatalf("DominantStyle on uniform profile = %q, want visual", got)
		}
	}
}

func TestDominantStyle_NilProfile(t *testing.T) {
	if got := DominantStyle(nil); got != "visual" {
		t.Errorf("DominantStyle(nil) = %q, want visual", got)
	}
}

func TestBuildMessages_TruncatesTranscript(t *testing.T) {
	g := NewGenerator(&fakeProvider{configured: true}, 1024)
	long := strings.Repeat("x", transcriptExcerptLimit+500)

	messages := g.BuildMessages(ModeSocratic, long, nil, nil)
	if len(messages) != 2 {
		t.Fatalf("Expected system prompt + transcript context, got %d messages", len(messages))
	}
	if len(messages[1].Content) > transcriptExcerptLimit+100 {
		t.Errorf("Transcript context not truncated: %d chars", len(messages[1].Content))
	}
}

func TestBuildMessages_OrderAndHistory(t *testing.T) {
	g := NewGenerator(&fakeProvider{configured: true}, 1024)
	history := []models.ChatMessage{
		{Role: "user", Content: "What is entropy?"},
		{Role: "assistant", Content: "What do you think it measures?"},
	}

	messages := g.BuildMessages(ModeDirect, "lecture text", history, nil)
	if len(messages) != 4 {
		t.Fatalf("Expected 4 messages, got %d", len(messages))
	}
	if messages[0].Role != "system" || messages[1].Role != "system" {
		t.Error("First two messages should be system messages")
	}
	if !strings.Contains(messages[1].Content, "lecture text") {
		t.Error("Second system message should carry the transcript")
	}
	if messages[2].Content != "What is entropy?" || messages[3].Role != "assistant" {
		t.Error("History not preserved in order")
	}
}

func TestBuildMessages_AdaptiveUsesDominantStyle(t *testing.T) {
	g := NewGenerator(&fakeProvider{configured: true}, 1024)
	p := models.NewLearningStyleProfile()
	p.PerceptualMode["kinesthetic"] = 0.9

	messages := g.BuildMessages(ModeAdaptive, "t", nil, p)
	if !strings.Contains(messages[0].Content, "hands-on") {
		t.Errorf("Adaptive system prompt should carry kinesthetic instructions, got %q", messages[0].Content)
	}
}

func TestReply_UsesModeTemperature(t *testing.T) {
	provider := &fakeProvider{configured: true, reply: "answer"}
	g := NewGenerator(provider, 1024)

	g.Reply(context.Background(), ModeDirect, "t", nil, nil)
	if provider.lastTemp != 0.3 {
		t.Errorf("Direct reply temperature = %v, want 0.3", provider.lastTemp)
	}

	g.Reply(context.Background(), ModeSocratic, "t", nil, nil)
	if provider.lastTemp != 0.7 {
		t.Errorf("Socratic reply temperature = %v, want 0.7", provider.lastTemp)
	}
}

func TestReply_ProviderErrorBecomesApology(t *testing.T) {
	provider := &fakeProvider{configured: true, err: errors.New("rate limited")}
	g := NewGenerator(provider, 1024)

	got := g.Reply(context.Background(), ModeSocratic, "t", nil, nil)
	if !strings.Contains(got, "I'm having trouble processing your question") {
		t.Errorf("Expected apology reply, got %q", got)
	}
	if !strings.Contains(got, "rate limited") {
		t.Errorf("Apology should include the error detail, got %q", got)
	}
}

func TestReply_UnconfiguredProviderReturnsMock(t *testing.T) {
	g := NewGenerator(&fakeProvider{configured: false}, 1024)

	got := g.Reply(context.Background(), ModeSocratic, "t", nil, nil)
	if !strings.Contains(got, "mock response") {
		t.Errorf("Expected mock reply without credentials, got %q", got)
	}
}

func TestOpenStream_SignalsMockMode(t *testing.T) {
	g := NewGenerator(&fakeProvider{configured: false}, 1024)

	_, live, err := g.OpenStream(context.Background(), ModeSocratic, "t", nil, nil)
	if err != nil {
		t.Fatalf("OpenStream returned error in mock mode: %v", err)
	}
	if live {
		t.Error("OpenStream should report mock mode when no provider is configured")
	}
}
