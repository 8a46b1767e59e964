package services

import (
	"context"
	"strings"
	"testing"

	"tutormind-backend/internal/models"
)

type stubProvider struct {
	reply      string
	err        error
	configured bool
	lastPrompt string
}

func (p *stubProvider) Complete(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (string, error) {
	if len(messages) > 0 {
		p.lastPrompt = messages[len(messages)-1].Content
	}
	return p.reply, p.err
}

func (p *stubProvider) Configured() bool { return p.configured }

func TestTruncateTranscript(t *testing.T) {
	short := strings.Repeat("a", 100)
	if got := truncateTranscript(short); got != short {
		t.Error("Short transcript should pass through untouched")
	}

	long := strings.Repeat("a", transcriptTruncateLimit+1000)
	got := truncateTranscript(long)
	if !strings.HasSuffix(got, truncationMarker) {
		t.Error("Truncated transcript must carry the truncation marker")
	}
	if len(got) != transcriptTruncateLimit+len(truncationMarker) {
		t.Errorf("Truncated length = %d, want %d", len(got), transcriptTruncateLimit+len(truncationMarker))
	}
}

func TestGenerateQuiz_ParsesCodeFencedJSON(t *testing.T) {
	reply := "```json\n[{\"question\": \"What is X?\", \"options\": [\"a\", \"b\", \"c\", \"d\"], \"correct_answer\": 2}]\n```"
	svc := NewGenerationService(&stubProvider{configured: true, reply: reply})

	questions, err := svc.GenerateQuiz(context.Background(), "transcript", 1)
	if err != nil {
		t.Fatalf("GenerateQuiz failed: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(questions))
	}
	if questions[0].Question != "What is X?" || questions[0].CorrectAnswer != 2 {
		t.Errorf("Question parsed wrong: %+v", questions[0])
	}
}

func TestGenerateQuiz_ExtractsArrayFromProse(t *testing.T) {
	reply := `Here are your questions: [{"question": "Q1", "options": ["a","b"], "correct_answer": 0}] Enjoy!`
	svc := NewGenerationService(&stubProvider{configured: true, reply: reply})

	questions, err := svc.GenerateQuiz(context.Background(), "transcript", 1)
	if err != nil {
		t.Fatalf("GenerateQuiz failed: %v", err)
	}
	if questions[0].Question != "Q1" {
		t.Errorf("Expected extracted question Q1, got %+v", questions[0])
	}
}

func TestGenerateQuiz_PadsToRequestedCount(t *testing.T) {
	reply := `[{"question": "Only one", "options": ["a","b","c","d"], "correct_answer": 1}]`
	svc := NewGenerationService(&stubProvider{configured: true, reply: reply})

	questions, err := svc.GenerateQuiz(context.Background(), "transcript", 3)
	if err != nil {
		t.Fatalf("GenerateQuiz failed: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("Expected exactly 3 questions, got %d", len(questions))
	}
	if questions[0].Question != "Only one" {
		t.Error("Real question should come first")
	}
	if len(questions[2].Options) != 4 {
		t.Error("Placeholder questions need 4 options")
	}
}

func TestGenerateQuiz_ClampsOutOfRangeAnswer(t *testing.T) {
	reply := `[{"question": "Q", "options": ["a","b"], "correct_answer": 9}]`
	svc := NewGenerationService(&stubProvider{configured: true, reply: reply})

	questions, err := svc.GenerateQuiz(context.Background(), "transcript", 1)
	if err != nil {
		t.Fatalf("GenerateQuiz failed: %v", err)
	}
	if questions[0].CorrectAnswer != 0 {
		t.Errorf("Out-of-range correct_answer should reset to 0, got %d", questions[0].CorrectAnswer)
	}
}

func TestGenerateQuiz_MockWithoutProvider(t *testing.T) {
	svc := NewGenerationService(&stubProvider{configured: false})

	questions, err := svc.GenerateQuiz(context.Background(), "transcript", 5)
	if err != nil {
		t.Fatalf("Mock quiz failed: %v", err)
	}
	if len(questions) != 5 {
		t.Errorf("Mock quiz should honor the requested count, got %d", len(questions))
	}
}

func TestGenerateSummary_MockWithoutProvider(t *testing.T) {
	svc := NewGenerationService(&stubProvider{configured: false})

	summary, err := svc.GenerateSummary(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Mock summary failed: %v", err)
	}
	if !strings.Contains(summary, "mock summary") {
		t.Errorf("Expected mock summary marker, got %q", summary)
	}
}

func TestGenerateSummary_TruncatesLongTranscript(t *testing.T) {
	provider := &stubProvider{configured: true, reply: "summary"}
	svc := NewGenerationService(provider)

	long := strings.Repeat("x", transcriptTruncateLimit+5000)
	if _, err := svc.GenerateSummary(context.Background(), long); err != nil {
		t.Fatalf("GenerateSummary failed: %v", err)
	}
	if !strings.Contains(provider.lastPrompt, "[Transcript truncated due to length...]") {
		t.Error("Prompt should carry the truncation marker for long transcripts")
	}
}

func TestEvaluateConceptDetective_EmptyAnswers(t *testing.T) {
	svc := NewGenerationService(&stubProvider{configured: true})

	resp, err := svc.EvaluateConceptDetective(context.Background(), "transcript", nil)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if !resp.Success || len(resp.Scores) != 0 {
		t.Errorf("Empty answers should yield empty success response, got %+v", resp)
	}
}

func TestEvaluateConceptDetective_FallsBackOnBadJSON(t *testing.T) {
	svc := NewGenerationService(&stubProvider{configured: true, reply: "not json at all"})

	answers := []models.ConceptDetectiveAnswer{{LevelIndex: 1, QuestionIndex: 2, Answer: "because"}}
	resp, err := svc.EvaluateConceptDetective(context.Background(), "transcript", answers)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if _, ok := resp.Scores["1-2"]; !ok {
		t.Errorf("Fallback should score every answer, got %+v", resp.Scores)
	}
}

func TestGenerateConceptDetective_MockHasThreeLevels(t *testing.T) {
	svc := NewGenerationService(&stubProvider{configured: false})

	game, err := svc.GenerateConceptDetective(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Mock game failed: %v", err)
	}
	if !game.Success || len(game.Levels) != 3 {
		t.Errorf("Mock game should succeed with 3 levels, got %+v", game)
	}
}
