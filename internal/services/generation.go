package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tutormind-backend/internal/models"
)

// Content longer than this is truncated before prompting so the request
// stays inside the model context window.
const transcriptTruncateLimit = 16000

const truncationMarker = "\n\n[Transcript truncated due to length...]"

type completionProvider interface {
	Complete(ctx context.Context, messages []models.ChatMessage, temperature float32, maxTokens int) (string, error)
	Configured() bool
}

// GenerationService produces summaries, quizzes and concept-detective games
// from lecture transcripts. Without a configured provider every method
// returns deterministic mock content so the rest of the pipeline stays
// exercisable.
type GenerationService struct {
	provider completionProvider
}

func NewGenerationService(provider completionProvider) *GenerationService {
	return &GenerationService{provider: provider}
}

func truncateTranscript(transcript string) string {
	if len(transcript) <= transcriptTruncateLimit {
		return transcript
	}
	return transcript[:transcriptTruncateLimit] + truncationMarker
}

// GenerateSummary produces a structured study summary of the transcript.
func (s *GenerationService) GenerateSummary(ctx context.Context, transcript string) (string, error) {
	if !s.provider.Configured() {
		return mockSummary, nil
	}

	prompt := fmt.Sprintf(`Create a comprehensive summary of the following lecture transcript.

Structure the summary as follows:
1. Main Topic: One sentence stating what the lecture is about.
2. Key Points: The most important concepts covered, as a bulleted list.
3. Important Details: Supporting facts, examples, or explanations worth remembering.
4. Conclusion: The main takeaway from the lecture.

Transcript:
%s`, truncateTranscript(transcript))

	messages := []models.ChatMessage{
		{Role: "system", Content: "You are an expert at summarizing educational content. Create clear, well-organized summaries that help students review lecture material."},
		{Role: "user", Content: prompt},
	}

	text, err := s.provider.Complete(ctx, messages, 0.3, 2048)
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}
	return text, nil
}

// GenerateQuiz produces numQuestions multiple-choice questions. The result
// always has exactly numQuestions entries: malformed or missing questions
// are replaced with placeholders rather than failing the request.
func (s *GenerationService) GenerateQuiz(ctx context.Context, transcript string, numQuestions int) ([]models.QuizQuestion, error) {
	if !s.provider.Configured() {
		return mockQuiz(numQuestions), nil
	}

	prompt := fmt.Sprintf(`Generate exactly %d multiple-choice questions based on the following lecture transcript.

Return ONLY a valid JSON array. No preamble, no markdown, no backticks.

JSON schema per question:
{"question": "string", "options": ["string", "string", "string", "string"], "correct_answer": 0}

Rules:
- Each question must have exactly 4 options.
- correct_answer is the 0-based index of the right option.
- Questions must be answerable from the transcript alone.

Transcript:
%s`, numQuestions, truncateTranscript(transcript))

	messages := []models.ChatMessage{
		{Role: "system", Content: "You are an expert quiz creator for educational content. You respond only with valid JSON."},
		{Role: "user", Content: prompt},
	}

	raw, err := s.provider.Complete(ctx, messages, 0.5, 2048)
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	questions := parseQuizJSON(raw)
	return padQuiz(validateQuiz(questions), numQuestions), nil
}

func parseQuizJSON(raw string) []models.QuizQuestion {
	raw = stripCodeFences(raw)

	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err == nil {
		return questions
	}

	// Model wrapped the array in prose: extract the outermost array.
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		json.Unmarshal([]byte(raw[start:end+1]), &questions)
	}
	return questions
}

func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

func validateQuiz(questions []models.QuizQuestion) []models.QuizQuestion {
	var valid []models.QuizQuestion
	for _, q := range questions {
		if q.Question == "" || len(q.Options) < 2 {
			continue
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			q.CorrectAnswer = 0
		}
		valid = append(valid, q)
	}
	return valid
}

func padQuiz(questions []models.QuizQuestion, want int) []models.QuizQuestion {
	if len(questions) > want {
		return questions[:want]
	}
	for i := len(questions); i < want; i++ {
		questions = append(questions, placeholderQuestion(i+1))
	}
	return questions
}

func placeholderQuestion(n int) models.QuizQuestion {
	return models.QuizQuestion{
		Question:      fmt.Sprintf("Question %d about the lecture content", n),
		Options:       []string{"Option A", "Option B", "Option C", "Option D"},
		CorrectAnswer: 0,
	}
}

// GenerateConceptDetective builds an analogy-driven detective game from the
// transcript: a framing story plus levels of statements the student marks
// as accurate or flawed.
func (s *GenerationService) GenerateConceptDetective(ctx context.Context, transcript string) (*models.ConceptDetectiveResponse, error) {
	if !s.provider.Configured() {
		return mockConceptDetective(), nil
	}

	prompt := fmt.Sprintf(`Create a "Concept Detective" learning game from the following lecture transcript.

Return ONLY a valid JSON object. No preamble, no markdown, no backticks.

Schema:
{
  "analogy": "a real-world analogy for the core concept",
  "description": "one-paragraph game introduction addressed to the student",
  "levels": [
    {
      "title": "level title",
      "story": "short detective-story framing for this level",
      "questions": [
        {"text": "a statement about the lecture material", "type": "accurate|flawed"}
      ]
    }
  ]
}

Rules:
- Create exactly 3 levels of increasing difficulty.
- Each level has 2 to 3 statements, mixing accurate and subtly flawed ones.
- Flawed statements must contain a plausible but real misconception.

Transcript:
%s`, truncateTranscript(transcript))

	messages := []models.ChatMessage{
		{Role: "system", Content: "You are a creative educational game designer. You respond only with valid JSON."},
		{Role: "user", Content: prompt},
	}

	raw, err := s.provider.Complete(ctx, messages, 0.7, 2048)
	if err != nil {
		return nil, fmt.Errorf("concept detective generation failed: %w", err)
	}

	var game models.ConceptDetectiveResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &game); err != nil {
		return nil, fmt.Errorf("concept detective response was not valid JSON: %w", err)
	}
	if len(game.Levels) == 0 {
		return nil, fmt.Errorf("concept detective response contained no levels")
	}

	game.Success = true
	return &game, nil
}

// EvaluateConceptDetective scores the student's explanations. Each answer is
// scored 0-10 with short feedback, keyed "levelIndex-questionIndex". When the
// model response cannot be parsed every answer falls back to a neutral score.
func (s *GenerationService) EvaluateConceptDetective(ctx context.Context, transcript string, answers []models.ConceptDetectiveAnswer) (*models.ConceptDetectiveEvaluationResponse, error) {
	if len(answers) == 0 {
		return &models.ConceptDetectiveEvaluationResponse{
			Success:  true,
			Scores:   map[string]int{},
			Feedback: map[string]string{},
		}, nil
	}

	if !s.provider.Configured() {
		return mockEvaluation(answers), nil
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	prompt := fmt.Sprintf(`Evaluate a student's answers from a concept-detection game about this lecture.

Each answer explains why the student believes a statement is accurate or flawed. Score each answer 0-10 for correctness and depth of reasoning, and give one sentence of feedback.

Return ONLY a valid JSON object. No preamble, no markdown, no backticks.

Schema (keys are "levelIndex-questionIndex"):
{"scores": {"0-0": 8}, "feedback": {"0-0": "feedback sentence"}}

Student answers:
%s

Transcript:
%s`, answersJSON, truncateTranscript(transcript))

	messages := []models.ChatMessage{
		{Role: "system", Content: "You are a fair and encouraging educational assessor. You respond only with valid JSON."},
		{Role: "user", Content: prompt},
	}

	raw, err := s.provider.Complete(ctx, messages, 0.3, 2048)
	if err != nil {
		return nil, fmt.Errorf("concept detective evaluation failed: %w", err)
	}

	var parsed struct {
		Scores   map[string]int    `json:"scores"`
		Feedback map[string]string `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil || len(parsed.Scores) == 0 {
		return mockEvaluation(answers), nil
	}

	return &models.ConceptDetectiveEvaluationResponse{
		Success:  true,
		Scores:   parsed.Scores,
		Feedback: parsed.Feedback,
	}, nil
}

// Mock content used when no provider credentials are present.

const mockSummary = `1. Main Topic: This lecture covers the fundamental concepts presented in the uploaded material.

2. Key Points:
- The lecture introduces the core terminology of the subject.
- Several worked examples illustrate how the concepts apply in practice.
- Common misconceptions are identified and corrected.

3. Important Details: The examples build on one another, so reviewing them in order is recommended.

4. Conclusion: Understanding the foundational definitions is essential before moving to advanced applications.

(Note: This is a mock summary as the Groq API key is not configured)`

func mockQuiz(n int) []models.QuizQuestion {
	questions := make([]models.QuizQuestion, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, placeholderQuestion(i+1))
	}
	return questions
}

func mockConceptDetective() *models.ConceptDetectiveResponse {
	return &models.ConceptDetectiveResponse{
		Success:     true,
		Analogy:     "Understanding this lecture is like solving a mystery: every concept is a clue.",
		Description: "Detective, statements about the lecture have been tampered with. Examine each one and decide whether it is accurate or contains a hidden flaw. (Note: This is a mock game as the Groq API key is not configured)",
		Levels: []models.ConceptDetectiveLevel{
			{
				Title: "Level 1: The First Clue",
				Story: "A note was found at the scene. Is it telling the truth?",
				Questions: []models.ConceptDetectiveQuestion{
					{Text: "The lecture introduces the main concepts of the topic.", Type: "accurate"},
					{Text: "The lecture states that none of the concepts have practical applications.", Type: "flawed"},
				},
			},
			{
				Title: "Level 2: The Plot Thickens",
				Story: "Two witnesses give conflicting accounts of the material.",
				Questions: []models.ConceptDetectiveQuestion{
					{Text: "The examples in the lecture build on earlier definitions.", Type: "accurate"},
					{Text: "The lecture claims memorization is the only way to learn this subject.", Type: "flawed"},
				},
			},
			{
				Title: "Level 3: The Final Deduction",
				Story: "Only a true expert can spot the last forgery.",
				Questions: []models.ConceptDetectiveQuestion{
					{Text: "The conclusion ties the key points back to the main topic.", Type: "accurate"},
					{Text: "The lecture recommends skipping the foundational material.", Type: "flawed"},
				},
			},
		},
	}
}

func mockEvaluation(answers []models.ConceptDetectiveAnswer) *models.ConceptDetectiveEvaluationResponse {
	scores := make(map[string]int, len(answers))
	feedback := make(map[string]string, len(answers))
	for _, a := range answers {
		key := fmt.Sprintf("%d-%d", a.LevelIndex, a.QuestionIndex)
		scores[key] = 7
		feedback[key] = "Good reasoning! Review the related section of the lecture to sharpen your explanation."
	}
	return &models.ConceptDetectiveEvaluationResponse{
		Success:  true,
		Scores:   scores,
		Feedback: feedback,
	}
}
