package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"tutormind-backend/internal/models"
	"tutormind-backend/internal/services"
)

// mockGeneration builds a GenerationService with no provider credentials, so
// every method takes the deterministic mock path.
func mockGeneration() *services.GenerationService {
	return services.NewGenerationService(services.NewGroqService("", "llama-3.3-70b-versatile", 1024))
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to encode payload: %v", err)
	}
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data)))
	return w
}

func TestGenerateSummary_RequiresTranscript(t *testing.T) {
	h := NewGenerateHandler(mockGeneration())

	w := postJSON(t, h.GenerateSummary, "/api/generate-summary", models.SummaryRequest{Transcript: "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for blank transcript, got %d", w.Code)
	}
}

func TestGenerateSummary_MockPath(t *testing.T) {
	h := NewGenerateHandler(mockGeneration())

	w := postJSON(t, h.GenerateSummary, "/api/generate-summary", models.SummaryRequest{Transcript: "lecture text"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.SummaryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success || resp.Summary == "" {
		t.Errorf("Expected mock summary, got %+v", resp)
	}
}

func TestGenerateQuiz_ClampsQuestionCount(t *testing.T) {
	h := NewGenerateHandler(mockGeneration())

	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"zero defaults to five", 0, 5},
		{"negative defaults to five", -3, 5},
		{"above cap clamps to ten", 50, 10},
		{"in range passes through", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h.GenerateQuiz, "/api/generate-quiz", models.QuizRequest{
				Transcript:   "lecture text",
				NumQuestions: tt.requested,
			})
			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}

			var resp models.QuizResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if len(resp.Questions) != tt.want {
				t.Errorf("Got %d questions, want %d", len(resp.Questions), tt.want)
			}
		})
	}
}

func TestConceptDetective_GenerateMock(t *testing.T) {
	h := NewGameHandler(mockGeneration())

	w := postJSON(t, h.Generate, "/api/generate-concept-detective", models.ConceptDetectiveRequest{Transcript: "lecture"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp models.ConceptDetectiveResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success || len(resp.Levels) == 0 {
		t.Errorf("Expected a playable mock game, got %+v", resp)
	}
}

func TestConceptDetective_EvaluateScoresEveryAnswer(t *testing.T) {
	h := NewGameHandler(mockGeneration())

	req := models.ConceptDetectiveEvaluationRequest{
		Transcript: "lecture",
		Answers: []models.ConceptDetectiveAnswer{
			{LevelIndex: 0, QuestionIndex: 0, Answer: "accurate because..."},
			{LevelIndex: 1, QuestionIndex: 2, Answer: "flawed because..."},
		},
	}
	w := postJSON(t, h.Evaluate, "/api/evaluate-concept-detective", req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp models.ConceptDetectiveEvaluationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	for _, key := range []string{"0-0", "1-2"} {
		if _, ok := resp.Scores[key]; !ok {
			t.Errorf("Missing score for %q: %+v", key, resp.Scores)
		}
	}
}

func TestGetProfile_UnknownUserGetsUniformPrior(t *testing.T) {
	h := NewProfileHandler(newMemStore())

	r := httptest.NewRequest(http.MethodGet, "/api/student/profile/new-student", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("user_id", "new-student")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	h.GetProfile(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for unknown student, got %d", w.Code)
	}

	var resp models.StudentProfileResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Profile == nil {
		t.Fatal("Profile missing from response")
	}
	for _, key := range models.PerceptualModes {
		if resp.Profile.PerceptualMode[key] != 0.25 {
			t.Errorf("Expected uniform prior for %q, got %v", key, resp.Profile.PerceptualMode[key])
		}
	}
}

func TestSearchChunks_LexicalFallback(t *testing.T) {
	h := NewSearchHandler(services.NewEmbeddingService("", "sentence-transformers/all-MiniLM-L6-v2"))

	req := models.ChunkSearchRequest{
		Transcript: strings.Repeat("photosynthesis light energy chlorophyll ", 30) +
			strings.Repeat("mitochondria respiration glucose oxygen ", 30),
		Query: "light energy",
		TopK:  2,
	}
	w := postJSON(t, h.SearchChunks, "/api/search-chunks", req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.ChunkSearchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success || len(resp.Chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %+v", resp)
	}
	if !strings.Contains(resp.Chunks[0], "light") {
		t.Errorf("Best chunk should match the query, got %q", resp.Chunks[0])
	}
}

func TestSearchChunks_RequiresQuery(t *testing.T) {
	h := NewSearchHandler(services.NewEmbeddingService("", "any"))

	w := postJSON(t, h.SearchChunks, "/api/search-chunks", models.ChunkSearchRequest{Transcript: "text"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for missing query, got %d", w.Code)
	}
}
