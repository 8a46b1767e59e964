package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"tutormind-backend/internal/models"
	"tutormind-backend/internal/services"
)

// GenerateHandler serves summary and quiz generation from raw transcripts.
type GenerateHandler struct {
	generation *services.GenerationService
}

func NewGenerateHandler(generation *services.GenerationService) *GenerateHandler {
	return &GenerateHandler{generation: generation}
}

func (h *GenerateHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req models.SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Transcript is required", r))
		return
	}

	summary, err := h.generation.GenerateSummary(r.Context(), req.Transcript)
	if err != nil {
		log.Printf("summary generation failed: %v", err)
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_ERROR", "Summary generation failed", r))
		return
	}

	writeJSON(w, http.StatusOK, models.SummaryResponse{Success: true, Summary: summary})
}

func (h *GenerateHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.QuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Transcript is required", r))
		return
	}

	// Question count is clamped, not rejected.
	if req.NumQuestions < 1 {
		req.NumQuestions = 5
	}
	if req.NumQuestions > 10 {
		req.NumQuestions = 10
	}

	questions, err := h.generation.GenerateQuiz(r.Context(), req.Transcript, req.NumQuestions)
	if err != nil {
		log.Printf("quiz generation failed: %v", err)
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_ERROR", "Quiz generation failed", r))
		return
	}

	writeJSON(w, http.StatusOK, models.QuizResponse{Success: true, Questions: questions})
}
