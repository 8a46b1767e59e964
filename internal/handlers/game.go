package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"tutormind-backend/internal/models"
	"tutormind-backend/internal/services"
)

// GameHandler serves the concept-detective learning game.
type GameHandler struct {
	generation *services.GenerationService
}

func NewGameHandler(generation *services.GenerationService) *GameHandler {
	return &GameHandler{generation: generation}
}

func (h *GameHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.ConceptDetectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ConceptDetectiveResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		writeJSON(w, http.StatusBadRequest, models.ConceptDetectiveResponse{Error: "Transcript is required"})
		return
	}

	game, err := h.generation.GenerateConceptDetective(r.Context(), req.Transcript)
	if err != nil {
		log.Printf("concept detective generation failed: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ConceptDetectiveResponse{Error: "Game generation failed"})
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (h *GameHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req models.ConceptDetectiveEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ConceptDetectiveEvaluationResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.generation.EvaluateConceptDetective(r.Context(), req.Transcript, req.Answers)
	if err != nil {
		log.Printf("concept detective evaluation failed: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ConceptDetectiveEvaluationResponse{Error: "Evaluation failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
