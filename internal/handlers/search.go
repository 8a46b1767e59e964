package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"tutormind-backend/internal/models"
	"tutormind-backend/internal/services"
)

const defaultTopK = 3

// SearchHandler ranks transcript chunks against a free-text query so the
// frontend can show the most relevant passages next to a tutor reply.
type SearchHandler struct {
	embeddings *services.EmbeddingService
}

func NewSearchHandler(embeddings *services.EmbeddingService) *SearchHandler {
	return &SearchHandler{embeddings: embeddings}
}

func (h *SearchHandler) SearchChunks(w http.ResponseWriter, r *http.Request) {
	var req models.ChunkSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.Transcript) == "" || strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Transcript and query are required", r))
		return
	}
	if req.TopK <= 0 {
		req.TopK = defaultTopK
	}

	chunks := services.CreateChunks(req.Transcript)
	results, err := h.embeddings.SearchChunks(r.Context(), req.Query, chunks, req.TopK)
	if err != nil {
		log.Printf("chunk search failed: %v", err)
		writeJSON(w, http.StatusBadGateway, errorResp("SEARCH_ERROR", "Chunk search failed", r))
		return
	}

	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Text
	}
	writeJSON(w, http.StatusOK, models.ChunkSearchResponse{Success: true, Chunks: texts})
}
