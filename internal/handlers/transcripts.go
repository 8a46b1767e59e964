package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tutormind-backend/internal/middleware"
	"tutormind-backend/internal/repository"
)

// TranscriptHandler lists and retrieves stored transcripts.
type TranscriptHandler struct {
	repo *repository.TranscriptRepo
}

func NewTranscriptHandler(repo *repository.TranscriptRepo) *TranscriptHandler {
	return &TranscriptHandler{repo: repo}
}

// List returns the caller's transcripts; anonymous callers see recent
// anonymous transcripts.
func (h *TranscriptHandler) List(w http.ResponseWriter, r *http.Request) {
	var userID *string
	if id := middleware.GetUserID(r.Context()); id != "" {
		userID = &id
	}

	transcripts, err := h.repo.List(r.Context(), userID, 50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list transcripts", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"transcripts": transcripts,
	})
}

func (h *TranscriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid transcript ID", r))
		return
	}

	transcript, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Transcript not found", r))
		return
	}

	writeJSON(w, http.StatusOK, transcript)
}

func (h *TranscriptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid transcript ID", r))
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Transcript not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
