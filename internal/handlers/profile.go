package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tutormind-backend/internal/models"
	"tutormind-backend/internal/profile"
)

// ProfileHandler exposes the stored learning profile and knowledge state.
type ProfileHandler struct {
	store profile.Store
}

func NewProfileHandler(store profile.Store) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// GetProfile returns the student's profile. Students without history get the
// uniform prior, never a 404: the profile is defined for everyone.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "user_id is required", r))
		return
	}

	p, err := h.store.GetProfile(r.Context(), userID)
	if err != nil {
		log.Printf("profile load failed for %q: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load profile", r))
		return
	}
	if p == nil {
		p = models.NewLearningStyleProfile()
	}

	ks, err := h.store.GetKnowledgeState(r.Context(), userID)
	if err != nil {
		log.Printf("knowledge state load failed for %q: %v", userID, err)
		ks = nil
	}
	if ks == nil {
		ks = models.NewKnowledgeState()
	}

	writeJSON(w, http.StatusOK, models.StudentProfileResponse{
		Success:        true,
		Profile:        p,
		KnowledgeState: ks,
	})
}
