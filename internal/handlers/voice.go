package handlers

import (
	"log"
	"net/http"

	"tutormind-backend/internal/models"
	"tutormind-backend/internal/services"
)

// VoiceHandler mints signed URLs for the conversational voice agent.
type VoiceHandler struct {
	elevenlabs *services.ElevenLabsService
}

func NewVoiceHandler(elevenlabs *services.ElevenLabsService) *VoiceHandler {
	return &VoiceHandler{elevenlabs: elevenlabs}
}

func (h *VoiceHandler) GetSignedURL(w http.ResponseWriter, r *http.Request) {
	if !h.elevenlabs.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("NOT_CONFIGURED", "Voice agent credentials are not configured", r))
		return
	}

	signedURL, err := h.elevenlabs.GetSignedURL(r.Context())
	if err != nil {
		log.Printf("signed URL request failed: %v", err)
		writeJSON(w, http.StatusBadGateway, errorResp("VOICE_ERROR", "Failed to get signed URL", r))
		return
	}

	writeJSON(w, http.StatusOK, models.SignedURLResponse{SignedURL: signedURL})
}
