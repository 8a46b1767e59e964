package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tutormind-backend/internal/middleware"
	"tutormind-backend/internal/models"
	"tutormind-backend/internal/repository"
	"tutormind-backend/internal/services"
	ws "tutormind-backend/internal/websocket"
)

const maxUploadBytes = 200 * 1024 * 1024

// TranscribeHandler accepts audio uploads and turns them into stored
// transcripts, pushing progress to the student's WebSocket channel.
type TranscribeHandler struct {
	deepgram       *services.DeepgramService
	transcriptRepo *repository.TranscriptRepo
	pubsub         *redis.Client
	storagePath    string
}

func NewTranscribeHandler(deepgram *services.DeepgramService, transcriptRepo *repository.TranscriptRepo, pubsub *redis.Client, storagePath string) *TranscribeHandler {
	return &TranscribeHandler{
		deepgram:       deepgram,
		transcriptRepo: transcriptRepo,
		pubsub:         pubsub,
		storagePath:    storagePath,
	}
}

func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid multipart form", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Audio file is required", r))
		return
	}
	defer file.Close()

	tempPath, err := h.saveUpload(file, header.Filename)
	if err != nil {
		log.Printf("failed to save upload %q: %v", header.Filename, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store uploaded file", r))
		return
	}
	defer os.Remove(tempPath)

	userID := middleware.GetUserID(r.Context())
	h.publishStatus(r, userID, tempPath, "transcribing", "Audio received, transcription started")

	text, sentences, err := h.deepgram.Transcribe(r.Context(), tempPath, header.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("transcription failed for %q: %v", header.Filename, err)
		h.publishStatus(r, userID, tempPath, "failed", err.Error())
		writeJSON(w, http.StatusBadGateway, errorResp("TRANSCRIPTION_ERROR", "Transcription failed", r))
		return
	}

	transcript := &models.Transcript{
		Source:    "upload",
		Title:     header.Filename,
		Text:      text,
		Sentences: sentences,
	}
	if userID != "" {
		transcript.UserID = &userID
	}
	if err := h.transcriptRepo.Create(r.Context(), transcript); err != nil {
		log.Printf("failed to persist transcript for %q: %v", header.Filename, err)
		// The transcription itself succeeded; return it without an id.
		writeJSON(w, http.StatusOK, models.TranscriptionResponse{
			Success:       true,
			Filename:      header.Filename,
			Transcription: text,
			Sentences:     sentences,
		})
		return
	}

	h.publishStatus(r, userID, transcript.ID.String(), "complete", "Transcription finished")

	writeJSON(w, http.StatusOK, models.TranscriptionResponse{
		Success:       true,
		Filename:      header.Filename,
		Transcription: text,
		Sentences:     sentences,
		TranscriptID:  &transcript.ID,
	})
}

func (h *TranscribeHandler) saveUpload(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.storagePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}

	tempPath := filepath.Join(h.storagePath, uuid.New().String()+filepath.Ext(filename))
	out, err := os.Create(tempPath)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return tempPath, nil
}

func (h *TranscribeHandler) publishStatus(r *http.Request, userID, resourceID, step, detail string) {
	ws.Publish(r.Context(), h.pubsub, userID, models.WSMessage{
		Type: "status_update",
		Payload: models.StatusUpdate{
			ResourceID: resourceID,
			Step:       step,
			Detail:     detail,
		},
	})
}
