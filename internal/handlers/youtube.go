package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"tutormind-backend/internal/middleware"
	"tutormind-backend/internal/models"
	"tutormind-backend/internal/repository"
	"tutormind-backend/internal/services"
)

// YouTubeHandler resolves lecture transcripts from YouTube links. Two
// endpoints exist because the sources fail differently: the Supadata API
// covers most videos, direct caption scraping covers videos Supadata cannot
// serve, and audio download plus speech-to-text is the shared last resort.
type YouTubeHandler struct {
	youtube        *services.YouTubeService
	deepgram       *services.DeepgramService
	transcriptRepo *repository.TranscriptRepo
	storagePath    string
}

func NewYouTubeHandler(youtube *services.YouTubeService, deepgram *services.DeepgramService, transcriptRepo *repository.TranscriptRepo, storagePath string) *YouTubeHandler {
	return &YouTubeHandler{
		youtube:        youtube,
		deepgram:       deepgram,
		transcriptRepo: transcriptRepo,
		storagePath:    storagePath,
	}
}

func (h *YouTubeHandler) decode(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	var req models.YouTubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return "", "", false
	}
	if strings.TrimSpace(req.YouTubeURL) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "youtube_url is required", r))
		return "", "", false
	}

	videoID, err := services.ExtractVideoID(req.YouTubeURL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not parse a YouTube video id from the URL", r))
		return "", "", false
	}
	return req.YouTubeURL, videoID, true
}

// Transcribe resolves the transcript via Supadata, falling back to caption
// scraping and finally to the audio pipeline.
func (h *YouTubeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	videoURL, videoID, ok := h.decode(w, r)
	if !ok {
		return
	}

	text, err := h.youtube.GetTranscriptSupadata(r.Context(), videoURL)
	if err != nil {
		log.Printf("Supadata transcript failed for %s: %v", videoID, err)
		text, err = h.youtube.GetTranscriptCaptions(videoID)
	}
	if err != nil {
		log.Printf("caption transcript failed for %s: %v", videoID, err)
		text, err = h.transcribeAudio(r, videoURL)
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("TRANSCRIPTION_ERROR", "No transcript could be resolved for this video", r))
		return
	}

	h.respond(w, r, videoID, text)
}

// TranscribeCaptions resolves the transcript from the caption track only.
func (h *YouTubeHandler) TranscribeCaptions(w http.ResponseWriter, r *http.Request) {
	videoURL, videoID, ok := h.decode(w, r)
	if !ok {
		return
	}

	text, err := h.youtube.GetTranscriptCaptions(videoID)
	if err != nil {
		log.Printf("caption transcript failed for %s: %v", videoID, err)
		text, err = h.transcribeAudio(r, videoURL)
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("TRANSCRIPTION_ERROR", "This video has no usable captions", r))
		return
	}

	h.respond(w, r, videoID, text)
}

func (h *YouTubeHandler) transcribeAudio(r *http.Request, videoURL string) (string, error) {
	audio, mimeType, err := h.youtube.DownloadAudio(videoURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(h.storagePath, 0o755); err != nil {
		return "", err
	}
	tempPath := filepath.Join(h.storagePath, uuid.New().String()+".audio")
	if err := os.WriteFile(tempPath, audio, 0o644); err != nil {
		return "", err
	}
	defer os.Remove(tempPath)

	text, _, err := h.deepgram.Transcribe(r.Context(), tempPath, mimeType)
	return text, err
}

func (h *YouTubeHandler) respond(w http.ResponseWriter, r *http.Request, videoID, text string) {
	title := h.youtube.GetVideoTitle(videoID)
	if title == "" {
		title = "YouTube video " + videoID
	}

	transcript := &models.Transcript{
		Source: "youtube",
		Title:  title,
		Text:   text,
	}
	if userID := middleware.GetUserID(r.Context()); userID != "" {
		transcript.UserID = &userID
	}
	if err := h.transcriptRepo.Create(r.Context(), transcript); err != nil {
		log.Printf("failed to persist YouTube transcript for %s: %v", videoID, err)
	}

	writeJSON(w, http.StatusOK, models.YouTubeTranscriptionResponse{
		Success:       true,
		VideoTitle:    title,
		Transcription: text,
	})
}
