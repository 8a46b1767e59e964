package handlers

import (
	"io"
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

const pdfQuizQuestions = 5

// PDFHandler turns an uploaded document into study material: extracted text,
// a summary and a starter quiz in one response. Failures use the
// {success:false, error} shape the study frontend consumes.
type PDFHandler struct {
	extract        *services.FileExtractService
	generation     *services.GenerationService
	transcriptRepo *repository.TranscriptRepo
	storagePath    string
}

func NewPDFHandler(extract *services.FileExtractService, generation *services.GenerationService, transcriptRepo *repository.TranscriptRepo, storagePath string) *PDFHandler {
	return &PDFHandler{
		extract:        extract,
		generation:     generation,
		transcriptRepo: transcriptRepo,
		storagePath:    storagePath,
	}
}

func (h *PDFHandler) ProcessPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, models.PDFSummaryResponse{Error: "Invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.PDFSummaryResponse{Error: "PDF file is required"})
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".pdf" && ext != ".txt" {
		writeJSON(w, http.StatusBadRequest, models.PDFSummaryResponse{Error: "Only PDF and TXT files are supported"})
		return
	}

	tempPath, err := h.saveUpload(file, header.Filename)
	if err != nil {
		log.Printf("failed to save PDF upload %q: %v", header.Filename, err)
		writeJSON(w, http.StatusInternalServerError, models.PDFSummaryResponse{Error: "Failed to store uploaded file"})
		return
	}
	defer os.Remove(tempPath)

	text, err := h.extract.ExtractTextFromPath(tempPath)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.PDFSummaryResponse{Error: "Could not extract text from the document: " + err.Error()})
		return
	}

	summary, err := h.generation.GenerateSummary(r.Context(), text)
	if err != nil {
		log.Printf("PDF summary generation failed for %q: %v", header.Filename, err)
		writeJSON(w, http.StatusBadGateway, models.PDFSummaryResponse{Error: "Summary generation failed"})
		return
	}

	questions, err := h.generation.GenerateQuiz(r.Context(), text, pdfQuizQuestions)
	if err != nil {
		log.Printf("PDF quiz generation failed for %q: %v", header.Filename, err)
		writeJSON(w, http.StatusBadGateway, models.PDFSummaryResponse{Error: "Quiz generation failed"})
		return
	}

	transcript := &models.Transcript{
		Source: "pdf",
		Title:  header.Filename,
		Text:   text,
	}
	if userID := middleware.GetUserID(r.Context()); userID != "" {
		transcript.UserID = &userID
	}
	if err := h.transcriptRepo.Create(r.Context(), transcript); err != nil {
		log.Printf("failed to persist PDF transcript for %q: %v", header.Filename, err)
	}

	writeJSON(w, http.StatusOK, models.PDFSummaryResponse{
		Success:    true,
		Summary:    summary,
		Questions:  questions,
		Transcript: text,
	})
}

func (h *PDFHandler) saveUpload(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.storagePath, 0o755); err != nil {
		return "", err
	}

	tempPath := filepath.Join(h.storagePath, uuid.New().String()+filepath.Ext(filename))
	out, err := os.Create(tempPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(tempPath)
		return "", err
	}
	return tempPath, nil
}
