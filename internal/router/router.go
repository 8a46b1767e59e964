package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tutormind-backend/internal/handlers"
	"tutormind-backend/internal/middleware"
	"tutormind-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	chatHandler *handlers.ChatHandler,
	transcribeHandler *handlers.TranscribeHandler,
	youtubeHandler *handlers.YouTubeHandler,
	pdfHandler *handlers.PDFHandler,
	generateHandler *handlers.GenerateHandler,
	gameHandler *handlers.GameHandler,
	profileHandler *handlers.ProfileHandler,
	searchHandler *handlers.SearchHandler,
	transcriptHandler *handlers.TranscriptHandler,
	voiceHandler *handlers.VoiceHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))
	r.Use(jwtAuth.Middleware)

	// The ingestion endpoints call paid upstream APIs; keep them behind a
	// per-IP limiter.
	ingestLimiter := middleware.NewRateLimiter(20, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// ──── Ingestion: audio, YouTube, documents ────
		r.Group(func(r chi.Router) {
			r.Use(ingestLimiter.Middleware)
			r.Post("/transcribe", transcribeHandler.Transcribe)
			r.Post("/youtube-transcribe", youtubeHandler.Transcribe)
			r.Post("/youtube-transcribe2", youtubeHandler.TranscribeCaptions)
			r.Post("/process-pdf", pdfHandler.ProcessPDF)
		})

		// ──── Generation ────
		r.Post("/generate-summary", generateHandler.GenerateSummary)
		r.Post("/generate-quiz", generateHandler.GenerateQuiz)
		r.Post("/generate-concept-detective", gameHandler.Generate)
		r.Post("/evaluate-concept-detective", gameHandler.Evaluate)

		// ──── Tutoring chat ────
		r.Post("/chat", chatHandler.Chat)
		r.Post("/chat-stream", chatHandler.ChatStream)
		r.Post("/chat-direct", chatHandler.ChatDirect)
		r.Post("/chat-direct-stream", chatHandler.ChatDirectStream)

		// ──── Student profile ────
		r.Get("/student/profile/{user_id}", profileHandler.GetProfile)

		// ──── Transcript library ────
		r.Route("/transcripts", func(r chi.Router) {
			r.Get("/", transcriptHandler.List)
			r.Get("/{id}", transcriptHandler.Get)
			r.Delete("/{id}", transcriptHandler.Delete)
		})

		// ──── Chunk search ────
		r.Post("/search-chunks", searchHandler.SearchChunks)

		// ──── Voice agent ────
		r.Get("/get-signed-url", voiceHandler.GetSignedURL)

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
