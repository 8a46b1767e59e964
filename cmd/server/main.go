package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutormind-backend/internal/config"
	"tutormind-backend/internal/database"
	"tutormind-backend/internal/handlers"
	"tutormind-backend/internal/middleware"
	"tutormind-backend/internal/profile"
	"tutormind-backend/internal/repository"
	"tutormind-backend/internal/router"
	"tutormind-backend/internal/services"
	"tutormind-backend/internal/stream"
	"tutormind-backend/internal/tutor"
	"tutormind-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting TutorMind Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	transcriptRepo := repository.NewTranscriptRepo(pool)
	profileRepo := repository.NewProfileRepo(redisClients.KV)

	// ──── Step 5: Initialize Provider Clients ────
	groqService := services.NewGroqService(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqMaxTokens)
	if groqService.Configured() {
		log.Println("✓ Groq client initialized")
	} else {
		log.Println("⚠ GROQ_API_KEY not set: chat and generation run in mock mode")
	}

	deepgramService := services.NewDeepgramService(cfg.DeepgramAPIKey)
	if !deepgramService.Configured() {
		log.Println("⚠ DEEPGRAM_API_KEY not set: transcription runs in mock mode")
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	youtubeService := services.NewYouTubeService(cfg.SupadataAPIKey)
	fileExtractService := services.NewFileExtractService()
	generationService := services.NewGenerationService(groqService)
	embeddingService := services.NewEmbeddingService(cfg.HuggingFaceAPIKey, cfg.EmbeddingModel)
	elevenLabsService := services.NewElevenLabsService(cfg.ElevenLabsAPIKey, cfg.ElevenLabsAgentID)

	generator := tutor.NewGenerator(groqService, cfg.GroqMaxTokens)
	relay := stream.NewRelay()
	updater := profile.NewUpdater(profile.DefaultConfig(), profileRepo)

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(generator, relay, profileRepo, updater)
	transcribeHandler := handlers.NewTranscribeHandler(deepgramService, transcriptRepo, redisClients.PubSub, cfg.StoragePath)
	youtubeHandler := handlers.NewYouTubeHandler(youtubeService, deepgramService, transcriptRepo, cfg.StoragePath)
	pdfHandler := handlers.NewPDFHandler(fileExtractService, generationService, transcriptRepo, cfg.StoragePath)
	generateHandler := handlers.NewGenerateHandler(generationService)
	gameHandler := handlers.NewGameHandler(generationService)
	profileHandler := handlers.NewProfileHandler(profileRepo)
	searchHandler := handlers.NewSearchHandler(embeddingService)
	transcriptHandler := handlers.NewTranscriptHandler(transcriptRepo)
	voiceHandler := handlers.NewVoiceHandler(elevenLabsService)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		chatHandler,
		transcribeHandler,
		youtubeHandler,
		pdfHandler,
		generateHandler,
		gameHandler,
		profileHandler,
		searchHandler,
		transcriptHandler,
		voiceHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// No write timeout: chat streams and long transcriptions outlive any
		// sensible fixed deadline.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ TutorMind Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
