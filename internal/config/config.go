package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string
	DBMaxConns  int
	DBMinConns  int

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Groq (OpenAI-compatible chat completions)
	GroqAPIKey    string
	GroqModel     string
	GroqMaxTokens int

	// Transcription
	DeepgramAPIKey string

	// YouTube transcripts
	SupadataAPIKey string

	// Embeddings
	HuggingFaceAPIKey string
	EmbeddingModel    string

	// Voice agent
	ElevenLabsAPIKey  string
	ElevenLabsAgentID string

	// Storage
	StoragePath string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBMaxConns:  getEnvAsIntOrDefault("DB_MAX_CONNS", 25),
		DBMinConns:  getEnvAsIntOrDefault("DB_MIN_CONNS", 5),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   getEnvOrDefault("JWT_SECRET", ""),

		// Provider keys are optional: missing keys degrade the affected
		// endpoints to deterministic mock behavior instead of failing.
		GroqAPIKey:    getEnvOrDefault("GROQ_API_KEY", ""),
		GroqModel:     getEnvOrDefault("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqMaxTokens: getEnvAsIntOrDefault("GROQ_MAX_TOKENS", 1024),

		DeepgramAPIKey: getEnvOrDefault("DEEPGRAM_API_KEY", ""),
		SupadataAPIKey: getEnvOrDefault("SUPADATA_API_KEY", ""),

		HuggingFaceAPIKey: getEnvOrDefault("HF_API_KEY", ""),
		EmbeddingModel:    getEnvOrDefault("EMBEDDING_MODEL", "sentence-transformers/all-MiniLM-L6-v2"),

		ElevenLabsAPIKey:  getEnvOrDefault("ELEVENLABS_API_KEY", ""),
		ElevenLabsAgentID: getEnvOrDefault("ELEVENLABS_AGENT_ID", ""),

		StoragePath: getEnvOrDefault("STORAGE_PATH", "./uploads"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
