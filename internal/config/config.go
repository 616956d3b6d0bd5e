package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string

	// OpenAI-compatible endpoint. An empty LLMBaseURL means the
	// provider default.
	APIKey     string
	LLMBaseURL string
	EmbedModel string
	ChatModel  string

	// Ingestion and retrieval constants.
	ChunkSize    int // words per chunk
	ChunkOverlap int // words shared between adjacent chunks
	TopK         int
	TmpDir       string

	// Vector index backend: "memory" (default) or "postgres".
	VectorStore string
	PgConn      string
	EmbedDim    int
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddr:   getenv("SERVER_ADDR", ":8080"),
		APIKey:       getenv("OPENAI_API_KEY", "not-needed"),
		LLMBaseURL:   os.Getenv("LLM_BASE_URL"),
		EmbedModel:   getenv("EMBED_MODEL", "text-embedding-3-small"),
		ChatModel:    getenv("LLM_MODEL", "gpt-4o-mini"),
		ChunkSize:    getenvInt("CHUNK_SIZE", 220),
		ChunkOverlap: getenvInt("CHUNK_OVERLAP", 40),
		TopK:         getenvInt("TOP_K", 5),
		TmpDir:       getenv("TMP_DIR", os.TempDir()),
		VectorStore:  getenv("VECTOR_STORE", "memory"),
		PgConn:       getenv("PG_CONN", "host=localhost port=5432 user=postgres password=postgres dbname=pdf_ai sslmode=disable"),
		EmbedDim:     getenvInt("EMBED_DIM", 768),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
