package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	IngestWorkerCount int
	IngestQueueSize   int
	QuizDefaultCount  int
	QuizDefaultMins   int
	MaxUploadBytes    int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:quizbank.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		IngestWorkerCount: envIntOr("INGEST_WORKER_COUNT", 1),
		IngestQueueSize:   envIntOr("INGEST_QUEUE_SIZE", 16),
		QuizDefaultCount:  envIntOr("QUIZ_DEFAULT_COUNT", 20),
		QuizDefaultMins:   envIntOr("QUIZ_DEFAULT_MINUTES", 30),
		MaxUploadBytes:    envIntOr("MAX_UPLOAD_BYTES", 8<<20),
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.IngestWorkerCount <= 0 {
		return fmt.Errorf("INGEST_WORKER_COUNT must be positive, got %d", c.IngestWorkerCount)
	}
	if c.IngestQueueSize <= 0 {
		return fmt.Errorf("INGEST_QUEUE_SIZE must be positive, got %d", c.IngestQueueSize)
	}
	if c.QuizDefaultCount <= 0 {
		return fmt.Errorf("QUIZ_DEFAULT_COUNT must be positive, got %d", c.QuizDefaultCount)
	}
	if c.QuizDefaultMins <= 0 {
		return fmt.Errorf("QUIZ_DEFAULT_MINUTES must be positive, got %d", c.QuizDefaultMins)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
