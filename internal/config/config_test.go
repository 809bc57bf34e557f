package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoo24/quizbank/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:              ":8080",
		DBPath:            "test.db",
		LogLevel:          "INFO",
		IngestWorkerCount: 1,
		IngestQueueSize:   16,
		QuizDefaultCount:  20,
		QuizDefaultMins:   30,
		MaxUploadBytes:    8 << 20,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_NonPositiveValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero workers", func(c *config.Config) { c.IngestWorkerCount = 0 }, "INGEST_WORKER_COUNT"},
		{"negative queue", func(c *config.Config) { c.IngestQueueSize = -1 }, "INGEST_QUEUE_SIZE"},
		{"zero quiz count", func(c *config.Config) { c.QuizDefaultCount = 0 }, "QUIZ_DEFAULT_COUNT"},
		{"zero quiz minutes", func(c *config.Config) { c.QuizDefaultMins = 0 }, "QUIZ_DEFAULT_MINUTES"},
		{"zero upload limit", func(c *config.Config) { c.MaxUploadBytes = 0 }, "MAX_UPLOAD_BYTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ADDR", "DB_PATH", "LOG_LEVEL",
		"INGEST_WORKER_COUNT", "INGEST_QUEUE_SIZE",
		"QUIZ_DEFAULT_COUNT", "QUIZ_DEFAULT_MINUTES", "MAX_UPLOAD_BYTES",
	} {
		os.Unsetenv(key)
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:quizbank.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 1, cfg.IngestWorkerCount)
	assert.Equal(t, 20, cfg.QuizDefaultCount)
	assert.Equal(t, 30, cfg.QuizDefaultMins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("QUIZ_DEFAULT_COUNT", "10")
	t.Setenv("INGEST_QUEUE_SIZE", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 10, cfg.QuizDefaultCount)
	assert.Equal(t, 16, cfg.IngestQueueSize, "invalid env value falls back to default")
}
