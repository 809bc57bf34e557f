package repository

import (
	"context"

	"github.com/medoo24/quizbank/internal/models"
)

// Each collection carries the same narrow contract: get by key, upsert (the
// store stamps the timestamp), read everything, delete by key, wipe. Get
// returns nil without error when the key is absent.

// QuestionFileRepository caches raw question files, keyed by filename.
type QuestionFileRepository interface {
	Get(ctx context.Context, filename string) (*models.QuestionFile, error)
	Put(ctx context.Context, file models.QuestionFile) error
	GetAll(ctx context.Context) ([]models.QuestionFile, error)
	Delete(ctx context.Context, filename string) error
	Clear(ctx context.Context) error
}

// ProgressRepository stores at most one answer record per question key.
type ProgressRepository interface {
	Get(ctx context.Context, key models.QuestionKey) (*models.ProgressRecord, error)
	Put(ctx context.Context, record models.ProgressRecord) error
	PutBatch(ctx context.Context, records []models.ProgressRecord) error
	GetAll(ctx context.Context) ([]models.ProgressRecord, error)
	List(ctx context.Context, filter models.ProgressFilter) ([]models.ProgressRecord, error)
	Delete(ctx context.Context, key models.QuestionKey) error
	Clear(ctx context.Context) error
}

// FavoriteRepository stores favorite marks; row presence is the flag.
type FavoriteRepository interface {
	Get(ctx context.Context, key models.QuestionKey) (*models.FavoriteRecord, error)
	Put(ctx context.Context, record models.FavoriteRecord) error
	GetAll(ctx context.Context) ([]models.FavoriteRecord, error)
	Delete(ctx context.Context, key models.QuestionKey) error
	Clear(ctx context.Context) error
}

// SettingsRepository stores small key/value settings.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Put(ctx context.Context, setting models.Setting) error
	GetAll(ctx context.Context) ([]models.Setting, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
