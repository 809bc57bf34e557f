package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository implementation
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("getting setting: key=%s", key)

	var s models.Setting
	err := r.db.QueryRowContext(ctx, `
SELECT key, value, updated_at
FROM settings
WHERE key = ?
`, key).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get setting: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) Put(ctx context.Context, s models.Setting) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("upserting setting: key=%s", s.Key)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE SET
    value = excluded.value,
    updated_at = CURRENT_TIMESTAMP
`, s.Key, s.Value)
	if err != nil {
		log.Error("failed to upsert setting: %v", err)
	}
	return err
}

func (r *settingsRepository) GetAll(ctx context.Context) ([]models.Setting, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("listing settings")

	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		log.Error("failed to list settings: %v", err)
		return nil, err
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			log.Error("failed to scan setting row: %v", err)
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *settingsRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("deleting setting: key=%s", key)

	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		log.Error("failed to delete setting: %v", err)
	}
	return err
}

func (r *settingsRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("clearing settings")

	_, err := r.db.ExecContext(ctx, `DELETE FROM settings`)
	if err != nil {
		log.Error("failed to clear settings: %v", err)
	}
	return err
}
