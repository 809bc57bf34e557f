package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/repository"
)

type favoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new FavoriteRepository implementation
func NewFavoriteRepository(db *sql.DB) repository.FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Get(ctx context.Context, key models.QuestionKey) (*models.FavoriteRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("favorite_repo")
	log.Debug("getting favorite: key=%s", key)

	var f models.FavoriteRecord
	err := r.db.QueryRowContext(ctx, `
SELECT file_id, question_id, created_at
FROM favorites
WHERE file_id = ? AND question_id = ?
`, key.FileID, key.QuestionID).Scan(&f.FileID, &f.QuestionID, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get favorite: %v", err)
		return nil, err
	}
	return &f, nil
}

func (r *favoriteRepository) Put(ctx context.Context, f models.FavoriteRecord) error {
	log := logger.FromContext(ctx).WithPrefix("favorite_repo")
	log.Debug("upserting favorite: key=%s/%s", f.FileID, f.QuestionID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO favorites (file_id, question_id, created_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (file_id, question_id) DO UPDATE SET
    created_at = CURRENT_TIMESTAMP
`, f.FileID, f.QuestionID)
	if err != nil {
		log.Error("failed to upsert favorite: %v", err)
	}
	return err
}

func (r *favoriteRepository) GetAll(ctx context.Context) ([]models.FavoriteRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("favorite_repo")
	log.Debug("listing favorites")

	rows, err := r.db.QueryContext(ctx, `
SELECT file_id, question_id, created_at
FROM favorites
ORDER BY created_at, file_id, question_id
`)
	if err != nil {
		log.Error("failed to list favorites: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.FavoriteRecord
	for rows.Next() {
		var f models.FavoriteRecord
		if err := rows.Scan(&f.FileID, &f.QuestionID, &f.CreatedAt); err != nil {
			log.Error("failed to scan favorite row: %v", err)
			return nil, err
		}
		records = append(records, f)
	}
	log.Debug("found %d favorites", len(records))
	return records, rows.Err()
}

func (r *favoriteRepository) Delete(ctx context.Context, key models.QuestionKey) error {
	log := logger.FromContext(ctx).WithPrefix("favorite_repo")
	log.Debug("deleting favorite: key=%s", key)

	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE file_id = ? AND question_id = ?`,
		key.FileID, key.QuestionID)
	if err != nil {
		log.Error("failed to delete favorite: %v", err)
	}
	return err
}

func (r *favoriteRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("favorite_repo")
	log.Debug("clearing favorites")

	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites`)
	if err != nil {
		log.Error("failed to clear favorites: %v", err)
	}
	return err
}
