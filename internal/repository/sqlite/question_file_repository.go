package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/repository"
)

type questionFileRepository struct {
	db *sql.DB
}

// NewQuestionFileRepository creates a new QuestionFileRepository implementation
func NewQuestionFileRepository(db *sql.DB) repository.QuestionFileRepository {
	return &questionFileRepository{db: db}
}

func (r *questionFileRepository) Get(ctx context.Context, filename string) (*models.QuestionFile, error) {
	log := logger.FromContext(ctx).WithPrefix("file_repo")
	log.Debug("getting question file: filename=%s", filename)

	var f models.QuestionFile
	err := r.db.QueryRowContext(ctx, `
SELECT filename, payload, imported_at, updated_at
FROM question_files
WHERE filename = ?
`, filename).Scan(&f.Filename, &f.Payload, &f.ImportedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("question file not found: filename=%s", filename)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get question file: %v", err)
		return nil, err
	}
	return &f, nil
}

func (r *questionFileRepository) Put(ctx context.Context, f models.QuestionFile) error {
	log := logger.FromContext(ctx).WithPrefix("file_repo")
	log.Debug("upserting question file: filename=%s, bytes=%d", f.Filename, len(f.Payload))

	_, err := r.db.ExecContext(ctx, `
INSERT INTO question_files (filename, payload, imported_at, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
ON CONFLICT (filename) DO UPDATE SET
    payload = excluded.payload,
    updated_at = CURRENT_TIMESTAMP
`, f.Filename, f.Payload)
	if err != nil {
		log.Error("failed to upsert question file: %v", err)
	}
	return err
}

func (r *questionFileRepository) GetAll(ctx context.Context) ([]models.QuestionFile, error) {
	log := logger.FromContext(ctx).WithPrefix("file_repo")
	log.Debug("listing question files")

	rows, err := r.db.QueryContext(ctx, `
SELECT filename, payload, imported_at, updated_at
FROM question_files
ORDER BY imported_at, filename
`)
	if err != nil {
		log.Error("failed to list question files: %v", err)
		return nil, err
	}
	defer rows.Close()

	var files []models.QuestionFile
	for rows.Next() {
		var f models.QuestionFile
		if err := rows.Scan(&f.Filename, &f.Payload, &f.ImportedAt, &f.UpdatedAt); err != nil {
			log.Error("failed to scan question file row: %v", err)
			return nil, err
		}
		files = append(files, f)
	}
	log.Debug("found %d question files", len(files))
	return files, rows.Err()
}

func (r *questionFileRepository) Delete(ctx context.Context, filename string) error {
	log := logger.FromContext(ctx).WithPrefix("file_repo")
	log.Debug("deleting question file: filename=%s", filename)

	_, err := r.db.ExecContext(ctx, `DELETE FROM question_files WHERE filename = ?`, filename)
	if err != nil {
		log.Error("failed to delete question file: %v", err)
	}
	return err
}

func (r *questionFileRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("file_repo")
	log.Debug("clearing question files")

	_, err := r.db.ExecContext(ctx, `DELETE FROM question_files`)
	if err != nil {
		log.Error("failed to clear question files: %v", err)
	}
	return err
}
