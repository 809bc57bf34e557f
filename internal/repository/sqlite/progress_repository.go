package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, key models.QuestionKey) (*models.ProgressRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: key=%s", key)

	var p models.ProgressRecord
	err := r.db.QueryRowContext(ctx, `
SELECT file_id, question_id, correct, selected_option, updated_at
FROM progress
WHERE file_id = ? AND question_id = ?
`, key.FileID, key.QuestionID).Scan(&p.FileID, &p.QuestionID, &p.Correct, &p.SelectedOption, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) Put(ctx context.Context, p models.ProgressRecord) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("upserting progress: key=%s/%s, correct=%t", p.FileID, p.QuestionID, p.Correct)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO progress (file_id, question_id, correct, selected_option, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (file_id, question_id) DO UPDATE SET
    correct = excluded.correct,
    selected_option = excluded.selected_option,
    updated_at = CURRENT_TIMESTAMP
`, p.FileID, p.QuestionID, p.Correct, p.SelectedOption)
	if err != nil {
		log.Error("failed to upsert progress: %v", err)
	}
	return err
}

// PutBatch upserts a set of records in one transaction; a quiz submission
// lands either entirely or not at all.
func (r *progressRepository) PutBatch(ctx context.Context, records []models.ProgressRecord) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("upserting %d progress records", len(records))

	return tx(ctx, r.db, func(t *sql.Tx) error {
		stmt, err := t.PrepareContext(ctx, `
INSERT INTO progress (file_id, question_id, correct, selected_option, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (file_id, question_id) DO UPDATE SET
    correct = excluded.correct,
    selected_option = excluded.selected_option,
    updated_at = CURRENT_TIMESTAMP
`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, p := range records {
			if _, err := stmt.ExecContext(ctx, p.FileID, p.QuestionID, p.Correct, p.SelectedOption); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *progressRepository) GetAll(ctx context.Context) ([]models.ProgressRecord, error) {
	return r.List(ctx, models.ProgressFilter{})
}

func (r *progressRepository) List(ctx context.Context, filter models.ProgressFilter) ([]models.ProgressRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing progress: file_id=%s, correct_only=%t, wrong_only=%t",
		filter.FileID, filter.CorrectOnly, filter.WrongOnly)

	query := sqlBuilder.Select(
		"file_id", "question_id", "correct", "selected_option", "updated_at",
	).From("progress")

	// Dynamic WHERE clauses
	if filter.FileID != "" {
		query = query.Where(squirrel.Eq{"file_id": filter.FileID})
	}
	if filter.CorrectOnly {
		query = query.Where(squirrel.Eq{"correct": true})
	}
	if filter.WrongOnly {
		query = query.Where(squirrel.Eq{"correct": false})
	}

	query = query.OrderBy("updated_at DESC", "file_id", "question_id")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.ProgressRecord
	for rows.Next() {
		var p models.ProgressRecord
		if err := rows.Scan(&p.FileID, &p.QuestionID, &p.Correct, &p.SelectedOption, &p.UpdatedAt); err != nil {
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		records = append(records, p)
	}
	log.Debug("found %d progress records", len(records))
	return records, rows.Err()
}

func (r *progressRepository) Delete(ctx context.Context, key models.QuestionKey) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("deleting progress: key=%s", key)

	_, err := r.db.ExecContext(ctx, `DELETE FROM progress WHERE file_id = ? AND question_id = ?`,
		key.FileID, key.QuestionID)
	if err != nil {
		log.Error("failed to delete progress: %v", err)
	}
	return err
}

func (r *progressRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("clearing progress")

	_, err := r.db.ExecContext(ctx, `DELETE FROM progress`)
	if err != nil {
		log.Error("failed to clear progress: %v", err)
	}
	return err
}
