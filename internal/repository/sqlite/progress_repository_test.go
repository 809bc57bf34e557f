package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/medoo24/quizbank/internal/models"
	"github.com/medoo24/quizbank/internal/repository"
	"github.com/medoo24/quizbank/internal/repository/sqlite"
	"github.com/medoo24/quizbank/internal/testutil"
)

type ProgressRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProgressRepository
}

func (s *ProgressRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProgressRepository(s.db)
}

func record(fileID, questionID string, correct bool, selected int) models.ProgressRecord {
	return models.ProgressRecord{
		FileID:         fileID,
		QuestionID:     questionID,
		Correct:        correct,
		SelectedOption: selected,
	}
}

func (s *ProgressRepositorySuite) TestPutGetUpsert() {
	ctx := context.Background()
	key := models.QuestionKey{FileID: "f.json", QuestionID: "q1"}

	got, err := s.repo.Get(ctx, key)
	s.Require().NoError(err)
	s.Nil(got, "absent key returns nil without error")

	s.Require().NoError(s.repo.Put(ctx, record("f.json", "q1", false, 2)))

	got, err = s.repo.Get(ctx, key)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.False(got.Correct)
	s.Equal(2, got.SelectedOption)
	s.False(got.UpdatedAt.IsZero(), "store stamps the timestamp")

	// Upsert replaces in place, one row per key.
	s.Require().NoError(s.repo.Put(ctx, record("f.json", "q1", true, 0)))
	got, err = s.repo.Get(ctx, key)
	s.Require().NoError(err)
	s.True(got.Correct)
	s.Equal(0, got.SelectedOption)

	all, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *ProgressRepositorySuite) TestPutBatch() {
	ctx := context.Background()
	records := []models.ProgressRecord{
		record("f.json", "q1", true, 0),
		record("f.json", "q2", false, models.NoSelection),
		record("g.json", "q1", true, 1),
	}

	s.Require().NoError(s.repo.PutBatch(ctx, records))

	all, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 3)

	got, err := s.repo.Get(ctx, models.QuestionKey{FileID: "f.json", QuestionID: "q2"})
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(models.NoSelection, got.SelectedOption)
}

func (s *ProgressRepositorySuite) TestListFilters() {
	ctx := context.Background()
	s.Require().NoError(s.repo.PutBatch(ctx, []models.ProgressRecord{
		record("a.json", "q1", true, 0),
		record("a.json", "q2", false, 1),
		record("b.json", "q1", false, 0),
	}))

	byFile, err := s.repo.List(ctx, models.ProgressFilter{FileID: "a.json"})
	s.Require().NoError(err)
	s.Len(byFile, 2)

	correct, err := s.repo.List(ctx, models.ProgressFilter{CorrectOnly: true})
	s.Require().NoError(err)
	s.Require().Len(correct, 1)
	s.Equal("q1", correct[0].QuestionID)

	wrong, err := s.repo.List(ctx, models.ProgressFilter{WrongOnly: true})
	s.Require().NoError(err)
	s.Len(wrong, 2)

	limited, err := s.repo.List(ctx, models.ProgressFilter{Limit: 2})
	s.Require().NoError(err)
	s.Len(limited, 2)
}

func (s *ProgressRepositorySuite) TestDeleteAndClear() {
	ctx := context.Background()
	s.Require().NoError(s.repo.PutBatch(ctx, []models.ProgressRecord{
		record("a.json", "q1", true, 0),
		record("a.json", "q2", false, 1),
	}))

	s.Require().NoError(s.repo.Delete(ctx, models.QuestionKey{FileID: "a.json", QuestionID: "q1"}))
	got, err := s.repo.Get(ctx, models.QuestionKey{FileID: "a.json", QuestionID: "q1"})
	s.Require().NoError(err)
	s.Nil(got)

	s.Require().NoError(s.repo.Clear(ctx))
	all, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func TestProgressRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProgressRepositorySuite))
}
