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

type QuestionFileRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.QuestionFileRepository
}

func (s *QuestionFileRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewQuestionFileRepository(s.db)
}

func (s *QuestionFileRepositorySuite) TestPutGetRoundTrip() {
	ctx := context.Background()
	payload := []byte(`[{"id": "1", "question": "?", "options": ["a", "b"], "correct_option_id": 0}]`)

	got, err := s.repo.Get(ctx, "anatomy.json")
	s.Require().NoError(err)
	s.Nil(got)

	s.Require().NoError(s.repo.Put(ctx, models.QuestionFile{Filename: "anatomy.json", Payload: payload}))

	got, err = s.repo.Get(ctx, "anatomy.json")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(payload, got.Payload)
	s.False(got.ImportedAt.IsZero())
}

func (s *QuestionFileRepositorySuite) TestPutReplacesPayload() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, models.QuestionFile{Filename: "f.json", Payload: []byte(`[]`)}))
	s.Require().NoError(s.repo.Put(ctx, models.QuestionFile{Filename: "f.json", Payload: []byte(`[1]`)}))

	got, err := s.repo.Get(ctx, "f.json")
	s.Require().NoError(err)
	s.Equal([]byte(`[1]`), got.Payload)

	all, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 1, "re-upload replaces, not duplicates")
}

func (s *QuestionFileRepositorySuite) TestDeleteAndClear() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, models.QuestionFile{Filename: "a.json", Payload: []byte(`[]`)}))
	s.Require().NoError(s.repo.Put(ctx, models.QuestionFile{Filename: "b.json", Payload: []byte(`[]`)}))

	s.Require().NoError(s.repo.Delete(ctx, "a.json"))
	got, err := s.repo.Get(ctx, "a.json")
	s.Require().NoError(err)
	s.Nil(got)

	s.Require().NoError(s.repo.Clear(ctx))
	all, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func TestQuestionFileRepositorySuite(t *testing.T) {
	suite.Run(t, new(QuestionFileRepositorySuite))
}
