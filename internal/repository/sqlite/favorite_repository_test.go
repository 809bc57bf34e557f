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

type FavoriteRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.FavoriteRepository
}

func (s *FavoriteRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewFavoriteRepository(s.db)
}

func (s *FavoriteRepositorySuite) TestPutDeleteRoundTrip() {
	ctx := context.Background()
	key := models.QuestionKey{FileID: "f.json", QuestionID: "q1"}

	got, err := s.repo.Get(ctx, key)
	s.Require().NoError(err)
	s.Nil(got)

	s.Require().NoError(s.repo.Put(ctx, models.FavoriteRecord{FileID: key.FileID, QuestionID: key.QuestionID}))

	got, err = s.repo.Get(ctx, key)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.False(got.CreatedAt.IsZero())

	// Favoriting twice keeps a single row.
	s.Require().NoError(s.repo.Put(ctx, models.FavoriteRecord{FileID: key.FileID, QuestionID: key.QuestionID}))
	all, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)

	s.Require().NoError(s.repo.Delete(ctx, key))
	got, err = s.repo.Get(ctx, key)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *FavoriteRepositorySuite) TestSameIDInDifferentFiles() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Put(ctx, models.FavoriteRecord{FileID: "a.json", QuestionID: "q1"}))
	s.Require().NoError(s.repo.Put(ctx, models.FavoriteRecord{FileID: "b.json", QuestionID: "q1"}))

	all, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 2, "favorite identity is the file and question pair")

	s.Require().NoError(s.repo.Delete(ctx, models.QuestionKey{FileID: "a.json", QuestionID: "q1"}))
	remaining, err := s.repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(remaining, 1)
	s.Equal("b.json", remaining[0].FileID)
}

func TestFavoriteRepositorySuite(t *testing.T) {
	suite.Run(t, new(FavoriteRepositorySuite))
}
