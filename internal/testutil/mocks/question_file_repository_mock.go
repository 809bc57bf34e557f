package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/medoo24/quizbank/internal/models"
)

// MockQuestionFileRepository is a mock implementation of repository.QuestionFileRepository
type MockQuestionFileRepository struct {
	mock.Mock
}

func (m *MockQuestionFileRepository) Get(ctx context.Context, filename string) (*models.QuestionFile, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuestionFile), args.Error(1)
}

func (m *MockQuestionFileRepository) Put(ctx context.Context, file models.QuestionFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockQuestionFileRepository) GetAll(ctx context.Context) ([]models.QuestionFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuestionFile), args.Error(1)
}

func (m *MockQuestionFileRepository) Delete(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

func (m *MockQuestionFileRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
