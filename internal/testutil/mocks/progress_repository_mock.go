package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/medoo24/quizbank/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, key models.QuestionKey) (*models.ProgressRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) Put(ctx context.Context, record models.ProgressRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockProgressRepository) PutBatch(ctx context.Context, records []models.ProgressRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockProgressRepository) GetAll(ctx context.Context) ([]models.ProgressRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) List(ctx context.Context, filter models.ProgressFilter) ([]models.ProgressRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) Delete(ctx context.Context, key models.QuestionKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockProgressRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
