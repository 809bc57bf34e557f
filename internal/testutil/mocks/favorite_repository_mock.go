package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/medoo24/quizbank/internal/models"
)

// MockFavoriteRepository is a mock implementation of repository.FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Get(ctx context.Context, key models.QuestionKey) (*models.FavoriteRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FavoriteRecord), args.Error(1)
}

func (m *MockFavoriteRepository) Put(ctx context.Context, record models.FavoriteRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockFavoriteRepository) GetAll(ctx context.Context) ([]models.FavoriteRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FavoriteRecord), args.Error(1)
}

func (m *MockFavoriteRepository) Delete(ctx context.Context, key models.QuestionKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
