// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shelfmark/engagement-api/histories/models"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
)

// MockHistoryRepository is a mock implementation of HistoryRepository for testing
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) GetMany(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.History, error) {
	args := m.Called(ctx, userID, params, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.History), args.Error(1)
}

func (m *MockHistoryRepository) GetManyByBookIDs(ctx context.Context, userID uuid.UUID, bookIDs []uint32) ([]models.History, error) {
	args := m.Called(ctx, userID, bookIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.History), args.Error(1)
}

func (m *MockHistoryRepository) AddOrUpdate(ctx context.Context, history models.History) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockHistoryRepository) Remove(ctx context.Context, history models.History) (bool, error) {
	args := m.Called(ctx, history)
	return args.Bool(0), args.Error(1)
}

func (m *MockHistoryRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
