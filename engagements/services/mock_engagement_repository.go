// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shelfmark/engagement-api/engagements/models"
	"github.com/shelfmark/engagement-api/engagements/repository"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
)

// MockEngagementRepository is a mock implementation of EngagementRepository for testing
type MockEngagementRepository struct {
	mock.Mock
}

// Ensure MockEngagementRepository implements EngagementRepository
var _ repository.EngagementRepository = (*MockEngagementRepository)(nil)

func (m *MockEngagementRepository) GetMany(ctx context.Context, userID uuid.UUID, kind *models.Kind, params paging.Params, sortBy paging.SortBy) ([]models.Engagement, error) {
	args := m.Called(ctx, userID, kind, params, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Engagement), args.Error(1)
}

func (m *MockEngagementRepository) GetManyByBookTags(ctx context.Context, tags []models.BookTag) ([]models.Engagement, error) {
	args := m.Called(ctx, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Engagement), args.Error(1)
}

func (m *MockEngagementRepository) Add(ctx context.Context, engagement models.Engagement) (bool, error) {
	args := m.Called(ctx, engagement)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) Remove(ctx context.Context, engagement models.Engagement) (bool, error) {
	args := m.Called(ctx, engagement)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockCatalogClient is a mock implementation of catalog.Client for testing
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) HasBook(ctx context.Context, bookID uint32) (bool, error) {
	args := m.Called(ctx, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogClient) HasBookTag(ctx context.Context, tagKind, tagName string) (bool, error) {
	args := m.Called(ctx, tagKind, tagName)
	return args.Bool(0), args.Error(1)
}
