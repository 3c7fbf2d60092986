// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	engagementErrors "github.com/shelfmark/engagement-api/engagements/errors"
	"github.com/shelfmark/engagement-api/engagements/models"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
)

func TestEngagementService_Add(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	t.Run("book accepted after catalog check", func(t *testing.T) {
		mockRepo := new(MockEngagementRepository)
		mockCatalog := new(MockCatalogClient)
		service := NewService(mockRepo, mockCatalog)

		engagement := models.NewBook(userID, 123456)
		mockCatalog.On("HasBook", ctx, uint32(123456)).Return(true, nil)
		mockRepo.On("Add", ctx, engagement).Return(true, nil)

		err := service.Add(ctx, engagement)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockCatalog.AssertExpectations(t)
	})

	t.Run("book missing from catalog", func(t *testing.T) {
		mockRepo := new(MockEngagementRepository)
		mockCatalog := new(MockCatalogClient)
		service := NewService(mockRepo, mockCatalog)

		mockCatalog.On("HasBook", ctx, uint32(999)).Return(false, nil)

		err := service.Add(ctx, models.NewBook(userID, 999))

		assert.ErrorIs(t, err, engagementErrors.ErrBookNotFound)
		// Repository must never be consulted when the catalog says no.
		mockRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("book tag missing from catalog", func(t *testing.T) {
		mockRepo := new(MockEngagementRepository)
		mockCatalog := new(MockCatalogClient)
		service := NewService(mockRepo, mockCatalog)

		mockCatalog.On("HasBookTag", ctx, "female", "glasses").Return(false, nil)

		err := service.Add(ctx, models.NewBookTag(userID, "female", "glasses"))

		assert.ErrorIs(t, err, engagementErrors.ErrBookTagNotFound)
		mockRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("duplicate surfaces as already exists", func(t *testing.T) {
		mockRepo := new(MockEngagementRepository)
		mockCatalog := new(MockCatalogClient)
		service := NewService(mockRepo, mockCatalog)

		engagement := models.NewBook(userID, 123456)
		mockCatalog.On("HasBook", ctx, uint32(123456)).Return(true, nil)
		mockRepo.On("Add", ctx, engagement).Return(false, nil)

		err := service.Add(ctx, engagement)

		assert.ErrorIs(t, err, engagementErrors.ErrAlreadyExists)
	})

	t.Run("catalog failure propagates", func(t *testing.T) {
		mockRepo := new(MockEngagementRepository)
		mockCatalog := new(MockCatalogClient)
		service := NewService(mockRepo, mockCatalog)

		mockCatalog.On("HasBook", ctx, uint32(123456)).Return(false, errors.New("library unreachable"))

		err := service.Add(ctx, models.NewBook(userID, 123456))

		assert.Error(t, err)
		assert.NotErrorIs(t, err, engagementErrors.ErrBookNotFound)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		mockRepo := new(MockEngagementRepository)
		mockCatalog := new(MockCatalogClient)
		service := NewService(mockRepo, mockCatalog)

		err := service.Add(ctx, models.Engagement{Kind: "author", UserID: userID})

		assert.ErrorIs(t, err, engagementErrors.ErrInvalidKind)
	})
}

func TestEngagementService_Remove(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	t.Run("removed", func(t *testing.T) {
		mockRepo := new(MockEngagementRepository)
		service := NewService(mockRepo, new(MockCatalogClient))

		engagement := models.NewBook(userID, 123456)
		mockRepo.On("Remove", ctx, engagement).Return(true, nil)

		assert.NoError(t, service.Remove(ctx, engagement))
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		mockRepo := new(MockEngagementRepository)
		service := NewService(mockRepo, new(MockCatalogClient))

		engagement := models.NewBook(userID, 123456)
		mockRepo.On("Remove", ctx, engagement).Return(false, nil)

		assert.ErrorIs(t, service.Remove(ctx, engagement), engagementErrors.ErrEngagementNotFound)
	})
}

func TestEngagementService_GetMany(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())

	t.Run("rejects out-of-range pagination before querying", func(t *testing.T) {
		mockRepo := new(MockEngagementRepository)
		service := NewService(mockRepo, new(MockCatalogClient))

		_, err := service.GetMany(ctx, userID, nil, paging.Params{PerPage: 0, Page: 1}, paging.SortCreatedAtDesc)
		assert.ErrorIs(t, err, paging.ErrPerPageOutOfRange)

		_, err = service.GetMany(ctx, userID, nil, paging.Params{PerPage: 25, Page: 0}, paging.SortCreatedAtDesc)
		assert.ErrorIs(t, err, paging.ErrPageOutOfRange)

		mockRepo.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("passes validated window through", func(t *testing.T) {
		mockRepo := new(MockEngagementRepository)
		service := NewService(mockRepo, new(MockCatalogClient))

		params := paging.Params{PerPage: 25, Page: 2}
		expected := []models.Engagement{models.NewBook(userID, 1)}
		mockRepo.On("GetMany", ctx, userID, (*models.Kind)(nil), params, paging.SortCreatedAtAsc).Return(expected, nil)

		got, err := service.GetMany(ctx, userID, nil, params, paging.SortCreatedAtAsc)

		assert.NoError(t, err)
		assert.Equal(t, expected, got)
		mockRepo.AssertExpectations(t)
	})
}
