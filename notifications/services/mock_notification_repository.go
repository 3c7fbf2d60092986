// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	engagementmodels "github.com/shelfmark/engagement-api/engagements/models"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
	"github.com/shelfmark/engagement-api/internal/push"
	"github.com/shelfmark/engagement-api/notifications/models"
)

// MockNotificationRepository is a mock implementation of NotificationRepository for testing
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) GetMany(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.Notification, error) {
	args := m.Called(ctx, userID, params, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) AddMany(ctx context.Context, notifications []models.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockLikeRepository is a mock implementation of the like-family
// EngagementRepository, covering only what the fan-out consumes.
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) GetMany(ctx context.Context, userID uuid.UUID, kind *engagementmodels.Kind, params paging.Params, sortBy paging.SortBy) ([]engagementmodels.Engagement, error) {
	args := m.Called(ctx, userID, kind, params, sortBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engagementmodels.Engagement), args.Error(1)
}

func (m *MockLikeRepository) GetManyByBookTags(ctx context.Context, tags []engagementmodels.BookTag) ([]engagementmodels.Engagement, error) {
	args := m.Called(ctx, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engagementmodels.Engagement), args.Error(1)
}

func (m *MockLikeRepository) Add(ctx context.Context, engagement engagementmodels.Engagement) (bool, error) {
	args := m.Called(ctx, engagement)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) Remove(ctx context.Context, engagement engagementmodels.Engagement) (bool, error) {
	args := m.Called(ctx, engagement)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTokenSource is a mock implementation of TokenSource for testing
type MockTokenSource struct {
	mock.Mock
}

func (m *MockTokenSource) GetTokens(ctx context.Context, userIDs []uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockSender is a mock implementation of push.Sender for testing
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, tokens []string, message push.Message) error {
	args := m.Called(ctx, tokens, message)
	return args.Error(0)
}
