// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shelfmark/engagement-api/fcmtokens/models"
)

// MockFCMTokenRepository is a testify mock of repository.FCMTokenRepository.
type MockFCMTokenRepository struct {
	mock.Mock
}

func (m *MockFCMTokenRepository) AddOrUpdate(ctx context.Context, token models.FCMToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockFCMTokenRepository) GetTokens(ctx context.Context, userIDs []uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userIDs)
	if tokens := args.Get(0); tokens != nil {
		return tokens.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFCMTokenRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
