// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"

	fcmtokenErrors "github.com/shelfmark/engagement-api/fcmtokens/errors"
	"github.com/shelfmark/engagement-api/fcmtokens/models"
	"github.com/shelfmark/engagement-api/fcmtokens/repository"
)

// FCMTokenService is the use-case layer over device tokens. GetTokens also
// satisfies the notification fan-out's TokenSource.
type FCMTokenService interface {
	AddOrUpdate(ctx context.Context, token models.FCMToken) error
	GetTokens(ctx context.Context, userIDs []uuid.UUID) ([]string, error)
}

type fcmTokenService struct {
	repo repository.FCMTokenRepository
}

// NewService creates an FCM token service.
func NewService(repo repository.FCMTokenRepository) FCMTokenService {
	return &fcmTokenService{repo: repo}
}

func (s *fcmTokenService) AddOrUpdate(ctx context.Context, token models.FCMToken) error {
	if token.Token == "" {
		return fcmtokenErrors.ErrEmptyToken
	}
	return s.repo.AddOrUpdate(ctx, token)
}

func (s *fcmTokenService) GetTokens(ctx context.Context, userIDs []uuid.UUID) ([]string, error) {
	return s.repo.GetTokens(ctx, userIDs)
}
