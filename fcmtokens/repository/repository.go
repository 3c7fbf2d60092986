// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/shelfmark/engagement-api/fcmtokens/models"
)

// FCMTokenRepository defines the interface for device token persistence.
type FCMTokenRepository interface {
	// AddOrUpdate registers a device token, replacing any earlier token for
	// the same device.
	AddOrUpdate(ctx context.Context, token models.FCMToken) error

	// GetTokens returns the fresh tokens of the given users. Tokens not
	// re-registered within models.TokenFreshness are excluded.
	GetTokens(ctx context.Context, userIDs []uuid.UUID) ([]string, error)

	// EnsureSchema creates the token table if absent.
	EnsureSchema(ctx context.Context) error
}
