// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/shelfmark/engagement-api/internal/pkg/paging"
	"github.com/shelfmark/engagement-api/notifications/models"
)

// NotificationRepository defines the interface for notification persistence.
type NotificationRepository interface {
	// GetMany returns one page of a reader's notifications with their tag
	// reasons attached.
	GetMany(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.Notification, error)

	// AddMany writes a delivery batch in a single transaction. Rows whose
	// deterministic id already exists are skipped, so re-delivering a batch
	// is harmless.
	AddMany(ctx context.Context, notifications []models.Notification) error

	// EnsureSchema creates the notification tables if absent.
	EnsureSchema(ctx context.Context) error
}
