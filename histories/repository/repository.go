// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/shelfmark/engagement-api/histories/models"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
)

// HistoryRepository defines the interface for reading-history persistence.
type HistoryRepository interface {
	// GetMany returns one page of a reader's history. All sorts apply,
	// including the updated-at ones.
	GetMany(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.History, error)

	// GetManyByBookIDs returns the reader's history rows for the given
	// books, unsorted and unpaged.
	GetManyByBookIDs(ctx context.Context, userID uuid.UUID, bookIDs []uint32) ([]models.History, error)

	// AddOrUpdate inserts the entry, or bumps page and updated_at when the
	// reader already has one for this book.
	AddOrUpdate(ctx context.Context, history models.History) error

	// Remove hard-deletes the entry. Returns false when there was none.
	Remove(ctx context.Context, history models.History) (bool, error)

	// EnsureSchema creates the history table if absent.
	EnsureSchema(ctx context.Context) error
}
