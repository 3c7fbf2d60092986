// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/shelfmark/engagement-api/engagements/models"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
)

// EngagementRepository is the query/mutation protocol over the unified likes
// tables. A repository instance is bound to one family (like or dislike) at
// construction; the same contract serves both.
//
// The repository never verifies that a referenced book or tag exists in the
// catalog. That check belongs to the calling service.
type EngagementRepository interface {
	// GetMany returns one windowed, sorted page of the user's engagements.
	// A nil kind returns both kinds interleaved as a single paginated
	// sequence; a non-nil kind restricts the query to that kind's table.
	// Paging params must be validated by the caller.
	GetMany(ctx context.Context, userID uuid.UUID, kind *models.Kind, params paging.Params, sortBy paging.SortBy) ([]models.Engagement, error)

	// GetManyByBookTags returns every book-tag engagement of this family
	// matching any of the given tag pairs, across all users. This is the
	// tag-match feed for notification fan-out. An empty tag set returns an
	// empty slice without querying.
	GetManyByBookTags(ctx context.Context, tags []models.BookTag) ([]models.Engagement, error)

	// Add inserts the engagement under its deterministic id.
	// Returns true when a row was inserted, false when the id already
	// existed; the database uniqueness constraint is the sole arbiter
	// under concurrent re-delivery.
	Add(ctx context.Context, engagement models.Engagement) (bool, error)

	// Remove hard-deletes the engagement by its deterministic id.
	// Returns true when a row was deleted, false when none matched.
	// Repeated removal is not an error.
	Remove(ctx context.Context, engagement models.Engagement) (bool, error)

	// EnsureSchema creates the likes tables and indexes if absent.
	EnsureSchema(ctx context.Context) error
}
