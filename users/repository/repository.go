// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/shelfmark/engagement-api/users/models"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Add inserts the user. Returns false without error when the id, name,
	// or email is already taken.
	Add(ctx context.Context, user models.User) (bool, error)

	// FindByID returns the user, or nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// EnsureSchema creates the users table if absent. Runs before the other
	// repositories' schemas: they all reference users(id).
	EnsureSchema(ctx context.Context) error
}
