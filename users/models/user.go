// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	uuid "github.com/gofrs/uuid"

	"github.com/shelfmark/engagement-api/internal/types"
)

// User is an account row. Every engagement table references it, so user
// deletion cascades through likes, notifications, histories, and tokens.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds a normal-role user with a fresh random id.
func New(name, email string) User {
	now := time.Now().UTC()
	return User{
		ID:        uuid.Must(uuid.NewV4()),
		Name:      name,
		Email:     email,
		Role:      types.RoleNormal,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
