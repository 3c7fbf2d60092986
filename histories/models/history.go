// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"fmt"
	"time"

	uuid "github.com/gofrs/uuid"
)

// History records how far a reader got into a book. One row per reader and
// book; re-reading bumps the page and updated-at stamp in place.
type History struct {
	BookID    uint32
	UserID    uuid.UUID
	Page      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New builds a history entry stamped with the current time.
func New(userID uuid.UUID, bookID uint32, page int) History {
	now := time.Now().UTC()
	return History{
		BookID:    bookID,
		UserID:    userID,
		Page:      page,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DeterministicID derives the row id from the book and reader, the same
// derivation the engagement records use. The upsert keys on it.
func (h History) DeterministicID() uuid.UUID {
	return uuid.NewV5(uuid.NamespaceOID, fmt.Sprintf("%d%s", h.BookID, h.UserID))
}
