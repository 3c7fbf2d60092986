// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"fmt"
	"time"

	uuid "github.com/gofrs/uuid"

	engagementmodels "github.com/shelfmark/engagement-api/engagements/models"
)

// Notification tells one reader that a book matching tags they like was
// published. The tag list carries the subset of the book's tags that the
// reader actually likes, so the client can say why they got it.
type Notification struct {
	BookID    uint32
	UserID    uuid.UUID
	BookTags  []engagementmodels.BookTag
	CreatedAt time.Time
}

// New builds a notification stamped with the current time.
func New(userID uuid.UUID, bookID uint32, bookTags []engagementmodels.BookTag) Notification {
	return Notification{
		BookID:    bookID,
		UserID:    userID,
		BookTags:  bookTags,
		CreatedAt: time.Now().UTC(),
	}
}

// DeterministicID derives the notification row id from the book and reader.
// Delivering the same book to the same reader twice therefore lands on the
// same primary key, and the second insert is a no-op.
func (n Notification) DeterministicID() uuid.UUID {
	return uuid.NewV5(uuid.NamespaceOID, fmt.Sprintf("%d%s", n.BookID, n.UserID))
}

// TagRowID derives the id of one reason row under a notification.
func TagRowID(notificationID uuid.UUID, tagKind, tagName string) uuid.UUID {
	return uuid.NewV5(uuid.NamespaceOID, fmt.Sprintf("%s%s%s", notificationID, tagKind, tagName))
}
