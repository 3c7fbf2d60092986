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

// Kind discriminates which target an engagement points at.
type Kind string

const (
	KindBook    Kind = "book"
	KindBookTag Kind = "book_tag"
)

// ParseKind maps the wire value to a Kind. Empty input means "no kind
// filter" and is the caller's concern, not an error here.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "book":
		return KindBook, true
	case "book-tag", "book_tag":
		return KindBookTag, true
	default:
		return "", false
	}
}

// Family separates the two engagement families stored in the unified likes
// tables: likes and dislikes share the same physical rows and differ only in
// the is_dislike column.
type Family int

const (
	FamilyLike Family = iota
	FamilyDislike
)

// IsDislike returns the is_dislike column value for this family.
func (f Family) IsDislike() bool {
	return f == FamilyDislike
}

func (f Family) String() string {
	if f == FamilyDislike {
		return "dislike"
	}
	return "like"
}

// BookTag is a (kind, name) tag pair, e.g. ("female", "glasses") or
// ("artist", "mignon").
type BookTag struct {
	Kind string `json:"tag_kind"`
	Name string `json:"tag_name"`
}

// Engagement is a reader's recorded like or dislike against a book or a
// book-tag. Exactly one of the kind-specific field sets is populated,
// according to Kind.
type Engagement struct {
	Kind      Kind      `json:"kind"`
	BookID    uint32    `json:"book_id,omitempty"`
	TagKind   string    `json:"tag_kind,omitempty"`
	TagName   string    `json:"tag_name,omitempty"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBook creates a book engagement stamped with the current time.
func NewBook(userID uuid.UUID, bookID uint32) Engagement {
	return Engagement{
		Kind:      KindBook,
		BookID:    bookID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// NewBookTag creates a book-tag engagement stamped with the current time.
func NewBookTag(userID uuid.UUID, tagKind, tagName string) Engagement {
	return Engagement{
		Kind:      KindBookTag,
		TagKind:   tagKind,
		TagName:   tagName,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// Tag returns the engagement's tag pair. Only meaningful for KindBookTag.
func (e Engagement) Tag() BookTag {
	return BookTag{Kind: e.TagKind, Name: e.TagName}
}

// DeterministicID derives the row identity from the engagement's natural
// key. Re-submitting the same logical engagement always produces the same
// UUID, which is what makes insert naturally deduplicating: the primary-key
// constraint, not the application, arbitrates "already exists".
func (e Engagement) DeterministicID() uuid.UUID {
	switch e.Kind {
	case KindBookTag:
		return uuid.NewV5(uuid.NamespaceOID, fmt.Sprintf("%s%s%s", e.TagKind, e.TagName, e.UserID))
	default:
		return uuid.NewV5(uuid.NamespaceOID, fmt.Sprintf("%d%s", e.BookID, e.UserID))
	}
}
