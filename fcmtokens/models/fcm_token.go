// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// TokenFreshness is how recently a token must have been registered to be
// handed to the push sender. Devices re-register on app start, so anything
// older belongs to a device that has gone quiet.
const TokenFreshness = 30 * 24 * time.Hour

// FCMToken binds one device (udid) to its current push token. A device has
// exactly one row; re-registering replaces the token in place.
type FCMToken struct {
	UDID      uuid.UUID
	UserID    uuid.UUID
	Token     string
	UpdatedAt time.Time
}

// New builds a token registration stamped with the current time.
func New(udid, userID uuid.UUID, token string) FCMToken {
	return FCMToken{
		UDID:      udid,
		UserID:    userID,
		Token:     token,
		UpdatedAt: time.Now().UTC(),
	}
}
