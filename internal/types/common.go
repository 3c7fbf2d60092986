package types

import uuid "github.com/gofrs/uuid"

// HTTP Header Constants
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
)

// Authentication Constants
const (
	BearerPrefix = "Bearer "
	UserCtxName  = "user"
)

// User roles
const (
	RoleNormal    = 0
	RoleDeveloper = 1
)

// UserContext carries the authenticated reader identity extracted from the JWT.
type UserContext struct {
	UserID uuid.UUID
	Name   string
	Role   int
}
