// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package users

import (
	"github.com/gofiber/fiber/v2"

	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
	"github.com/shelfmark/engagement-api/users/handlers"
)

// UsersHandlers holds all the handlers this router needs
type UsersHandlers struct {
	UserHandler *handlers.UserHandler
}

// RegisterRoutes is the single entry point for setting up user routes.
// Account creation happens before the caller has a token, so these routes
// are unauthenticated.
func RegisterRoutes(app *fiber.App, h *UsersHandlers, _ *platformconfig.Config) {
	group := app.Group("/users")
	group.Post("/", h.UserHandler.Create)
	group.Get("/:userId", h.UserHandler.Get)
}
