// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package notifications

import (
	"github.com/gofiber/fiber/v2"

	authjwt "github.com/shelfmark/engagement-api/internal/middleware/authjwt"
	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
	"github.com/shelfmark/engagement-api/notifications/handlers"
)

// NotificationsHandlers holds all the handlers this router needs
type NotificationsHandlers struct {
	NotificationHandler *handlers.NotificationHandler
}

// RegisterRoutes is the single entry point for setting up notification routes.
func RegisterRoutes(app *fiber.App, h *NotificationsHandlers, cfg *platformconfig.Config) {
	authMiddleware := authjwt.New(authjwt.Config{
		PublicKey: cfg.JWT.PublicKey,
	})

	group := app.Group("/notifications", authMiddleware)
	group.Get("/", h.NotificationHandler.GetMany)

	// Ingest and fan-out are called by the publishing pipeline, not end
	// users.
	group.Post("/", h.NotificationHandler.AddMany)
	group.Post("/fanout", h.NotificationHandler.Fanout)
}
