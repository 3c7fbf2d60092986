// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fcmtokens

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shelfmark/engagement-api/fcmtokens/handlers"
	authjwt "github.com/shelfmark/engagement-api/internal/middleware/authjwt"
	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
)

// FCMTokensHandlers holds all the handlers this router needs
type FCMTokensHandlers struct {
	FCMTokenHandler *handlers.FCMTokenHandler
}

// RegisterRoutes is the single entry point for setting up token routes.
func RegisterRoutes(app *fiber.App, h *FCMTokensHandlers, cfg *platformconfig.Config) {
	authMiddleware := authjwt.New(authjwt.Config{
		PublicKey: cfg.JWT.PublicKey,
	})

	app.Put("/fcm-token", authMiddleware, h.FCMTokenHandler.AddOrUpdate)
}
