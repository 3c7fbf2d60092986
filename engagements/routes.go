// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package engagements

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shelfmark/engagement-api/engagements/handlers"
	authjwt "github.com/shelfmark/engagement-api/internal/middleware/authjwt"
	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
)

// EngagementsHandlers holds the handlers this router needs, one per family.
type EngagementsHandlers struct {
	LikeHandler    *handlers.EngagementHandler
	DislikeHandler *handlers.EngagementHandler
}

// RegisterRoutes is the single entry point for setting up engagement routes.
// Likes and dislikes share the same surface under their own prefixes.
func RegisterRoutes(app *fiber.App, h *EngagementsHandlers, cfg *platformconfig.Config) {
	authMiddleware := authjwt.New(authjwt.Config{
		PublicKey: cfg.JWT.PublicKey,
	})

	likes := app.Group("/likes", authMiddleware)
	likes.Get("/", h.LikeHandler.GetMany)
	likes.Post("/", h.LikeHandler.Add)
	likes.Delete("/", h.LikeHandler.Remove)

	// Internal feed consumed by the notification fan-out of peer services.
	likes.Get("/book-tags", h.LikeHandler.GetManyByBookTags)

	dislikes := app.Group("/dislikes", authMiddleware)
	dislikes.Get("/", h.DislikeHandler.GetMany)
	dislikes.Post("/", h.DislikeHandler.Add)
	dislikes.Delete("/", h.DislikeHandler.Remove)
}
