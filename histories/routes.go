// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package histories

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shelfmark/engagement-api/histories/handlers"
	authjwt "github.com/shelfmark/engagement-api/internal/middleware/authjwt"
	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
)

// HistoriesHandlers holds all the handlers this router needs
type HistoriesHandlers struct {
	HistoryHandler *handlers.HistoryHandler
}

// RegisterRoutes is the single entry point for setting up history routes.
func RegisterRoutes(app *fiber.App, h *HistoriesHandlers, cfg *platformconfig.Config) {
	authMiddleware := authjwt.New(authjwt.Config{
		PublicKey: cfg.JWT.PublicKey,
	})

	group := app.Group("/histories", authMiddleware)
	group.Get("/", h.HistoryHandler.GetMany)
	group.Get("/books", h.HistoryHandler.GetManyByBookIDs)
	group.Put("/", h.HistoryHandler.AddOrUpdate)
	group.Delete("/:bookId", h.HistoryHandler.Remove)
}
