// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/shelfmark/engagement-api/engagements"
	engagementHandlers "github.com/shelfmark/engagement-api/engagements/handlers"
	engagementModels "github.com/shelfmark/engagement-api/engagements/models"
	engagementRepository "github.com/shelfmark/engagement-api/engagements/repository"
	engagementServices "github.com/shelfmark/engagement-api/engagements/services"
	"github.com/shelfmark/engagement-api/fcmtokens"
	fcmtokenHandlers "github.com/shelfmark/engagement-api/fcmtokens/handlers"
	fcmtokenRepository "github.com/shelfmark/engagement-api/fcmtokens/repository"
	fcmtokenServices "github.com/shelfmark/engagement-api/fcmtokens/services"
	"github.com/shelfmark/engagement-api/histories"
	historyHandlers "github.com/shelfmark/engagement-api/histories/handlers"
	historyRepository "github.com/shelfmark/engagement-api/histories/repository"
	historyServices "github.com/shelfmark/engagement-api/histories/services"
	"github.com/shelfmark/engagement-api/internal/cache"
	"github.com/shelfmark/engagement-api/internal/catalog"
	"github.com/shelfmark/engagement-api/internal/database/postgres"
	"github.com/shelfmark/engagement-api/internal/pkg/log"
	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
	"github.com/shelfmark/engagement-api/internal/push"
	"github.com/shelfmark/engagement-api/notifications"
	notificationHandlers "github.com/shelfmark/engagement-api/notifications/handlers"
	notificationRepository "github.com/shelfmark/engagement-api/notifications/repository"
	notificationServices "github.com/shelfmark/engagement-api/notifications/services"
	"github.com/shelfmark/engagement-api/users"
	userHandlers "github.com/shelfmark/engagement-api/users/handlers"
	userRepository "github.com/shelfmark/engagement-api/users/repository"
	userServices "github.com/shelfmark/engagement-api/users/services"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		log.Error("Failed to load config: %v", err)
		return
	}

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		log.Error("Failed to create postgres client: %v", err)
		return
	}
	defer pgClient.Close()

	// Repositories. Schemas run in FK order: everything references users.
	userRepo := userRepository.NewPostgresUserRepository(pgClient)
	likeRepo := engagementRepository.NewPostgresLikeRepository(pgClient)
	dislikeRepo := engagementRepository.NewPostgresDislikeRepository(pgClient)
	notificationRepo := notificationRepository.NewPostgresNotificationRepository(pgClient)
	historyRepo := historyRepository.NewPostgresHistoryRepository(pgClient)
	tokenRepo := fcmtokenRepository.NewPostgresFCMTokenRepository(pgClient)

	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureSchema,
		likeRepo.EnsureSchema,
		notificationRepo.EnsureSchema,
		historyRepo.EnsureSchema,
		tokenRepo.EnsureSchema,
	} {
		if err := ensure(ctx); err != nil {
			log.Error("Failed to ensure schema: %v", err)
			return
		}
	}

	cacheService, err := cache.New(&cfg.Cache)
	if err != nil {
		log.Warn("Cache unavailable, continuing without it: %v", err)
	}
	if cacheService != nil {
		defer cacheService.Close()
	}

	catalogClient, err := catalog.NewHTTPClient(&cfg.Library, cacheService)
	if err != nil {
		log.Error("Failed to create catalog client: %v", err)
		return
	}

	var sender push.Sender
	if cfg.FCM.ServerKey != "" {
		sender, err = push.NewFCMSender(&cfg.FCM)
		if err != nil {
			log.Error("Failed to create push sender: %v", err)
			return
		}
	} else {
		log.Warn("FCM server key not set, push delivery disabled")
		sender = push.NoopSender{}
	}

	// Services
	userService := userServices.NewService(userRepo)
	likeService := engagementServices.NewService(likeRepo, catalogClient)
	dislikeService := engagementServices.NewService(dislikeRepo, catalogClient)
	tokenService := fcmtokenServices.NewService(tokenRepo)
	notificationService := notificationServices.NewService(notificationRepo, likeRepo, tokenService, sender)
	historyService := historyServices.NewService(historyRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			// If a handler already wrote a response, don't override it.
			if len(c.Response().Body()) > 0 {
				return nil
			}

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pgClient.Ping(c.Context()); err != nil {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	users.RegisterRoutes(app, &users.UsersHandlers{
		UserHandler: userHandlers.NewUserHandler(userService),
	}, cfg)

	engagements.RegisterRoutes(app, &engagements.EngagementsHandlers{
		LikeHandler:    engagementHandlers.NewEngagementHandler(likeService, engagementModels.FamilyLike),
		DislikeHandler: engagementHandlers.NewEngagementHandler(dislikeService, engagementModels.FamilyDislike),
	}, cfg)

	notifications.RegisterRoutes(app, &notifications.NotificationsHandlers{
		NotificationHandler: notificationHandlers.NewNotificationHandler(notificationService),
	}, cfg)

	histories.RegisterRoutes(app, &histories.HistoriesHandlers{
		HistoryHandler: historyHandlers.NewHistoryHandler(historyService),
	}, cfg)

	fcmtokens.RegisterRoutes(app, &fcmtokens.FCMTokensHandlers{
		FCMTokenHandler: fcmtokenHandlers.NewFCMTokenHandler(tokenService),
	}, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Engagement API listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Error("Server stopped: %v", err)
	}
}
