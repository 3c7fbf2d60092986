// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"

	"github.com/shelfmark/engagement-api/fcmtokens/errors"
	"github.com/shelfmark/engagement-api/fcmtokens/models"
	"github.com/shelfmark/engagement-api/fcmtokens/services"
	"github.com/shelfmark/engagement-api/internal/types"
)

// FCMTokenHandler handles device token registration requests
type FCMTokenHandler struct {
	tokenService services.FCMTokenService
}

// NewFCMTokenHandler creates a new FCMTokenHandler with injected dependencies
func NewFCMTokenHandler(tokenService services.FCMTokenService) *FCMTokenHandler {
	return &FCMTokenHandler{
		tokenService: tokenService,
	}
}

// RegisterRequest is the request body for registering a device token.
type RegisterRequest struct {
	UDID     string `json:"udid"`
	FCMToken string `json:"fcm_token"`
}

// AddOrUpdate handles device token registration. Clients call this on every
// app start; the udid keys the upsert so a device never holds two tokens.
// Endpoint: PUT /fcm-token
// Body: {"udid": "uuid", "fcm_token": "..."}
func (h *FCMTokenHandler) AddOrUpdate(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	udid, err := uuid.FromString(req.UDID)
	if err != nil {
		return errors.HandleValidationError(c, "udid must be a UUID")
	}

	token := models.New(udid, user.UserID, req.FCMToken)
	if err := h.tokenService.AddOrUpdate(c.Context(), token); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "FCM token registered successfully",
	})
}
