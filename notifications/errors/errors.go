// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/shelfmark/engagement-api/internal/pkg/paging"
)

// Notification service specific errors
var (
	ErrUnsupportedKind    = errors.New("unsupported notification kind")
	ErrUnsupportedSort    = errors.New("unsupported notification sort")
	ErrEmptyBatch         = errors.New("notification batch is empty")
	ErrMissingUserContext = errors.New("missing user context")
)

// Error codes
const (
	CodeUnsupportedKind    = "UNSUPPORTED_NOTIFICATION_KIND"
	CodeUnsupportedSort    = "UNSUPPORTED_NOTIFICATION_SORT"
	CodeEmptyBatch         = "EMPTY_NOTIFICATION_BATCH"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleServiceError handles service errors and returns appropriate HTTP responses
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrUnsupportedKind):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeUnsupportedKind,
			Message: "Unsupported notification kind",
			Details: err.Error(),
		})
	case errors.Is(err, ErrUnsupportedSort):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeUnsupportedSort,
			Message: "Notifications sort by creation time only",
			Details: err.Error(),
		})
	case errors.Is(err, ErrEmptyBatch):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeEmptyBatch,
			Message: "Notification batch is empty",
			Details: err.Error(),
		})
	case errors.Is(err, paging.ErrPerPageOutOfRange), errors.Is(err, paging.ErrPageOutOfRange):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeValidationFailed,
			Message: "Invalid pagination parameters",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}

// HandleValidationError handles validation errors with 400 Bad Request
func HandleValidationError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeValidationFailed,
		Message: message,
		Details: message,
	})
}

// HandleUserContextError handles user context errors with 400 Bad Request
func HandleUserContextError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeMissingUserContext,
		Message: message,
		Details: message,
	})
}

// HandleInvalidRequestError handles invalid request errors with 400 Bad Request
func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: message,
	})
}
