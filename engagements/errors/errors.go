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

// Engagement service specific errors
var (
	ErrAlreadyExists      = errors.New("engagement already exists")
	ErrEngagementNotFound = errors.New("engagement not found")
	ErrBookNotFound       = errors.New("book not found in library")
	ErrBookTagNotFound    = errors.New("book tag not found in library")
	ErrInvalidKind        = errors.New("invalid engagement kind")
	ErrUnsupportedSort    = errors.New("unsupported engagement sort")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrMissingUserContext = errors.New("missing user context")
	ErrDatabaseOperation  = errors.New("database operation failed")
)

// Error codes
const (
	CodeAlreadyExists      = "ENGAGEMENT_ALREADY_EXISTS"
	CodeEngagementNotFound = "ENGAGEMENT_NOT_FOUND"
	CodeBookNotFound       = "BOOK_NOT_FOUND"
	CodeBookTagNotFound    = "BOOK_TAG_NOT_FOUND"
	CodeInvalidKind        = "INVALID_KIND"
	CodeUnsupportedSort    = "UNSUPPORTED_SORT"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
	CodeDatabaseError      = "DATABASE_ERROR"
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
	case errors.Is(err, ErrAlreadyExists):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Code:    CodeAlreadyExists,
			Message: "Engagement already exists",
			Details: err.Error(),
		})
	case errors.Is(err, ErrEngagementNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeEngagementNotFound,
			Message: "Engagement not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrBookNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeBookNotFound,
			Message: "Book not found in library",
			Details: err.Error(),
		})
	case errors.Is(err, ErrBookTagNotFound):
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Code:    CodeBookTagNotFound,
			Message: "Book tag not found in library",
			Details: err.Error(),
		})
	case errors.Is(err, ErrInvalidKind):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeInvalidKind,
			Message: "Invalid engagement kind",
			Details: err.Error(),
		})
	case errors.Is(err, ErrUnsupportedSort):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Code:    CodeUnsupportedSort,
			Message: "Engagements sort by creation time or randomly",
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
