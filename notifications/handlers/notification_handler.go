// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/gorilla/schema"

	engagementmodels "github.com/shelfmark/engagement-api/engagements/models"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
	"github.com/shelfmark/engagement-api/internal/types"
	"github.com/shelfmark/engagement-api/notifications/errors"
	"github.com/shelfmark/engagement-api/notifications/models"
	"github.com/shelfmark/engagement-api/notifications/services"
)

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// NotificationHandler handles all notification-related HTTP requests
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler with injected dependencies
func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// NotificationBookContent is one prepared notification in an ingest batch.
// book_tags entries are [kind, name] pairs.
type NotificationBookContent struct {
	BookID   uint32      `json:"book_id"`
	BookTags [][2]string `json:"book_tags"`
	UserID   string      `json:"user_id"`
}

// AddManyRequest is the ingest body. Only the "book" kind exists today.
type AddManyRequest struct {
	Kind    string                    `json:"kind"`
	Content []NotificationBookContent `json:"content"`
}

// FanoutRequest announces a newly published book and its tags.
type FanoutRequest struct {
	BookID   uint32      `json:"book_id"`
	BookTags [][2]string `json:"book_tags"`
}

// NotificationResponse is the wire shape of one notification.
type NotificationResponse struct {
	Kind      string      `json:"kind"`
	BookID    uint32      `json:"book_id"`
	BookTags  [][2]string `json:"book_tags"`
	CreatedAt time.Time   `json:"created_at"`
}

type listQuery struct {
	PerPage int    `schema:"per-page"`
	Page    int    `schema:"page"`
	SortBy  string `schema:"sort-by"`
}

// GetMany handles listing the caller's notifications.
// Endpoint: GET /notifications?per-page=25&page=1&sort-by=created-at-desc
func (h *NotificationHandler) GetMany(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	query := listQuery{
		PerPage: paging.DefaultPerPage,
		Page:    paging.DefaultPage,
	}
	if err := queryDecoder.Decode(&query, queryValues(c)); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid query parameters")
	}

	sortBy, err := paging.ParseSortBy(query.SortBy)
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	params := paging.Params{PerPage: query.PerPage, Page: query.Page}
	results, err := h.notificationService.GetMany(c.Context(), user.UserID, params, sortBy)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	responses := make([]NotificationResponse, 0, len(results))
	for _, n := range results {
		responses = append(responses, toResponse(n))
	}
	return c.Status(http.StatusOK).JSON(responses)
}

// AddMany handles ingesting a prepared notification batch.
// Endpoint: POST /notifications
// Body: {"kind": "book", "content": [{"book_id": 123456, "book_tags": [["female", "glasses"]], "user_id": "uuid"}]}
func (h *NotificationHandler) AddMany(c *fiber.Ctx) error {
	var req AddManyRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if req.Kind != "book" {
		return errors.HandleServiceError(c, errors.ErrUnsupportedKind)
	}

	notifications := make([]models.Notification, len(req.Content))
	for i, content := range req.Content {
		userID, err := uuid.FromString(content.UserID)
		if err != nil {
			return errors.HandleValidationError(c, "user_id must be a UUID")
		}
		if content.BookID == 0 {
			return errors.HandleValidationError(c, "book_id is required")
		}
		notifications[i] = models.New(userID, content.BookID, toBookTags(content.BookTags))
	}

	if err := h.notificationService.AddMany(c.Context(), notifications); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Notifications recorded successfully",
	})
}

// Fanout handles announcing a new book to every reader who likes its tags.
// Endpoint: POST /notifications/fanout
// Body: {"book_id": 123456, "book_tags": [["female", "glasses"], ["male", "short hair"]]}
func (h *NotificationHandler) Fanout(c *fiber.Ctx) error {
	var req FanoutRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if req.BookID == 0 {
		return errors.HandleValidationError(c, "book_id is required")
	}

	notified, err := h.notificationService.FanoutBook(c.Context(), req.BookID, toBookTags(req.BookTags))
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"notified": notified,
	})
}

func toBookTags(pairs [][2]string) []engagementmodels.BookTag {
	tags := make([]engagementmodels.BookTag, len(pairs))
	for i, pair := range pairs {
		tags[i] = engagementmodels.BookTag{Kind: pair[0], Name: pair[1]}
	}
	return tags
}

func toResponse(n models.Notification) NotificationResponse {
	pairs := make([][2]string, len(n.BookTags))
	for i, tag := range n.BookTags {
		pairs[i] = [2]string{tag.Kind, tag.Name}
	}
	return NotificationResponse{
		Kind:      "book",
		BookID:    n.BookID,
		BookTags:  pairs,
		CreatedAt: n.CreatedAt,
	}
}

func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}
