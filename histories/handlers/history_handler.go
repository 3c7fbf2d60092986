// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"

	"github.com/shelfmark/engagement-api/histories/errors"
	"github.com/shelfmark/engagement-api/histories/models"
	"github.com/shelfmark/engagement-api/histories/services"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
	"github.com/shelfmark/engagement-api/internal/types"
)

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// HistoryHandler handles all reading-history HTTP requests
type HistoryHandler struct {
	historyService services.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler with injected dependencies
func NewHistoryHandler(historyService services.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// HistoryRequest is the request body for recording or deleting progress.
type HistoryRequest struct {
	Kind   string `json:"kind"`
	BookID uint32 `json:"book_id"`
	Page   int    `json:"page"`
}

// HistoryResponse is the wire shape of one history entry.
type HistoryResponse struct {
	Kind      string    `json:"kind"`
	BookID    uint32    `json:"book_id"`
	Page      int       `json:"page"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listQuery struct {
	PerPage int    `schema:"per-page"`
	Page    int    `schema:"page"`
	SortBy  string `schema:"sort-by"`
}

// GetMany handles listing the caller's reading history.
// Endpoint: GET /histories?per-page=25&page=1&sort-by=updated-at-desc
func (h *HistoryHandler) GetMany(c *fiber.Ctx) error {
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
	results, err := h.historyService.GetMany(c.Context(), user.UserID, params, sortBy)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toResponses(results))
}

// GetManyByBookIDs handles bulk progress lookup for a set of books, used by
// the library client to decorate shelves.
// Endpoint: GET /histories/books?ids[]=101&ids[]=102
func (h *HistoryHandler) GetManyByBookIDs(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	var bookIDs []uint32
	for _, raw := range queryValues(c)["ids[]"] {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return errors.HandleValidationError(c, "ids[] entries must be book ids")
		}
		bookIDs = append(bookIDs, uint32(id))
	}

	results, err := h.historyService.GetManyByBookIDs(c.Context(), user.UserID, bookIDs)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toResponses(results))
}

// AddOrUpdate handles recording reading progress. One entry per book and
// reader; sending again moves the page forward.
// Endpoint: PUT /histories
// Body: {"kind": "book", "book_id": 123456, "page": 17}
func (h *HistoryHandler) AddOrUpdate(c *fiber.Ctx) error {
	history, errResp := h.historyFromRequest(c)
	if errResp != nil {
		return errResp
	}

	if err := h.historyService.AddOrUpdate(c.Context(), history); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "History recorded successfully",
	})
}

// Remove handles deleting a history entry.
// Endpoint: DELETE /histories/:bookId
func (h *HistoryHandler) Remove(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	bookID, err := strconv.ParseUint(c.Params("bookId"), 10, 32)
	if err != nil || bookID == 0 {
		return errors.HandleInvalidRequestError(c, "Invalid book ID")
	}

	if err := h.historyService.Remove(c.Context(), models.New(user.UserID, uint32(bookID), 0)); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "History removed successfully",
	})
}

func (h *HistoryHandler) historyFromRequest(c *fiber.Ctx) (models.History, error) {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return models.History{}, errors.HandleUserContextError(c, "Invalid user context")
	}

	var req HistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.History{}, errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if req.Kind != "book" {
		return models.History{}, errors.HandleValidationError(c, "kind must be book")
	}
	if req.BookID == 0 {
		return models.History{}, errors.HandleValidationError(c, "book_id is required")
	}

	return models.New(user.UserID, req.BookID, req.Page), nil
}

func toResponses(results []models.History) []HistoryResponse {
	responses := make([]HistoryResponse, 0, len(results))
	for _, h := range results {
		responses = append(responses, HistoryResponse{
			Kind:      "book",
			BookID:    h.BookID,
			Page:      h.Page,
			CreatedAt: h.CreatedAt,
			UpdatedAt: h.UpdatedAt,
		})
	}
	return responses
}

func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}
