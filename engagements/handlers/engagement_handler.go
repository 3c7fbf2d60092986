// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"

	"github.com/shelfmark/engagement-api/engagements/errors"
	"github.com/shelfmark/engagement-api/engagements/models"
	"github.com/shelfmark/engagement-api/engagements/services"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
	"github.com/shelfmark/engagement-api/internal/types"
)

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// EngagementHandler handles the HTTP surface for one engagement family. The
// same handler type serves /likes and /dislikes, each bound to its own
// service.
type EngagementHandler struct {
	service services.EngagementService
	family  models.Family
}

// NewEngagementHandler creates an EngagementHandler with injected dependencies.
func NewEngagementHandler(service services.EngagementService, family models.Family) *EngagementHandler {
	return &EngagementHandler{
		service: service,
		family:  family,
	}
}

// EngagementRequest is the request body for adding or removing an engagement.
// book_id is used when kind is "book", tag_kind/tag_name when kind is
// "book-tag".
type EngagementRequest struct {
	Kind    string `json:"kind"`
	BookID  uint32 `json:"book_id"`
	TagKind string `json:"tag_kind"`
	TagName string `json:"tag_name"`
}

// EngagementResponse is the wire shape of a single engagement.
type EngagementResponse struct {
	Kind      string    `json:"kind"`
	BookID    uint32    `json:"book_id,omitempty"`
	TagKind   string    `json:"tag_kind,omitempty"`
	TagName   string    `json:"tag_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type listQuery struct {
	Kind    string `schema:"kind"`
	PerPage int    `schema:"per-page"`
	Page    int    `schema:"page"`
	SortBy  string `schema:"sort-by"`
}

// GetMany handles listing the caller's engagements, newest first by default.
// Endpoint: GET /likes?kind=book&per-page=25&page=1&sort-by=created-at-desc
func (h *EngagementHandler) GetMany(c *fiber.Ctx) error {
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

	var kind *models.Kind
	if query.Kind != "" {
		parsed, ok := models.ParseKind(query.Kind)
		if !ok {
			return errors.HandleValidationError(c, "kind must be book or book-tag")
		}
		kind = &parsed
	}

	sortBy, err := paging.ParseSortBy(query.SortBy)
	if err != nil {
		return errors.HandleValidationError(c, err.Error())
	}

	params := paging.Params{PerPage: query.PerPage, Page: query.Page}
	results, err := h.service.GetMany(c.Context(), user.UserID, kind, params, sortBy)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toResponses(results))
}

// GetManyByBookTags handles the internal feed used by notification fan-out.
// Endpoint: GET /likes/book-tags?tags[]=female-glasses&tags[]=male-short+hair
//
// Each tags[] value is "kind-name": the segment before the first dash is the
// tag kind, the remaining dash-separated segments form the tag name with the
// dashes read as spaces ("female-short-hair" means kind "female", name
// "short hair").
func (h *EngagementHandler) GetManyByBookTags(c *fiber.Ctx) error {
	var tags []models.BookTag
	for _, raw := range queryValues(c)["tags[]"] {
		parts := strings.Split(raw, "-")
		if len(parts) < 2 || parts[0] == "" {
			return errors.HandleValidationError(c, "tags[] entries must look like kind-name")
		}
		tags = append(tags, models.BookTag{
			Kind: parts[0],
			Name: strings.Join(parts[1:], " "),
		})
	}

	results, err := h.service.GetManyByBookTags(c.Context(), tags)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(toResponses(results))
}

// Add handles recording a new engagement.
// Endpoint: POST /likes
// Body: {"kind": "book", "book_id": 123456}
func (h *EngagementHandler) Add(c *fiber.Ctx) error {
	engagement, errResp := h.engagementFromRequest(c)
	if errResp != nil {
		return errResp
	}

	if err := h.service.Add(c.Context(), engagement); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": h.family.String() + " recorded successfully",
	})
}

// Remove handles deleting an existing engagement. The row is addressed by
// the same deterministic id the insert produced, so the body mirrors Add.
// Endpoint: DELETE /likes
func (h *EngagementHandler) Remove(c *fiber.Ctx) error {
	engagement, errResp := h.engagementFromRequest(c)
	if errResp != nil {
		return errResp
	}

	if err := h.service.Remove(c.Context(), engagement); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": h.family.String() + " removed successfully",
	})
}

func (h *EngagementHandler) engagementFromRequest(c *fiber.Ctx) (models.Engagement, error) {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return models.Engagement{}, errors.HandleUserContextError(c, "Invalid user context")
	}

	var req EngagementRequest
	if err := c.BodyParser(&req); err != nil {
		return models.Engagement{}, errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	kind, ok := models.ParseKind(req.Kind)
	if !ok {
		return models.Engagement{}, errors.HandleValidationError(c, "kind must be book or book-tag")
	}

	switch kind {
	case models.KindBook:
		if req.BookID == 0 {
			return models.Engagement{}, errors.HandleValidationError(c, "book_id is required")
		}
		return models.NewBook(user.UserID, req.BookID), nil
	default:
		if req.TagKind == "" || req.TagName == "" {
			return models.Engagement{}, errors.HandleValidationError(c, "tag_kind and tag_name are required")
		}
		return models.NewBookTag(user.UserID, req.TagKind, req.TagName), nil
	}
}

func toResponses(results []models.Engagement) []EngagementResponse {
	responses := make([]EngagementResponse, 0, len(results))
	for _, e := range results {
		responses = append(responses, EngagementResponse{
			Kind:      string(e.Kind),
			BookID:    e.BookID,
			TagKind:   e.TagKind,
			TagName:   e.TagName,
			CreatedAt: e.CreatedAt,
		})
	}
	return responses
}

// queryValues adapts fiber's query args to the url.Values the schema decoder
// expects.
func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}
