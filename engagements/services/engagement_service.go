// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"

	uuid "github.com/gofrs/uuid"

	engagementErrors "github.com/shelfmark/engagement-api/engagements/errors"
	"github.com/shelfmark/engagement-api/engagements/models"
	"github.com/shelfmark/engagement-api/engagements/repository"
	"github.com/shelfmark/engagement-api/internal/catalog"
	"github.com/shelfmark/engagement-api/internal/pkg/log"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
)

// EngagementService is the use-case layer over one engagement family. It
// validates pagination, consults the catalog before accepting a new
// engagement, and translates the repository's soft booleans into sentinel
// errors for the transport layer.
type EngagementService interface {
	GetMany(ctx context.Context, userID uuid.UUID, kind *models.Kind, params paging.Params, sortBy paging.SortBy) ([]models.Engagement, error)
	GetManyByBookTags(ctx context.Context, tags []models.BookTag) ([]models.Engagement, error)
	Add(ctx context.Context, engagement models.Engagement) error
	Remove(ctx context.Context, engagement models.Engagement) error
}

type engagementService struct {
	repo    repository.EngagementRepository
	catalog catalog.Client
}

// NewService creates an engagement service over the given family repository.
func NewService(repo repository.EngagementRepository, catalogClient catalog.Client) EngagementService {
	return &engagementService{
		repo:    repo,
		catalog: catalogClient,
	}
}

func (s *engagementService) GetMany(ctx context.Context, userID uuid.UUID, kind *models.Kind, params paging.Params, sortBy paging.SortBy) ([]models.Engagement, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	// Engagement rows are immutable, so there is no updated-at to sort on.
	if sortBy.IsUpdatedAt() {
		return nil, engagementErrors.ErrUnsupportedSort
	}
	return s.repo.GetMany(ctx, userID, kind, params, sortBy)
}

func (s *engagementService) GetManyByBookTags(ctx context.Context, tags []models.BookTag) ([]models.Engagement, error) {
	return s.repo.GetManyByBookTags(ctx, tags)
}

// Add verifies the target exists in the catalog, then inserts. The
// repository trusts this ordering: it performs no referential check itself.
func (s *engagementService) Add(ctx context.Context, engagement models.Engagement) error {
	switch engagement.Kind {
	case models.KindBook:
		has, err := s.catalog.HasBook(ctx, engagement.BookID)
		if err != nil {
			return fmt.Errorf("catalog lookup failed: %w", err)
		}
		log.Debug("has_book(%d) = %t", engagement.BookID, has)
		if !has {
			return engagementErrors.ErrBookNotFound
		}

	case models.KindBookTag:
		has, err := s.catalog.HasBookTag(ctx, engagement.TagKind, engagement.TagName)
		if err != nil {
			return fmt.Errorf("catalog lookup failed: %w", err)
		}
		log.Debug("has_book_tag(%s, %s) = %t", engagement.TagKind, engagement.TagName, has)
		if !has {
			return engagementErrors.ErrBookTagNotFound
		}

	default:
		return engagementErrors.ErrInvalidKind
	}

	saved, err := s.repo.Add(ctx, engagement)
	if err != nil {
		return err
	}
	if !saved {
		return engagementErrors.ErrAlreadyExists
	}
	return nil
}

func (s *engagementService) Remove(ctx context.Context, engagement models.Engagement) error {
	if engagement.Kind != models.KindBook && engagement.Kind != models.KindBookTag {
		return engagementErrors.ErrInvalidKind
	}

	removed, err := s.repo.Remove(ctx, engagement)
	if err != nil {
		return err
	}
	if !removed {
		return engagementErrors.ErrEngagementNotFound
	}
	return nil
}
