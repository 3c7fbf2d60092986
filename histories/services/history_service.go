// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"

	historyErrors "github.com/shelfmark/engagement-api/histories/errors"
	"github.com/shelfmark/engagement-api/histories/models"
	"github.com/shelfmark/engagement-api/histories/repository"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
)

// HistoryService is the use-case layer over reading histories.
type HistoryService interface {
	GetMany(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.History, error)
	GetManyByBookIDs(ctx context.Context, userID uuid.UUID, bookIDs []uint32) ([]models.History, error)
	AddOrUpdate(ctx context.Context, history models.History) error
	Remove(ctx context.Context, history models.History) error
}

type historyService struct {
	repo repository.HistoryRepository
}

// NewService creates a history service.
func NewService(repo repository.HistoryRepository) HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) GetMany(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.History, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.GetMany(ctx, userID, params, sortBy)
}

func (s *historyService) GetManyByBookIDs(ctx context.Context, userID uuid.UUID, bookIDs []uint32) ([]models.History, error) {
	return s.repo.GetManyByBookIDs(ctx, userID, bookIDs)
}

func (s *historyService) AddOrUpdate(ctx context.Context, history models.History) error {
	if history.Page < 0 {
		return historyErrors.ErrInvalidPage
	}
	return s.repo.AddOrUpdate(ctx, history)
}

func (s *historyService) Remove(ctx context.Context, history models.History) error {
	removed, err := s.repo.Remove(ctx, history)
	if err != nil {
		return err
	}
	if !removed {
		return historyErrors.ErrHistoryNotFound
	}
	return nil
}
