// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/shelfmark/engagement-api/users/errors"
	"github.com/shelfmark/engagement-api/users/models"
	"github.com/shelfmark/engagement-api/users/repository"
)

// UserService is the use-case layer over accounts.
type UserService interface {
	Create(ctx context.Context, name, email string) (models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewService creates a user service.
func NewService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, name, email string) (models.User, error) {
	user := models.New(name, email)

	saved, err := s.repo.Add(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	if !saved {
		return models.User{}, errors.ErrAlreadyExists
	}
	return user, nil
}

func (s *userService) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		return models.User{}, errors.ErrUserNotFound
	}
	return *user, nil
}
