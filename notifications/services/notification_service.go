// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"
	"strings"

	uuid "github.com/gofrs/uuid"

	engagementmodels "github.com/shelfmark/engagement-api/engagements/models"
	engagementrepository "github.com/shelfmark/engagement-api/engagements/repository"
	"github.com/shelfmark/engagement-api/internal/pkg/log"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
	"github.com/shelfmark/engagement-api/internal/push"
	notificationErrors "github.com/shelfmark/engagement-api/notifications/errors"
	"github.com/shelfmark/engagement-api/notifications/models"
	"github.com/shelfmark/engagement-api/notifications/repository"
)

// TokenSource resolves the push tokens for a set of readers. Satisfied by
// the fcmtokens service.
type TokenSource interface {
	GetTokens(ctx context.Context, userIDs []uuid.UUID) ([]string, error)
}

// NotificationService is the use-case layer for notifications: listing a
// reader's feed, ingesting prepared batches, and fanning a new book out to
// everyone who likes its tags.
type NotificationService interface {
	GetMany(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.Notification, error)
	AddMany(ctx context.Context, notifications []models.Notification) error
	FanoutBook(ctx context.Context, bookID uint32, bookTags []engagementmodels.BookTag) (int, error)
}

type notificationService struct {
	repo   repository.NotificationRepository
	likes  engagementrepository.EngagementRepository
	tokens TokenSource
	sender push.Sender
}

// NewService creates a notification service. likes must be the like-family
// repository: dislikes never trigger notifications.
func NewService(repo repository.NotificationRepository, likes engagementrepository.EngagementRepository, tokens TokenSource, sender push.Sender) NotificationService {
	return &notificationService{
		repo:   repo,
		likes:  likes,
		tokens: tokens,
		sender: sender,
	}
}

func (s *notificationService) GetMany(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.Notification, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	// Notification rows are immutable and the feed is chronological, so
	// only the created-at sorts apply.
	if sortBy.IsRandom() || sortBy.IsUpdatedAt() {
		return nil, notificationErrors.ErrUnsupportedSort
	}
	return s.repo.GetMany(ctx, userID, params, sortBy)
}

func (s *notificationService) AddMany(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return notificationErrors.ErrEmptyBatch
	}
	return s.repo.AddMany(ctx, notifications)
}

// FanoutBook finds every reader who likes at least one of the book's tags,
// stores one notification per reader carrying the tags that matched, and
// pushes to their devices. Returns the number of readers notified.
//
// The push leg is best effort: a notification a device never hears about is
// still in the feed, so push failures are logged and swallowed.
func (s *notificationService) FanoutBook(ctx context.Context, bookID uint32, bookTags []engagementmodels.BookTag) (int, error) {
	if len(bookTags) == 0 {
		return 0, nil
	}

	matches, err := s.likes.GetManyByBookTags(ctx, bookTags)
	if err != nil {
		return 0, fmt.Errorf("failed to find tag likers: %w", err)
	}
	if len(matches) == 0 {
		return 0, nil
	}

	// One notification per reader, carrying every tag of theirs that
	// matched. Map for grouping, slice for stable iteration.
	tagsByUser := make(map[uuid.UUID][]engagementmodels.BookTag)
	var userIDs []uuid.UUID
	for _, m := range matches {
		if _, seen := tagsByUser[m.UserID]; !seen {
			userIDs = append(userIDs, m.UserID)
		}
		tagsByUser[m.UserID] = append(tagsByUser[m.UserID], m.Tag())
	}

	notifications := make([]models.Notification, len(userIDs))
	for i, userID := range userIDs {
		notifications[i] = models.New(userID, bookID, tagsByUser[userID])
	}

	if err := s.repo.AddMany(ctx, notifications); err != nil {
		return 0, err
	}

	s.pushToReaders(ctx, bookID, userIDs, tagsByUser)

	return len(notifications), nil
}

func (s *notificationService) pushToReaders(ctx context.Context, bookID uint32, userIDs []uuid.UUID, tagsByUser map[uuid.UUID][]engagementmodels.BookTag) {
	for _, userID := range userIDs {
		tokens, err := s.tokens.GetTokens(ctx, []uuid.UUID{userID})
		if err != nil {
			log.Error("fcm token lookup failed for %s: %v", userID, err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		names := make([]string, len(tagsByUser[userID]))
		for i, tag := range tagsByUser[userID] {
			names[i] = tag.Name
		}

		message := push.Message{
			Title: "New book for you",
			Body:  fmt.Sprintf("Book %d matches tags you like: %s", bookID, strings.Join(names, ", ")),
		}
		if err := s.sender.Send(ctx, tokens, message); err != nil {
			log.Error("push delivery failed for %s: %v", userID, err)
		}
	}
}
