// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	engagementmodels "github.com/shelfmark/engagement-api/engagements/models"
	"github.com/shelfmark/engagement-api/internal/database/postgres"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
	"github.com/shelfmark/engagement-api/notifications/models"
)

func testEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTestDB(t *testing.T, userIDs ...uuid.UUID) *postgres.Client {
	t.Helper()

	if os.Getenv("RUN_DB_TESTS") != "1" {
		t.Skip("set RUN_DB_TESTS=1 to run database tests")
	}

	port, err := strconv.Atoi(testEnv("TEST_PG_PORT", "5432"))
	require.NoError(t, err)

	ctx := context.Background()
	client, err := postgres.NewClient(ctx, &platformconfig.PostgreSQLConfig{
		Host:     testEnv("TEST_PG_HOST", "localhost"),
		Port:     port,
		Username: testEnv("TEST_PG_USER", "postgres"),
		Password: testEnv("TEST_PG_PASSWORD", "postgres"),
		Database: testEnv("TEST_PG_DATABASE", "engagement_test"),
		SSLMode:  "disable",
	})
	require.NoError(t, err, "Failed to create postgres client")
	t.Cleanup(func() { client.Close() })

	usersSQL := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			role SMALLINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`
	_, err = client.DB().ExecContext(ctx, usersSQL)
	require.NoError(t, err, "Failed to create users table")

	repo := NewPostgresNotificationRepository(client)
	require.NoError(t, repo.EnsureSchema(ctx), "Failed to create notification tables")

	_, err = client.DB().ExecContext(ctx, `TRUNCATE notifications_book, notifications_book_tag`)
	require.NoError(t, err, "Failed to reset notification tables")

	for _, id := range userIDs {
		_, err = client.DB().ExecContext(ctx, `
			INSERT INTO users (id, name, email, role, created_at, updated_at)
			VALUES ($1, 'test reader', 'reader@example.com', 0, NOW(), NOW())
			ON CONFLICT (id) DO NOTHING
		`, id)
		require.NoError(t, err, "Failed to seed test user")
	}

	return client
}

func notificationAt(userID uuid.UUID, bookID uint32, tags []engagementmodels.BookTag, at time.Time) models.Notification {
	n := models.New(userID, bookID, tags)
	n.CreatedAt = at
	return n
}

func TestPostgresNotificationRepository_AddManyAndGetMany(t *testing.T) {
	readerA := uuid.Must(uuid.NewV4())
	readerB := uuid.Must(uuid.NewV4())
	client := setupTestDB(t, readerA, readerB)
	ctx := context.Background()

	repo := NewPostgresNotificationRepository(client)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	batch := []models.Notification{
		notificationAt(readerA, 101, []engagementmodels.BookTag{
			{Kind: "female", Name: "glasses"},
			{Kind: "male", Name: "short hair"},
		}, base),
		notificationAt(readerB, 101, []engagementmodels.BookTag{
			{Kind: "female", Name: "glasses"},
		}, base),
		notificationAt(readerA, 102, nil, base.Add(time.Minute)),
	}
	require.NoError(t, repo.AddMany(ctx, batch))

	t.Run("feed carries the tag reasons", func(t *testing.T) {
		feed, err := repo.GetMany(ctx, readerA, paging.Params{PerPage: 10, Page: 1}, paging.SortCreatedAtDesc)
		require.NoError(t, err)
		require.Len(t, feed, 2)

		require.Equal(t, uint32(102), feed[0].BookID)
		require.Empty(t, feed[0].BookTags)

		require.Equal(t, uint32(101), feed[1].BookID)
		require.Len(t, feed[1].BookTags, 2)
		require.Equal(t, "glasses", feed[1].BookTags[0].Name)
		require.Equal(t, "short hair", feed[1].BookTags[1].Name)
	})

	t.Run("feeds are per reader", func(t *testing.T) {
		feed, err := repo.GetMany(ctx, readerB, paging.Params{PerPage: 10, Page: 1}, paging.SortCreatedAtDesc)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		require.Len(t, feed[0].BookTags, 1)
	})

	t.Run("re-delivery of the same batch is a no-op", func(t *testing.T) {
		require.NoError(t, repo.AddMany(ctx, batch))

		feed, err := repo.GetMany(ctx, readerA, paging.Params{PerPage: 10, Page: 1}, paging.SortCreatedAtDesc)
		require.NoError(t, err)
		require.Len(t, feed, 2)
		require.Len(t, feed[1].BookTags, 2, "Tag reasons must not duplicate on replay")
	})

	t.Run("pagination windows the feed", func(t *testing.T) {
		page1, err := repo.GetMany(ctx, readerA, paging.Params{PerPage: 1, Page: 1}, paging.SortCreatedAtDesc)
		require.NoError(t, err)
		require.Len(t, page1, 1)
		require.Equal(t, uint32(102), page1[0].BookID)

		page2, err := repo.GetMany(ctx, readerA, paging.Params{PerPage: 1, Page: 2}, paging.SortCreatedAtDesc)
		require.NoError(t, err)
		require.Len(t, page2, 1)
		require.Equal(t, uint32(101), page2[0].BookID)

		page3, err := repo.GetMany(ctx, readerA, paging.Params{PerPage: 1, Page: 3}, paging.SortCreatedAtDesc)
		require.NoError(t, err)
		require.Empty(t, page3)
	})

	t.Run("empty batch is accepted", func(t *testing.T) {
		require.NoError(t, repo.AddMany(ctx, nil))
	})
}
