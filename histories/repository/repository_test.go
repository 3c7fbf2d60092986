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

	"github.com/shelfmark/engagement-api/histories/models"
	"github.com/shelfmark/engagement-api/internal/database/postgres"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
	platformconfig "github.com/shelfmark/engagement-api/internal/platform/config"
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

	repo := NewPostgresHistoryRepository(client)
	require.NoError(t, repo.EnsureSchema(ctx), "Failed to create histories table")

	_, err = client.DB().ExecContext(ctx, `TRUNCATE histories_book`)
	require.NoError(t, err, "Failed to reset histories table")

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

func historyAt(userID uuid.UUID, bookID uint32, page int, at time.Time) models.History {
	h := models.New(userID, bookID, page)
	h.CreatedAt = at
	h.UpdatedAt = at
	return h
}

func TestPostgresHistoryRepository_AddOrUpdate(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	client := setupTestDB(t, userID)
	ctx := context.Background()

	repo := NewPostgresHistoryRepository(client)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AddOrUpdate(ctx, historyAt(userID, 123456, 3, base)))

	t.Run("replay bumps page and updated_at, keeps created_at", func(t *testing.T) {
		require.NoError(t, repo.AddOrUpdate(ctx, historyAt(userID, 123456, 42, base.Add(time.Hour))))

		rows, err := repo.GetMany(ctx, userID, paging.Params{PerPage: 10, Page: 1}, paging.SortCreatedAtDesc)
		require.NoError(t, err)
		require.Len(t, rows, 1, "Upsert must not create a second row")
		require.Equal(t, 42, rows[0].Page)
		require.True(t, rows[0].CreatedAt.Equal(base))
		require.True(t, rows[0].UpdatedAt.Equal(base.Add(time.Hour)))
	})
}

func TestPostgresHistoryRepository_GetMany(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	client := setupTestDB(t, userID)
	ctx := context.Background()

	repo := NewPostgresHistoryRepository(client)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AddOrUpdate(ctx, historyAt(userID, 101, 1, base)))
	require.NoError(t, repo.AddOrUpdate(ctx, historyAt(userID, 102, 5, base.Add(time.Minute))))
	require.NoError(t, repo.AddOrUpdate(ctx, historyAt(userID, 103, 9, base.Add(2*time.Minute))))

	// Re-read the oldest book so created-at and updated-at orders diverge.
	require.NoError(t, repo.AddOrUpdate(ctx, historyAt(userID, 101, 20, base.Add(time.Hour))))

	t.Run("created-at order is the first-read order", func(t *testing.T) {
		rows, err := repo.GetMany(ctx, userID, paging.Params{PerPage: 10, Page: 1}, paging.SortCreatedAtAsc)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, uint32(101), rows[0].BookID)
		require.Equal(t, uint32(103), rows[2].BookID)
	})

	t.Run("updated-at order surfaces the most recent read", func(t *testing.T) {
		rows, err := repo.GetMany(ctx, userID, paging.Params{PerPage: 10, Page: 1}, paging.SortUpdatedAtDesc)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, uint32(101), rows[0].BookID)
		require.Equal(t, 20, rows[0].Page)
	})

	t.Run("pagination windows the history", func(t *testing.T) {
		rows, err := repo.GetMany(ctx, userID, paging.Params{PerPage: 2, Page: 2}, paging.SortCreatedAtAsc)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.Equal(t, uint32(103), rows[0].BookID)
	})
}

func TestPostgresHistoryRepository_GetManyByBookIDs(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	otherID := uuid.Must(uuid.NewV4())
	client := setupTestDB(t, userID, otherID)
	ctx := context.Background()

	repo := NewPostgresHistoryRepository(client)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AddOrUpdate(ctx, historyAt(userID, 101, 1, base)))
	require.NoError(t, repo.AddOrUpdate(ctx, historyAt(userID, 102, 5, base)))
	require.NoError(t, repo.AddOrUpdate(ctx, historyAt(otherID, 103, 9, base)))

	rows, err := repo.GetManyByBookIDs(ctx, userID, []uint32{101, 103, 999})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, uint32(101), rows[0].BookID)

	rows, err = repo.GetManyByBookIDs(ctx, userID, nil)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestPostgresHistoryRepository_Remove(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	client := setupTestDB(t, userID)
	ctx := context.Background()

	repo := NewPostgresHistoryRepository(client)

	history := models.New(userID, 123456, 3)
	require.NoError(t, repo.AddOrUpdate(ctx, history))

	removed, err := repo.Remove(ctx, history)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = repo.Remove(ctx, history)
	require.NoError(t, err)
	require.False(t, removed)
}
