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

	"github.com/shelfmark/engagement-api/fcmtokens/models"
	"github.com/shelfmark/engagement-api/internal/database/postgres"
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

	repo := NewPostgresFCMTokenRepository(client)
	require.NoError(t, repo.EnsureSchema(ctx), "Failed to create fcm tokens table")

	_, err = client.DB().ExecContext(ctx, `TRUNCATE fcm_tokens`)
	require.NoError(t, err, "Failed to reset fcm tokens table")

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

func TestPostgresFCMTokenRepository(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	otherID := uuid.Must(uuid.NewV4())
	client := setupTestDB(t, userID, otherID)
	ctx := context.Background()

	repo := NewPostgresFCMTokenRepository(client)

	phone := uuid.Must(uuid.NewV4())
	tablet := uuid.Must(uuid.NewV4())

	require.NoError(t, repo.AddOrUpdate(ctx, models.New(phone, userID, "token-phone-1")))
	require.NoError(t, repo.AddOrUpdate(ctx, models.New(tablet, userID, "token-tablet")))
	require.NoError(t, repo.AddOrUpdate(ctx, models.New(uuid.Must(uuid.NewV4()), otherID, "token-other")))

	t.Run("tokens are collected per user", func(t *testing.T) {
		tokens, err := repo.GetTokens(ctx, []uuid.UUID{userID})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"token-phone-1", "token-tablet"}, tokens)
	})

	t.Run("re-registration replaces the device token", func(t *testing.T) {
		require.NoError(t, repo.AddOrUpdate(ctx, models.New(phone, userID, "token-phone-2")))

		tokens, err := repo.GetTokens(ctx, []uuid.UUID{userID})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"token-phone-2", "token-tablet"}, tokens)
	})

	t.Run("stale tokens drop out of the window", func(t *testing.T) {
		stale := models.New(tablet, userID, "token-tablet")
		stale.UpdatedAt = time.Now().UTC().Add(-models.TokenFreshness - time.Hour)
		require.NoError(t, repo.AddOrUpdate(ctx, stale))

		tokens, err := repo.GetTokens(ctx, []uuid.UUID{userID})
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"token-phone-2"}, tokens)
	})

	t.Run("no users means no tokens", func(t *testing.T) {
		tokens, err := repo.GetTokens(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, tokens)
	})
}
