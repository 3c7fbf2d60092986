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

	"github.com/shelfmark/engagement-api/engagements/models"
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

// setupTestDB connects to the test database, resets the likes tables, and
// seeds the users the FK constraints need.
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

	repo := NewPostgresLikeRepository(client)
	require.NoError(t, repo.EnsureSchema(ctx), "Failed to create likes tables")

	_, err = client.DB().ExecContext(ctx, `TRUNCATE likes_book, likes_book_tag`)
	require.NoError(t, err, "Failed to reset likes tables")

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

// bookAt builds a book engagement with an explicit timestamp so ordering
// assertions do not depend on insert timing.
func bookAt(userID uuid.UUID, bookID uint32, at time.Time) models.Engagement {
	e := models.NewBook(userID, bookID)
	e.CreatedAt = at
	return e
}

func bookTagAt(userID uuid.UUID, kind, name string, at time.Time) models.Engagement {
	e := models.NewBookTag(userID, kind, name)
	e.CreatedAt = at
	return e
}

func TestPostgresEngagementRepository_AddRemove(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	client := setupTestDB(t, userID)
	ctx := context.Background()

	likes := NewPostgresLikeRepository(client)
	dislikes := NewPostgresDislikeRepository(client)

	t.Run("first add succeeds, repeat is a soft no-op", func(t *testing.T) {
		engagement := models.NewBook(userID, 123456)

		saved, err := likes.Add(ctx, engagement)
		require.NoError(t, err)
		require.True(t, saved)

		saved, err = likes.Add(ctx, engagement)
		require.NoError(t, err)
		require.False(t, saved, "Second add of the same engagement should report false")
	})

	t.Run("dislike of a liked target collides on the deterministic id", func(t *testing.T) {
		// Like and dislike share the natural key, so the row that got
		// there first wins until it is removed.
		saved, err := dislikes.Add(ctx, models.NewBook(userID, 123456))
		require.NoError(t, err)
		require.False(t, saved)
	})

	t.Run("remove only touches its own family", func(t *testing.T) {
		removed, err := dislikes.Remove(ctx, models.NewBook(userID, 123456))
		require.NoError(t, err)
		require.False(t, removed, "Dislike removal must not delete the like row")

		removed, err = likes.Remove(ctx, models.NewBook(userID, 123456))
		require.NoError(t, err)
		require.True(t, removed)

		// With the like gone the dislike can take the slot.
		saved, err := dislikes.Add(ctx, models.NewBook(userID, 123456))
		require.NoError(t, err)
		require.True(t, saved)
	})

	t.Run("remove of an absent row reports false", func(t *testing.T) {
		removed, err := likes.Remove(ctx, models.NewBookTag(userID, "female", "glasses"))
		require.NoError(t, err)
		require.False(t, removed)
	})
}

func TestPostgresEngagementRepository_GetMany(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	otherID := uuid.Must(uuid.NewV4())
	client := setupTestDB(t, userID, otherID)
	ctx := context.Background()

	likes := NewPostgresLikeRepository(client)
	dislikes := NewPostgresDislikeRepository(client)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seeded := []models.Engagement{
		bookAt(userID, 101, base),
		bookTagAt(userID, "female", "glasses", base.Add(1*time.Minute)),
		bookAt(userID, 102, base.Add(2*time.Minute)),
		bookTagAt(userID, "male", "short hair", base.Add(3*time.Minute)),
		bookAt(userID, 103, base.Add(4*time.Minute)),
	}
	for _, e := range seeded {
		saved, err := likes.Add(ctx, e)
		require.NoError(t, err)
		require.True(t, saved)
	}

	// Noise that must never leak into userID's feed.
	_, err := likes.Add(ctx, bookAt(otherID, 101, base))
	require.NoError(t, err)
	_, err = dislikes.Add(ctx, bookAt(userID, 999, base))
	require.NoError(t, err)

	t.Run("mixed feed interleaves kinds newest first", func(t *testing.T) {
		page1, err := likes.GetMany(ctx, userID, nil, paging.Params{PerPage: 3, Page: 1}, paging.SortCreatedAtDesc)
		require.NoError(t, err)
		require.Len(t, page1, 3)
		require.Equal(t, models.KindBook, page1[0].Kind)
		require.Equal(t, uint32(103), page1[0].BookID)
		require.Equal(t, models.KindBookTag, page1[1].Kind)
		require.Equal(t, "male", page1[1].TagKind)
		require.Equal(t, "short hair", page1[1].TagName)
		require.Equal(t, uint32(102), page1[2].BookID)

		page2, err := likes.GetMany(ctx, userID, nil, paging.Params{PerPage: 3, Page: 2}, paging.SortCreatedAtDesc)
		require.NoError(t, err)
		require.Len(t, page2, 2)
		require.Equal(t, "glasses", page2[0].TagName)
		require.Equal(t, uint32(101), page2[1].BookID)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		page3, err := likes.GetMany(ctx, userID, nil, paging.Params{PerPage: 3, Page: 3}, paging.SortCreatedAtDesc)
		require.NoError(t, err)
		require.Empty(t, page3)
	})

	t.Run("kind filter narrows to one table", func(t *testing.T) {
		kind := models.KindBook
		books, err := likes.GetMany(ctx, userID, &kind, paging.Params{PerPage: 10, Page: 1}, paging.SortCreatedAtAsc)
		require.NoError(t, err)
		require.Len(t, books, 3)
		require.Equal(t, uint32(101), books[0].BookID)
		require.Equal(t, uint32(103), books[2].BookID)

		kind = models.KindBookTag
		tags, err := likes.GetMany(ctx, userID, &kind, paging.Params{PerPage: 10, Page: 1}, paging.SortCreatedAtAsc)
		require.NoError(t, err)
		require.Len(t, tags, 2)
		require.Equal(t, "glasses", tags[0].TagName)
	})

	t.Run("random sort returns the same set in some order", func(t *testing.T) {
		randomized, err := likes.GetMany(ctx, userID, nil, paging.Params{PerPage: 10, Page: 1}, paging.SortRandom)
		require.NoError(t, err)
		require.Len(t, randomized, len(seeded))

		ids := make(map[uuid.UUID]bool, len(randomized))
		for _, e := range randomized {
			ids[e.DeterministicID()] = true
		}
		for _, e := range seeded {
			require.True(t, ids[e.DeterministicID()], "Randomized feed lost an engagement")
		}
	})
}

func TestPostgresEngagementRepository_GetManyByBookTags(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	otherID := uuid.Must(uuid.NewV4())
	client := setupTestDB(t, userID, otherID)
	ctx := context.Background()

	likes := NewPostgresLikeRepository(client)
	dislikes := NewPostgresDislikeRepository(client)

	_, err := likes.Add(ctx, models.NewBookTag(userID, "female", "glasses"))
	require.NoError(t, err)
	_, err = likes.Add(ctx, models.NewBookTag(otherID, "female", "glasses"))
	require.NoError(t, err)
	_, err = likes.Add(ctx, models.NewBookTag(userID, "male", "short hair"))
	require.NoError(t, err)
	_, err = likes.Add(ctx, models.NewBookTag(userID, "female", "elf"))
	require.NoError(t, err)
	_, err = dislikes.Add(ctx, models.NewBookTag(otherID, "female", "elf"))
	require.NoError(t, err)

	t.Run("matches every user who likes any of the tags", func(t *testing.T) {
		results, err := likes.GetManyByBookTags(ctx, []models.BookTag{
			{Kind: "female", Name: "glasses"},
			{Kind: "male", Name: "short hair"},
		})
		require.NoError(t, err)
		require.Len(t, results, 3)

		byUser := make(map[uuid.UUID]int)
		for _, e := range results {
			require.Equal(t, models.KindBookTag, e.Kind)
			byUser[e.UserID]++
		}
		require.Equal(t, 2, byUser[userID])
		require.Equal(t, 1, byUser[otherID])
	})

	t.Run("dislikes never feed the like query", func(t *testing.T) {
		results, err := likes.GetManyByBookTags(ctx, []models.BookTag{{Kind: "female", Name: "elf"}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, userID, results[0].UserID)
	})

	t.Run("no tags means no matches", func(t *testing.T) {
		results, err := likes.GetManyByBookTags(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, results)
	})
}
