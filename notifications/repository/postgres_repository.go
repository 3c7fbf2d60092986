// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"

	engagementmodels "github.com/shelfmark/engagement-api/engagements/models"
	"github.com/shelfmark/engagement-api/internal/database/postgres"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
	"github.com/shelfmark/engagement-api/notifications/models"
)

// Parent/child layout: one row per delivered book, one child row per tag
// reason. Children hang off the parent with ON DELETE CASCADE.
const (
	notificationsBookTable    = "notifications_book"
	notificationsBookTagTable = "notifications_book_tag"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// postgresNotificationRepository implements NotificationRepository over the
// parent/child notification tables.
type postgresNotificationRepository struct {
	client *postgres.Client
}

// NewPostgresNotificationRepository creates a new PostgreSQL-backed
// notification repository.
func NewPostgresNotificationRepository(client *postgres.Client) NotificationRepository {
	return &postgresNotificationRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresNotificationRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

type notificationRow struct {
	ID        uuid.UUID `db:"id"`
	BookID    int64     `db:"book_id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type notificationTagRow struct {
	ID                 uuid.UUID `db:"id"`
	NotificationBookID uuid.UUID `db:"notification_book_id"`
	TagKind            string    `db:"tag_kind"`
	TagName            string    `db:"tag_name"`
}

// GetMany fetches one page of parent rows, then stitches the tag reasons on
// with a single IN query instead of one query per notification.
func (r *postgresNotificationRepository) GetMany(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.Notification, error) {
	limit, offset := params.LimitOffset()

	query, args, err := psql.
		Select("id", "book_id", "user_id", "created_at").
		From(notificationsBookTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy(sortBy.OrderBy("created_at")).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notifications query: %w", err)
	}

	executor := r.getExecutor(ctx)

	var parents []notificationRow
	if err := sqlx.SelectContext(ctx, executor, &parents, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	if len(parents) == 0 {
		return []models.Notification{}, nil
	}

	parentIDs := make([]uuid.UUID, len(parents))
	for i, p := range parents {
		parentIDs[i] = p.ID
	}

	query, args, err = psql.
		Select("id", "notification_book_id", "tag_kind", "tag_name").
		From(notificationsBookTagTable).
		Where(sq.Eq{"notification_book_id": parentIDs}).
		OrderBy("tag_kind", "tag_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notification tags query: %w", err)
	}

	var tagRows []notificationTagRow
	if err := sqlx.SelectContext(ctx, executor, &tagRows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get notification tags: %w", err)
	}

	tagsByParent := make(map[uuid.UUID][]engagementmodels.BookTag, len(parents))
	for _, row := range tagRows {
		tagsByParent[row.NotificationBookID] = append(tagsByParent[row.NotificationBookID], engagementmodels.BookTag{
			Kind: row.TagKind,
			Name: row.TagName,
		})
	}

	result := make([]models.Notification, len(parents))
	for i, p := range parents {
		result[i] = models.Notification{
			BookID:    uint32(p.BookID),
			UserID:    p.UserID,
			BookTags:  tagsByParent[p.ID],
			CreatedAt: p.CreatedAt,
		}
	}
	return result, nil
}

// AddMany writes the whole batch in one transaction: all parent rows in a
// single multi-row INSERT, then all child rows in another. Both carry
// ON CONFLICT (id) DO NOTHING, and the ids are deterministic, so replaying
// a batch that was already delivered changes nothing.
func (r *postgresNotificationRepository) AddMany(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	parents := psql.
		Insert(notificationsBookTable).
		Columns("id", "book_id", "user_id", "created_at").
		Suffix("ON CONFLICT (id) DO NOTHING")
	children := psql.
		Insert(notificationsBookTagTable).
		Columns("id", "notification_book_id", "tag_kind", "tag_name").
		Suffix("ON CONFLICT (id) DO NOTHING")

	haveChildren := false
	for _, n := range notifications {
		id := n.DeterministicID()
		parents = parents.Values(id, int64(n.BookID), n.UserID, n.CreatedAt)

		for _, tag := range n.BookTags {
			children = children.Values(models.TagRowID(id, tag.Kind, tag.Name), id, tag.Kind, tag.Name)
			haveChildren = true
		}
	}

	tx, err := r.client.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := parents.ToSql()
	if err != nil {
		return fmt.Errorf("build notifications insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert notifications: %w", err)
	}

	if haveChildren {
		query, args, err = children.ToSql()
		if err != nil {
			return fmt.Errorf("build notification tags insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert notification tags: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notification batch: %w", err)
	}
	return nil
}

// EnsureSchema creates the notification tables and indexes if absent.
func (r *postgresNotificationRepository) EnsureSchema(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id UUID PRIMARY KEY,
			book_id INTEGER NOT NULL,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%[1]s_user_id ON %[1]s(user_id);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_book_id ON %[1]s(book_id);

		CREATE TABLE IF NOT EXISTS %[2]s (
			id UUID PRIMARY KEY,
			notification_book_id UUID NOT NULL REFERENCES %[1]s(id) ON DELETE CASCADE,
			tag_kind TEXT NOT NULL,
			tag_name TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%[2]s_parent ON %[2]s(notification_book_id);
	`, notificationsBookTable, notificationsBookTagTable)

	if _, err := r.client.DB().ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create notification tables: %w", err)
	}
	return nil
}
