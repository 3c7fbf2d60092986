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

	"github.com/shelfmark/engagement-api/histories/models"
	"github.com/shelfmark/engagement-api/internal/database/postgres"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
)

const historiesBookTable = "histories_book"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// postgresHistoryRepository implements HistoryRepository over the
// histories_book table.
type postgresHistoryRepository struct {
	client *postgres.Client
}

// NewPostgresHistoryRepository creates a new PostgreSQL-backed history
// repository.
func NewPostgresHistoryRepository(client *postgres.Client) HistoryRepository {
	return &postgresHistoryRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresHistoryRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

type historyRow struct {
	ID        uuid.UUID `db:"id"`
	BookID    int64     `db:"book_id"`
	UserID    uuid.UUID `db:"user_id"`
	Page      int       `db:"page"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row historyRow) toHistory() models.History {
	return models.History{
		BookID:    uint32(row.BookID),
		UserID:    row.UserID,
		Page:      row.Page,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

// GetMany returns one windowed, sorted page of the reader's history.
func (r *postgresHistoryRepository) GetMany(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.History, error) {
	limit, offset := params.LimitOffset()

	query, args, err := psql.
		Select("id", "book_id", "user_id", "page", "created_at", "updated_at").
		From(historiesBookTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy(sortBy.OrderBy("created_at")).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build histories query: %w", err)
	}

	var rows []historyRow
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get histories: %w", err)
	}

	result := make([]models.History, len(rows))
	for i, row := range rows {
		result[i] = row.toHistory()
	}
	return result, nil
}

func (r *postgresHistoryRepository) GetManyByBookIDs(ctx context.Context, userID uuid.UUID, bookIDs []uint32) ([]models.History, error) {
	if len(bookIDs) == 0 {
		return []models.History{}, nil
	}

	ids := make([]int64, len(bookIDs))
	for i, id := range bookIDs {
		ids[i] = int64(id)
	}

	query, args, err := psql.
		Select("id", "book_id", "user_id", "page", "created_at", "updated_at").
		From(historiesBookTable).
		Where(sq.Eq{"user_id": userID, "book_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build histories-by-books query: %w", err)
	}

	var rows []historyRow
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get histories by book ids: %w", err)
	}

	result := make([]models.History, len(rows))
	for i, row := range rows {
		result[i] = row.toHistory()
	}
	return result, nil
}

// AddOrUpdate upserts on the deterministic id: a fresh row keeps both
// timestamps, a replay keeps the original created_at and moves page and
// updated_at forward.
func (r *postgresHistoryRepository) AddOrUpdate(ctx context.Context, history models.History) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, book_id, user_id, page, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id)
			DO UPDATE
				SET page = EXCLUDED.page, updated_at = EXCLUDED.updated_at
	`, historiesBookTable)

	args := []interface{}{
		history.DeterministicID(),
		int64(history.BookID),
		history.UserID,
		history.Page,
		history.UpdatedAt,
	}

	if _, err := r.getExecutor(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert history: %w", err)
	}
	return nil
}

func (r *postgresHistoryRepository) Remove(ctx context.Context, history models.History) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, historiesBookTable)

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, history.DeterministicID())
	if err != nil {
		return false, fmt.Errorf("failed to delete history: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// EnsureSchema creates the history table and indexes if absent.
func (r *postgresHistoryRepository) EnsureSchema(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id UUID PRIMARY KEY,
			book_id INTEGER NOT NULL,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			page INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%[1]s_user_id ON %[1]s(user_id);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_book_id ON %[1]s(book_id);
	`, historiesBookTable)

	if _, err := r.client.DB().ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create histories table: %w", err)
	}
	return nil
}
