// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/shelfmark/engagement-api/engagements/models"
	"github.com/shelfmark/engagement-api/internal/database/postgres"
	"github.com/shelfmark/engagement-api/internal/pkg/paging"
)

// Unified table layout: likes and dislikes share these tables, separated by
// the is_dislike column. The earlier table-per-family generation maps onto
// the same queries by swapping these names, which is why they live in one
// place and nowhere else.
const (
	likesBookTable    = "likes_book"
	likesBookTagTable = "likes_book_tag"
)

// uniqueViolation is the PostgreSQL error code for a uniqueness-constraint
// conflict, the expected outcome of a duplicate Add.
const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// postgresEngagementRepository implements EngagementRepository using raw SQL
// queries over the unified likes tables, bound to one family.
type postgresEngagementRepository struct {
	client *postgres.Client
	family models.Family
}

// NewPostgresLikeRepository creates the like-family repository.
func NewPostgresLikeRepository(client *postgres.Client) EngagementRepository {
	return &postgresEngagementRepository{client: client, family: models.FamilyLike}
}

// NewPostgresDislikeRepository creates the dislike-family repository over
// the same tables.
func NewPostgresDislikeRepository(client *postgres.Client) EngagementRepository {
	return &postgresEngagementRepository{client: client, family: models.FamilyDislike}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresEngagementRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

type bookRow struct {
	ID        uuid.UUID `db:"id"`
	BookID    int64     `db:"book_id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type bookTagRow struct {
	ID        uuid.UUID `db:"id"`
	TagKind   string    `db:"tag_kind"`
	TagName   string    `db:"tag_name"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// mixedRow is one row of the UNION query. Each branch projects an explicit
// kind literal, so decoding is a direct tag dispatch rather than an
// inference from which columns happen to be NULL; adding a third kind later
// only adds a branch and a case.
type mixedRow struct {
	Kind      string         `db:"kind"`
	ID        uuid.UUID      `db:"id"`
	UserID    uuid.UUID      `db:"user_id"`
	BookID    sql.NullInt64  `db:"book_id"`
	TagKind   sql.NullString `db:"tag_kind"`
	TagName   sql.NullString `db:"tag_name"`
	CreatedAt time.Time      `db:"created_at"`
}

func (m mixedRow) toEngagement() (models.Engagement, error) {
	switch models.Kind(m.Kind) {
	case models.KindBook:
		return models.Engagement{
			Kind:      models.KindBook,
			BookID:    uint32(m.BookID.Int64),
			UserID:    m.UserID,
			CreatedAt: m.CreatedAt,
		}, nil
	case models.KindBookTag:
		return models.Engagement{
			Kind:      models.KindBookTag,
			TagKind:   m.TagKind.String,
			TagName:   m.TagName.String,
			UserID:    m.UserID,
			CreatedAt: m.CreatedAt,
		}, nil
	default:
		return models.Engagement{}, fmt.Errorf("unknown engagement kind %q", m.Kind)
	}
}

// GetMany returns one windowed, sorted page of the user's engagements.
func (r *postgresEngagementRepository) GetMany(ctx context.Context, userID uuid.UUID, kind *models.Kind, params paging.Params, sortBy paging.SortBy) ([]models.Engagement, error) {
	if kind == nil {
		return r.getManyMixed(ctx, userID, params, sortBy)
	}

	switch *kind {
	case models.KindBook:
		return r.getManyBook(ctx, userID, params, sortBy)
	case models.KindBookTag:
		return r.getManyBookTag(ctx, userID, params, sortBy)
	default:
		return nil, fmt.Errorf("unknown engagement kind %q", *kind)
	}
}

func (r *postgresEngagementRepository) getManyBook(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.Engagement, error) {
	limit, offset := params.LimitOffset()

	query, args, err := psql.
		Select("id", "book_id", "user_id", "created_at").
		From(likesBookTable).
		Where(sq.Eq{"user_id": userID, "is_dislike": r.family.IsDislike()}).
		OrderBy(sortBy.OrderBy("created_at")).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s book query: %w", r.family, err)
	}

	var rows []bookRow
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get %s books: %w", r.family, err)
	}

	result := make([]models.Engagement, len(rows))
	for i, row := range rows {
		result[i] = models.Engagement{
			Kind:      models.KindBook,
			BookID:    uint32(row.BookID),
			UserID:    row.UserID,
			CreatedAt: row.CreatedAt,
		}
	}
	return result, nil
}

func (r *postgresEngagementRepository) getManyBookTag(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.Engagement, error) {
	limit, offset := params.LimitOffset()

	query, args, err := psql.
		Select("id", "tag_kind", "tag_name", "user_id", "created_at").
		From(likesBookTagTable).
		Where(sq.Eq{"user_id": userID, "is_dislike": r.family.IsDislike()}).
		OrderBy(sortBy.OrderBy("created_at")).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s book-tag query: %w", r.family, err)
	}

	var rows []bookTagRow
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get %s book tags: %w", r.family, err)
	}

	result := make([]models.Engagement, len(rows))
	for i, row := range rows {
		result[i] = models.Engagement{
			Kind:      models.KindBookTag,
			TagKind:   row.TagKind,
			TagName:   row.TagName,
			UserID:    row.UserID,
			CreatedAt: row.CreatedAt,
		}
	}
	return result, nil
}

// getManyMixed combines both kind tables into one ordered, paginated result
// at the SQL level. Pagination has to apply to the combined set, so the two
// SELECT branches are merged with UNION ALL under a single ORDER BY and
// LIMIT/OFFSET; each branch fills the columns it lacks with typed NULLs.
func (r *postgresEngagementRepository) getManyMixed(ctx context.Context, userID uuid.UUID, params paging.Params, sortBy paging.SortBy) ([]models.Engagement, error) {
	limit, offset := params.LimitOffset()

	query := fmt.Sprintf(`
		SELECT kind, id, user_id, book_id, tag_kind, tag_name, created_at FROM (
			SELECT '%s' AS kind, id, user_id, book_id,
			       NULL::text AS tag_kind, NULL::text AS tag_name, created_at
				FROM %s
				WHERE user_id = $1 AND is_dislike = $2
			UNION ALL
			SELECT '%s' AS kind, id, user_id, NULL::integer AS book_id,
			       tag_kind, tag_name, created_at
				FROM %s
				WHERE user_id = $1 AND is_dislike = $2
		) AS engagements
		ORDER BY %s
		LIMIT $3 OFFSET $4
	`, models.KindBook, likesBookTable, models.KindBookTag, likesBookTagTable, sortBy.OrderBy("created_at"))

	var rows []mixedRow
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &rows, query, userID, r.family.IsDislike(), limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get mixed %ss: %w", r.family, err)
	}

	result := make([]models.Engagement, 0, len(rows))
	for _, row := range rows {
		engagement, err := row.toEngagement()
		if err != nil {
			return nil, err
		}
		result = append(result, engagement)
	}
	return result, nil
}

// GetManyByBookTags returns every book-tag engagement of this family
// matching any of the given tag pairs, across all users.
func (r *postgresEngagementRepository) GetManyByBookTags(ctx context.Context, tags []models.BookTag) ([]models.Engagement, error) {
	if len(tags) == 0 {
		return []models.Engagement{}, nil
	}

	tagMatch := sq.Or{}
	for _, tag := range tags {
		tagMatch = append(tagMatch, sq.Eq{"tag_kind": tag.Kind, "tag_name": tag.Name})
	}

	query, args, err := psql.
		Select("id", "tag_kind", "tag_name", "user_id", "created_at").
		From(likesBookTagTable).
		Where(sq.Eq{"is_dislike": r.family.IsDislike()}).
		Where(tagMatch).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tag-match query: %w", err)
	}

	var rows []bookTagRow
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get %ss by book tags: %w", r.family, err)
	}

	result := make([]models.Engagement, len(rows))
	for i, row := range rows {
		result[i] = models.Engagement{
			Kind:      models.KindBookTag,
			TagKind:   row.TagKind,
			TagName:   row.TagName,
			UserID:    row.UserID,
			CreatedAt: row.CreatedAt,
		}
	}
	return result, nil
}

// Add inserts the engagement under its deterministic id. A duplicate is
// reported by the uniqueness constraint and translated to (false, nil); any
// other storage error propagates.
func (r *postgresEngagementRepository) Add(ctx context.Context, engagement models.Engagement) (bool, error) {
	var query string
	var args []interface{}

	id := engagement.DeterministicID()

	switch engagement.Kind {
	case models.KindBook:
		query = fmt.Sprintf(`
			INSERT INTO %s (id, book_id, user_id, is_dislike, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, likesBookTable)
		args = []interface{}{id, int64(engagement.BookID), engagement.UserID, r.family.IsDislike(), engagement.CreatedAt}

	case models.KindBookTag:
		query = fmt.Sprintf(`
			INSERT INTO %s (id, tag_kind, tag_name, user_id, is_dislike, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, likesBookTagTable)
		args = []interface{}{id, engagement.TagKind, engagement.TagName, engagement.UserID, r.family.IsDislike(), engagement.CreatedAt}

	default:
		return false, fmt.Errorf("unknown engagement kind %q", engagement.Kind)
	}

	if _, err := r.getExecutor(ctx).ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("failed to insert %s: %w", r.family, err)
	}

	return true, nil
}

// Remove hard-deletes the engagement by its deterministic id. The family
// filter keeps a dislike removal from deleting a like row that shares the
// same natural key.
func (r *postgresEngagementRepository) Remove(ctx context.Context, engagement models.Engagement) (bool, error) {
	table := likesBookTable
	if engagement.Kind == models.KindBookTag {
		table = likesBookTagTable
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND is_dislike = $2`, table)

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, engagement.DeterministicID(), r.family.IsDislike())
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", r.family, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// EnsureSchema creates the likes tables and indexes if absent.
func (r *postgresEngagementRepository) EnsureSchema(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id UUID PRIMARY KEY,
			book_id INTEGER NOT NULL,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			is_dislike BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%[1]s_user_id ON %[1]s(user_id);

		CREATE TABLE IF NOT EXISTS %[2]s (
			id UUID PRIMARY KEY,
			tag_kind TEXT NOT NULL,
			tag_name TEXT NOT NULL,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			is_dislike BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%[2]s_user_id ON %[2]s(user_id);
		CREATE INDEX IF NOT EXISTS idx_%[2]s_tag ON %[2]s(tag_kind, tag_name);
	`, likesBookTable, likesBookTagTable)

	if _, err := r.client.DB().ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create likes tables: %w", err)
	}
	return nil
}
