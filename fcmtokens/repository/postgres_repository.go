// Copyright (c) 2025 Shelfmark
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/shelfmark/engagement-api/fcmtokens/models"
	"github.com/shelfmark/engagement-api/internal/database/postgres"
)

const fcmTokensTable = "fcm_tokens"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// postgresFCMTokenRepository implements FCMTokenRepository over the
// fcm_tokens table.
type postgresFCMTokenRepository struct {
	client *postgres.Client
}

// NewPostgresFCMTokenRepository creates a new PostgreSQL-backed token
// repository.
func NewPostgresFCMTokenRepository(client *postgres.Client) FCMTokenRepository {
	return &postgresFCMTokenRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresFCMTokenRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

// AddOrUpdate upserts on the device id. Re-registration also refreshes
// updated_at, otherwise an active device would age out of the freshness
// window while still in use.
func (r *postgresFCMTokenRepository) AddOrUpdate(ctx context.Context, token models.FCMToken) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (udid, user_id, fcm_token, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (udid)
			DO UPDATE
				SET user_id = EXCLUDED.user_id,
				    fcm_token = EXCLUDED.fcm_token,
				    updated_at = EXCLUDED.updated_at
	`, fcmTokensTable)

	args := []interface{}{token.UDID, token.UserID, token.Token, token.UpdatedAt}

	if _, err := r.getExecutor(ctx).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert fcm token: %w", err)
	}
	return nil
}

func (r *postgresFCMTokenRepository) GetTokens(ctx context.Context, userIDs []uuid.UUID) ([]string, error) {
	if len(userIDs) == 0 {
		return []string{}, nil
	}

	query, args, err := psql.
		Select("fcm_token").
		From(fcmTokensTable).
		Where(sq.Eq{"user_id": userIDs}).
		Where(sq.Expr(fmt.Sprintf("updated_at > now() - interval '%d seconds'", int(models.TokenFreshness.Seconds())))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fcm tokens query: %w", err)
	}

	var tokens []string
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &tokens, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get fcm tokens: %w", err)
	}
	return tokens, nil
}

// EnsureSchema creates the token table and indexes if absent.
func (r *postgresFCMTokenRepository) EnsureSchema(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			udid UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			fcm_token TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%[1]s_user_id ON %[1]s(user_id);
	`, fcmTokensTable)

	if _, err := r.client.DB().ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create fcm tokens table: %w", err)
	}
	return nil
}
