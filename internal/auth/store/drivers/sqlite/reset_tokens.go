package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
)

type resetTokensRepo struct {
	db *sql.DB
}

func (r *resetTokensRepo) CreateResetToken(ctx context.Context, t domain.ResetToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reset_tokens (token_hash, user_id, expires_at, used, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.TokenHash, t.UserID, t.ExpiresAt.UTC(), t.Used, t.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *resetTokensRepo) GetResetToken(ctx context.Context, hash string) (domain.ResetToken, error) {
	var t domain.ResetToken
	err := r.db.QueryRowContext(ctx,
		`SELECT token_hash, user_id, expires_at, used, created_at FROM reset_tokens WHERE token_hash = ?`, hash,
	).Scan(&t.TokenHash, &t.UserID, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		return domain.ResetToken{}, mapNotFound(err)
	}
	t.ExpiresAt = t.ExpiresAt.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (r *resetTokensRepo) MarkResetTokenUsed(ctx context.Context, hash string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE reset_tokens SET used = 1 WHERE token_hash = ? AND used = 0`, hash))
}

func (r *resetTokensRepo) DeleteResetToken(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reset_tokens WHERE token_hash = ?`, hash)
	return err
}

func (r *resetTokensRepo) DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reset_tokens WHERE used = 1 OR expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
