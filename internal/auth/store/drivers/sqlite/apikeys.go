package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
)

const apiKeyColumns = `id, user_id, key_hash, name, active, created_at, expires_at, last_used_at`

type apiKeysRepo struct {
	db *sql.DB
}

func scanAPIKey(row rowScanner) (domain.APIKey, error) {
	var (
		k        domain.APIKey
		expires  sql.NullTime
		lastUsed sql.NullTime
	)
	if err := row.Scan(&k.ID, &k.UserID, &k.KeyHash, &k.Name, &k.Active, &k.CreatedAt, &expires, &lastUsed); err != nil {
		return domain.APIKey{}, mapNotFound(err)
	}
	k.CreatedAt = k.CreatedAt.UTC()
	k.ExpiresAt = mapNullTimePtr(expires)
	k.LastUsedAt = mapNullTimePtr(lastUsed)
	return k, nil
}

func (r *apiKeysRepo) CreateAPIKey(ctx context.Context, k domain.APIKey) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (`+apiKeyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.UserID, k.KeyHash, k.Name, k.Active, k.CreatedAt.UTC(),
		mapOptionalTime(k.ExpiresAt), mapOptionalTime(k.LastUsedAt),
	)
	return mapConstraint(err)
}

func (r *apiKeysRepo) GetAPIKeyByHash(ctx context.Context, hash string) (domain.APIKey, error) {
	return scanAPIKey(r.db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = ?`, hash))
}

func (r *apiKeysRepo) TouchAPIKey(ctx context.Context, id string, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = ? WHERE id = ?`, at.UTC(), id))
}

func (r *apiKeysRepo) ListAPIKeysByUser(ctx context.Context, userID string) ([]domain.APIKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *apiKeysRepo) RevokeAPIKey(ctx context.Context, id, userID string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE api_keys SET active = 0 WHERE id = ? AND user_id = ?`, id, userID))
}

func (r *apiKeysRepo) DeleteAPIKey(ctx context.Context, id, userID string) error {
	return expectOne(r.db.ExecContext(ctx,
		`DELETE FROM api_keys WHERE id = ? AND user_id = ?`, id, userID))
}

func (r *apiKeysRepo) DeleteExpiredAPIKeys(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM api_keys WHERE expires_at IS NOT NULL AND expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
