package sqlite

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
)

const userColumns = `id, username, email, password_hash, phone, mfa_enabled, mfa_method,
	status, login_attempts, locked_until, last_login_at, sso_providers, created_at, updated_at`

type usersRepo struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u           domain.User
		mfaMethod   string
		status      string
		lockedUntil sql.NullTime
		lastLogin   sql.NullTime
		providers   string
	)
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone, &u.MFAEnabled, &mfaMethod,
		&status, &u.LoginAttempts, &lockedUntil, &lastLogin, &providers, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.MFAMethod = domain.MFAMethod(mfaMethod)
	u.Status = domain.UserStatus(status)
	u.LockedUntil = mapNullTimePtr(lockedUntil)
	u.LastLoginAt = mapNullTimePtr(lastLogin)
	u.SSOProviders = strings.Fields(providers)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) getBy(ctx context.Context, column, value string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value))
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Phone, u.MFAEnabled, string(u.MFAMethod),
		string(u.Status), u.LoginAttempts, mapOptionalTime(u.LockedUntil), mapOptionalTime(u.LastLoginAt),
		strings.Join(u.SSOProviders, " "), u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *usersRepo) RecordFailedLogin(ctx context.Context, userID string, maxAttempts int, lockUntil time.Time) (domain.User, error) {
	// Right-hand sides see the pre-update row, so login_attempts + 1 is the new count.
	return scanUser(r.db.QueryRowContext(ctx, `
		UPDATE users SET
			login_attempts = login_attempts + 1,
			status = CASE WHEN login_attempts + 1 >= ? THEN 'locked' ELSE status END,
			locked_until = CASE WHEN login_attempts + 1 >= ? THEN ? ELSE locked_until END,
			updated_at = ?
		WHERE id = ?
		RETURNING `+userColumns,
		maxAttempts, maxAttempts, lockUntil.UTC(), time.Now().UTC(), userID,
	))
}

func (r *usersRepo) RecordSuccessfulLogin(ctx context.Context, userID string, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET login_attempts = 0, last_login_at = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), time.Now().UTC(), userID))
}

func (r *usersRepo) LockUser(ctx context.Context, userID string, until time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET status = 'locked', locked_until = ?, updated_at = ? WHERE id = ?`,
		until.UTC(), time.Now().UTC(), userID))
}

func (r *usersRepo) UnlockUser(ctx context.Context, userID string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET status = 'active', locked_until = NULL, login_attempts = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID))
}

func (r *usersRepo) UpdateMFA(ctx context.Context, userID string, enabled bool, method domain.MFAMethod) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET mfa_enabled = ?, mfa_method = ?, updated_at = ? WHERE id = ?`,
		enabled, string(method), time.Now().UTC(), userID))
}

func (r *usersRepo) AddSSOProvider(ctx context.Context, userID string, provider string) error {
	u, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if slices.Contains(u.SSOProviders, provider) {
		return nil
	}
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET sso_providers = TRIM(sso_providers || ' ' || ?), updated_at = ? WHERE id = ?`,
		provider, time.Now().UTC(), userID))
}
