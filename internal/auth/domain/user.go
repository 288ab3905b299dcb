package domain

import "time"

type MFAMethod string

const (
	MFANone  MFAMethod = "none"
	MFAEmail MFAMethod = "email"
	MFASMS   MFAMethod = "sms"
)

// Valid reports whether m is a known method.
func (m MFAMethod) Valid() bool {
	switch m {
	case MFANone, MFAEmail, MFASMS:
		return true
	}
	return false
}

type UserStatus string

const (
	UserActive UserStatus = "active"
	UserLocked UserStatus = "locked"
)

type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string // argon2id PHC string
	Phone         string // optional
	MFAEnabled    bool
	MFAMethod     MFAMethod
	Status        UserStatus
	LoginAttempts int
	LockedUntil   *time.Time
	LastLoginAt   *time.Time
	SSOProviders  []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LockExpired reports whether a locked user's lock has elapsed at now.
func (u User) LockExpired(now time.Time) bool {
	return u.Status == UserLocked && u.LockedUntil != nil && !now.Before(*u.LockedUntil)
}

// UserSummary is the public projection of a user returned by the API.
type UserSummary struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	MFAEnabled  bool       `json:"mfa_enabled"`
	MFAMethod   MFAMethod  `json:"mfa_method"`
	Status      UserStatus `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		MFAEnabled:  u.MFAEnabled,
		MFAMethod:   u.MFAMethod,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
