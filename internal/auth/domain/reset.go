package domain

import "time"

// ResetToken is a single-use password reset grant, looked up by the
// fingerprint of the token mailed to the user.
type ResetToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
