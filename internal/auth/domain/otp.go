package domain

import "time"

// OTPRecord is a pending or verified one-time code for an email address.
// Only the HOTP secret is kept; the code itself is derived on demand.
type OTPRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Secret    string    `json:"secret"` // base32
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"-"` // held in a separate atomic counter
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
