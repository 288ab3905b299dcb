package domain

import "time"

type APIKey struct {
	ID         string
	UserID     string
	KeyHash    string // deterministic fingerprint of the plaintext key
	Name       string
	Active     bool
	CreatedAt  time.Time
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
}

// Usable reports whether the key can authenticate at now.
func (k APIKey) Usable(now time.Time) bool {
	return k.Active && (k.ExpiresAt == nil || now.Before(*k.ExpiresAt))
}

// APIKeySummary is the listing projection; it never carries key material.
type APIKeySummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

func (k APIKey) Summary() APIKeySummary {
	return APIKeySummary{
		ID:         k.ID,
		Name:       k.Name,
		Active:     k.Active,
		CreatedAt:  k.CreatedAt,
		ExpiresAt:  k.ExpiresAt,
		LastUsedAt: k.LastUsedAt,
	}
}
