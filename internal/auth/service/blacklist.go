package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

const blacklistPrefix = "blacklist:token:"

// Blacklist records revoked tokens until they would have expired anyway.
// Entries are keyed by the token fingerprint, never the raw token.
type Blacklist struct {
	Cache cachex.KeyValueStore
}

func blacklistKey(token string) string {
	return blacklistPrefix + cryptox.FingerprintToken(token)
}

// Add blacklists token for ttl. A non-positive ttl means the token is
// already expired and nothing is stored.
func (b *Blacklist) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.Cache.Set(ctx, blacklistKey(token), "1", ttl)
}

// IsBlacklisted reports whether token was revoked. A cache error is
// treated as revoked.
func (b *Blacklist) IsBlacklisted(ctx context.Context, token string) bool {
	ok, err := b.Cache.Exists(ctx, blacklistKey(token))
	if err != nil {
		slogx.FromContext(ctx).Error("blacklist lookup failed", "error", err)
		return true
	}
	return ok
}
