package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/pkg/cachex"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
)

const (
	DefaultSSOStateTTL = 10 * time.Minute
	ssoStatePrefix     = "sso:state:"
)

// SSOProvider is an OAuth2 authorization endpoint we can redirect users to.
type SSOProvider struct {
	Name        string
	AuthURL     string
	ClientID    string
	RedirectURI string
	Scopes      []string
}

// DefaultSSOProviders returns the supported providers without credentials.
func DefaultSSOProviders() map[string]SSOProvider {
	return map[string]SSOProvider{
		"google": {
			Name:    "google",
			AuthURL: "https://accounts.google.com/o/oauth2/v2/auth",
			Scopes:  []string{"openid", "email", "profile"},
		},
		"facebook": {
			Name:    "facebook",
			AuthURL: "https://www.facebook.com/v18.0/dialog/oauth",
			Scopes:  []string{"email", "public_profile"},
		},
		"microsoft": {
			Name:    "microsoft",
			AuthURL: "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
			Scopes:  []string{"openid", "email", "profile"},
		},
	}
}

// SSOState is what we remember between redirect and callback.
type SSOState struct {
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// SSOService builds provider redirect URLs. Code exchange is out of scope;
// the state is parked in the cache for whoever handles the callback.
type SSOService struct {
	Providers map[string]SSOProvider
	Cache     cachex.KeyValueStore
	StateTTL  time.Duration
	Now       func() time.Time
}

// AuthorizationURL returns the URL to send the user to and its state value.
func (s *SSOService) AuthorizationURL(ctx context.Context, provider string) (string, string, error) {
	p, ok := s.Providers[strings.ToLower(provider)]
	if !ok {
		return "", "", ErrSSOProviderUnsupported
	}
	if p.ClientID == "" || p.RedirectURI == "" {
		return "", "", ErrSSOProviderNotConfigured
	}

	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", "", err
	}
	ttl := s.StateTTL
	if ttl <= 0 {
		ttl = DefaultSSOStateTTL
	}
	err = cachex.SetJSON(ctx, s.Cache, ssoStatePrefix+state, SSOState{
		Provider:  p.Name,
		CreatedAt: s.Now().UTC(),
	}, ttl)
	if err != nil {
		return "", "", err
	}

	q := url.Values{}
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", p.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(p.Scopes, " "))
	q.Set("state", state)
	return p.AuthURL + "?" + q.Encode(), state, nil
}

// LookupState returns the state recorded by AuthorizationURL.
func (s *SSOService) LookupState(ctx context.Context, state string) (SSOState, bool, error) {
	var st SSOState
	ok, err := cachex.GetJSON(ctx, s.Cache, ssoStatePrefix+state, &st)
	return st, ok, err
}
