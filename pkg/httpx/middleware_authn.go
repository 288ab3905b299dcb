package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

const HeaderAPIKey = "X-API-Key"

// TokenAuthenticator verifies a bearer access token, including revocation.
type TokenAuthenticator interface {
	VerifyAccess(ctx context.Context, token string) (*jwtx.Claims, error)
}

// APIKeyAuthenticator resolves an API key to its owner.
type APIKeyAuthenticator interface {
	Validate(ctx context.Context, key string) (userID, keyID string, err error)
}

// AuthnMiddleware accepts "Authorization: Bearer <jwt>" or, when keys is
// non-nil, an X-API-Key header. Bearer wins when both are present.
func AuthnMiddleware(tokens TokenAuthenticator, keys APIKeyAuthenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			if authz := r.Header.Get("Authorization"); authz != "" {
				if !strings.HasPrefix(authz, "Bearer ") {
					writeBearerError(w, r, "missing bearer token")
					return
				}
				raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

				claims, err := tokens.VerifyAccess(ctx, raw)
				if err != nil {
					log.Warn("jwt verify failed", "err", err)
					writeBearerError(w, r, "token verification failed")
					return
				}

				id := claims.Identity()
				ctx = WithPrincipal(ctx, Principal{
					UserID:   id.UserID,
					Username: id.Username,
					Email:    id.Email,
					Roles:    id.Roles,
					Method:   AuthBearer,
					Token:    raw,
				})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if key := r.Header.Get(HeaderAPIKey); key != "" && keys != nil {
				userID, keyID, err := keys.Validate(ctx, key)
				if err != nil {
					log.Warn("api key rejected", "err", err)
					WriteError(w, r, ErrUnauthorized.WithMessage("Invalid API key"))
					return
				}
				ctx = WithPrincipal(ctx, Principal{UserID: userID, Method: AuthAPIKey, KeyID: keyID})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			writeBearerError(w, r, "missing bearer token")
		})
	}
}

// RFC 6750-compliant challenge alongside the JSON envelope.
func writeBearerError(w http.ResponseWriter, r *http.Request, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, r, ErrUnauthorized.WithMessage("Invalid or missing credentials"))
}
