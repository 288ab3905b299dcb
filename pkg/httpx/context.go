package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeyPrincipal ctxKey = "principal"
)

// AuthMethod records how a request was authenticated.
type AuthMethod string

const (
	AuthBearer AuthMethod = "bearer"
	AuthAPIKey AuthMethod = "api_key"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   string
	Username string
	Email    string
	Roles    []string
	Method   AuthMethod
	KeyID    string // set for API key auth
	Token    string // raw bearer token, set for bearer auth
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, p.UserID)
	return context.WithValue(ctx, CtxKeyPrincipal, p)
}

// PrincipalFromContext returns the caller stored by the authn middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	return p, ok
}

// UserIDFromContext returns the authenticated user id, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(CtxKeyUserID).(string)
	return id
}
