package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret accepted, matching the
// 256-bit output of SHA-256.
const MinSecretLength = 32

var ErrWeakSecret = errors.New("jwtx: hmac secret too short")

// HS256Signer signs claims with a shared HMAC-SHA256 secret.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 returns a signer for secret.
func NewSignerHS256(secret string) (*HS256Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrWeakSecret, MinSecretLength, len(secret))
	}
	return &HS256Signer{secret: []byte(secret)}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

func (s *HS256Signer) Sign(c Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// HS256Verifier validates HMAC-SHA256 tokens against a secret and options.
type HS256Verifier struct {
	secret []byte
	opts   VerifyOptions
}

// NewVerifierHS256 returns a verifier for secret.
func NewVerifierHS256(secret string, opts VerifyOptions) *HS256Verifier {
	return &HS256Verifier{secret: []byte(secret), opts: opts}
}

// Verify parses the token, checks the signature and then the registered
// claims. Every failure maps onto exactly one of the package sentinels.
func (v *HS256Verifier) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}

	now := time.Now
	if v.opts.Now != nil {
		now = v.opts.Now
	}
	if err := claims.ValidateExpiryAt(now(), v.opts.Leeway); err != nil {
		return nil, err
	}
	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return nil, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return nil, err
	}
	if err := claims.ValidateUse(v.opts.Use); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidClaim
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
}
