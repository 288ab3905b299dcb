package jwtx

import (
	"errors"
	"time"
)

// Verifier validates a JWT and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// VerifyOptions captures the expectations a verifier enforces.
type VerifyOptions struct {
	Issuer   string   // empty means "don't care"
	Audience []string // empty means "don't care"
	Use      TokenUse // empty means "don't care"
	Leeway   time.Duration
	Now      func() time.Time // nil means time.Now
}

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrAlgMismatch  = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)
