package authsdk

import "time"

// ============================================================================
// Envelope Types
// ============================================================================

// Envelope is the generic response wrapper. Data is decoded lazily by the
// client into the endpoint's response type.
type Envelope[T any] struct {
	Success  bool       `json:"success"`
	Data     T          `json:"data,omitempty"`
	Error    *ErrorBody `json:"error,omitempty"`
	Metadata Metadata   `json:"metadata"`
}

// ErrorBody is the error half of a failed envelope.
type ErrorBody struct {
	Code    string `json:"code" example:"LOGIN_FAILED"`
	Message string `json:"message" example:"Invalid username or password"`
	Details any    `json:"details,omitempty"`
}

// Metadata accompanies every response.
type Metadata struct {
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty" example:"01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZB"`
}

// MessageResponse is returned by endpoints with nothing else to say.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Account Types
// ============================================================================

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username   string `json:"username" example:"alice"`
	Email      string `json:"email" example:"alice@example.com"`
	Password   string `json:"password" example:"StrongPass1!"`
	Phone      string `json:"phone,omitempty"`
	MFAEnabled bool   `json:"mfa_enabled,omitempty"`
	MFAMethod  string `json:"mfa_method,omitempty" enums:"none,email,sms"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	MFAEnabled  bool       `json:"mfa_enabled"`
	MFAMethod   string     `json:"mfa_method"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ============================================================================
// Token Types
// ============================================================================

// LoginRequest authenticates with username and password.
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"StrongPass1!"`
}

// TokenResponse is an access/refresh pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type" example:"bearer"`
	ExpiresIn    int64  `json:"expires_in" example:"900"`
}

// LoginResponse is either an MFA challenge or a full session. When
// MFARequired is set a code has been sent and VerifyOTP finishes the login.
type LoginResponse struct {
	MFARequired bool   `json:"mfa_required,omitempty"`
	MFAMethod   string `json:"mfa_method,omitempty"`
	Message     string `json:"message,omitempty"`

	User *UserResponse `json:"user,omitempty"`
	TokenResponse
}

// VerifyOTPRequest completes an MFA login.
type VerifyOTPRequest struct {
	Email string `json:"email" example:"alice@example.com"`
	Code  string `json:"otp" example:"123456"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ============================================================================
// API Key Types
// ============================================================================

// CreateAPIKeyRequest names a new key. ExpiresIn is in seconds; zero means
// the key never expires.
type CreateAPIKeyRequest struct {
	Name      string `json:"name" example:"ci-deploy"`
	ExpiresIn int64  `json:"expires_in,omitempty" example:"7776000"`
}

// CreateAPIKeyResponse carries the only copy of the plaintext key.
type CreateAPIKeyResponse struct {
	ID      string `json:"id"`
	Key     string `json:"key" example:"sk_3f2a..."`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// APIKeyInfo describes a key without revealing it.
type APIKeyInfo struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// ============================================================================
// Password Reset Types
// ============================================================================

// PasswordResetRequest asks for a reset link to be sent.
type PasswordResetRequest struct {
	Email string `json:"email" example:"alice@example.com"`
}

// PasswordResetConfirmRequest sets a new password with a reset token.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"password" example:"EvenStronger2@"`
}

// ============================================================================
// SSO Types
// ============================================================================

// SSOResponse is where to send the user to sign in with a provider.
type SSOResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency of /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}
