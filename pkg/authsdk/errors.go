package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotFound            = "NOT_FOUND"
	CodeRateLimited         = "RATE_LIMIT_EXCEEDED"
	CodeInternal            = "INTERNAL_ERROR"
	CodeWeakPassword        = "WEAK_PASSWORD"
	CodeRegistrationFailed  = "REGISTRATION_FAILED"
	CodeLoginFailed         = "LOGIN_FAILED"
	CodeInvalidOTP          = "INVALID_OTP"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeRefreshFailed       = "REFRESH_FAILED"
	CodeAPIKeyNotFound      = "API_KEY_NOT_FOUND"
	CodeInvalidResetToken   = "INVALID_RESET_TOKEN"
	CodeSSOUnsupported      = "SSO_PROVIDER_UNSUPPORTED"
	CodeSSONotConfigured    = "SSO_PROVIDER_NOT_CONFIGURED"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeUnexpectedResponse  = "UNEXPECTED_RESPONSE"
	defaultErrorDescription = "unexpected response from server"
)

// APIError is a failed envelope as seen by the client.
type APIError struct {
	StatusCode    int
	Code          string
	Message       string
	Details       any
	CorrelationID string

	// RetryAfter is set from the Retry-After header on 429 responses.
	RetryAfter string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies
// that are not an envelope still produce an error carrying the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       CodeUnexpectedResponse,
		Message:    defaultErrorDescription,
		RetryAfter: resp.Header.Get("Retry-After"),
	}

	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
		apiErr.CorrelationID = env.Metadata.CorrelationID
	}
	return apiErr
}
