package authsdk

import (
	"net/mail"
	"regexp"
	"strings"
)

const (
	requiredReason = "required"
	onlyAlphanum   = "must only contain a-z, A-Z, 0-9, _ or -"
)

var reUsername = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validate checks field shapes. Password strength is a server-side policy
// and is not checked here. Returns nil when every field is valid.
func (r RegisterRequest) Validate() map[string]string {
	errs := make(map[string]string)

	username := strings.TrimSpace(r.Username)
	switch {
	case username == "":
		errs["username"] = requiredReason
	case len(username) < 3 || len(username) > 32:
		errs["username"] = "must be 3-32 characters"
	case !reUsername.MatchString(username):
		errs["username"] = onlyAlphanum
	}

	validateEmail(errs, "email", r.Email)
	validatePassword(errs, "password", r.Password)

	switch r.MFAMethod {
	case "", "none", "email", "sms":
	default:
		errs["mfa_method"] = "must be one of none, email, sms"
	}

	return nilIfEmpty(errs)
}

func (r LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Username) == "" {
		errs["username"] = requiredReason
	}
	if r.Password == "" {
		errs["password"] = requiredReason
	}
	return nilIfEmpty(errs)
}

func (r VerifyOTPRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	code := strings.TrimSpace(r.Code)
	switch {
	case code == "":
		errs["otp"] = requiredReason
	case len(code) > 10:
		errs["otp"] = "too long (max 10)"
	}
	return nilIfEmpty(errs)
}

func (r RefreshRequest) Validate() map[string]string {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return map[string]string{"refresh_token": requiredReason}
	}
	return nil
}

func (r CreateAPIKeyRequest) Validate() map[string]string {
	errs := make(map[string]string)
	name := strings.TrimSpace(r.Name)
	switch {
	case name == "":
		errs["name"] = requiredReason
	case len(name) < 3 || len(name) > 100:
		errs["name"] = "must be 3-100 characters"
	}
	if r.ExpiresIn < 0 {
		errs["expires_in"] = "must not be negative"
	}
	return nilIfEmpty(errs)
}

func (r PasswordResetRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	return nilIfEmpty(errs)
}

func (r PasswordResetConfirmRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Token) == "" {
		errs["token"] = requiredReason
	}
	validatePassword(errs, "password", r.NewPassword)
	return nilIfEmpty(errs)
}

func validateEmail(errs map[string]string, field, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		errs[field] = requiredReason
		return
	}
	if _, err := mail.ParseAddress(v); err != nil {
		errs[field] = "must be a valid email address"
	}
}

func validatePassword(errs map[string]string, field, pw string) {
	switch {
	case pw == "":
		errs[field] = requiredReason
	case len(pw) > 128:
		errs[field] = "too long (max 128)"
	}
}

func nilIfEmpty(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
