package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

// LoginHandler serves the password step and the OTP step of a login.
type LoginHandler struct {
	UserService  *service.UserService
	OTPService   *service.OTPService
	TokenService *service.TokenService
	Notifier     service.Notifier
}

// HandleLogin godoc
//
//	@Summary		Log in with username and password
//	@Description	Returns a token pair, or an MFA challenge when the account has MFA enabled.
//	@Description	Repeated failures lock the account for a while; the error message says so.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest							true	"Credentials"
//	@Success		200		{object}	authsdk.Envelope[authsdk.LoginResponse]			"Tokens or MFA challenge"
//	@Failure		400		{object}	authsdk.Envelope[authsdk.MessageResponse]		"VALIDATION_ERROR"
//	@Failure		401		{object}	authsdk.Envelope[authsdk.MessageResponse]		"LOGIN_FAILED"
//	@Failure		429		{object}	authsdk.Envelope[authsdk.MessageResponse]		"RATE_LIMIT_EXCEEDED"
//	@Router			/auth/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteError(w, r, validationError(errs))
		return
	}

	res, err := h.UserService.Login(ctx, req.Username, req.Password)
	if err != nil {
		log.Info("login failed", "username", req.Username, "err", err)
		httpx.WriteError(w, r, loginError(err))
		return
	}

	if res.MFARequired {
		code, ttl, err := h.OTPService.Generate(ctx, res.User.Email)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := h.Notifier.SendOTP(ctx, res.User.Email, code, ttl); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteData(w, r, http.StatusOK, authsdk.LoginResponse{
			MFARequired: true,
			MFAMethod:   string(res.MFAMethod),
			Message:     "Please verify OTP sent to your " + string(res.MFAMethod),
		})
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, res.User)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	log.Info("login succeeded", "user_id", res.User.ID)
	httpx.WriteData(w, r, http.StatusOK, authsdk.LoginResponse{
		User:          toUserResponse(res.User),
		TokenResponse: toTokenResponse(pair),
	})
}

// HandleVerifyOTP godoc
//
//	@Summary		Complete an MFA login
//	@Description	Checks the OTP sent during login and issues a token pair. A code has a small attempt budget.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyOTPRequest						true	"Email and code"
//	@Success		200		{object}	authsdk.Envelope[authsdk.LoginResponse]			"User and tokens"
//	@Failure		400		{object}	authsdk.Envelope[authsdk.MessageResponse]		"INVALID_OTP or USER_NOT_FOUND"
//	@Failure		429		{object}	authsdk.Envelope[authsdk.MessageResponse]		"RATE_LIMIT_EXCEEDED"
//	@Router			/auth/verify-otp [post].
func (h *LoginHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.VerifyOTPRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteError(w, r, validationError(errs))
		return
	}

	if err := h.OTPService.Verify(ctx, req.Email, req.Code); err != nil {
		log.Info("otp rejected", "err", err)
		httpx.WriteError(w, r, otpError(err))
		return
	}

	u, err := h.UserService.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, r, errUserNotFound)
			return
		}
		httpx.WriteError(w, r, err)
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, u)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.OTPService.Clear(ctx, req.Email); err != nil {
		log.Warn("otp clear failed", "err", err)
	}

	httpx.WriteData(w, r, http.StatusOK, authsdk.LoginResponse{
		User:          toUserResponse(u),
		TokenResponse: toTokenResponse(pair),
	})
}
