package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/internal/auth/domain"
	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

type RegisterHandler struct {
	UserService *service.UserService
	OTPService  *service.OTPService
	Notifier    service.Notifier
}

// ServeHTTP godoc
//
//	@Summary		Register a new account
//	@Description	Creates an account. Passwords need 8+ characters with upper, lower, digit and symbol.
//	@Description	When MFA is enabled a first OTP is sent straight away.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest							true	"Account details"
//	@Success		201		{object}	authsdk.Envelope[authsdk.UserResponse]			"Created account"
//	@Failure		400		{object}	authsdk.Envelope[authsdk.MessageResponse]		"VALIDATION_ERROR, WEAK_PASSWORD or REGISTRATION_FAILED"
//	@Failure		429		{object}	authsdk.Envelope[authsdk.MessageResponse]		"RATE_LIMIT_EXCEEDED"
//	@Router			/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteError(w, r, validationError(errs))
		return
	}

	u, err := h.UserService.Register(ctx, service.RegisterParams{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		MFAEnabled: req.MFAEnabled,
		MFAMethod:  domain.MFAMethod(req.MFAMethod),
	})
	if err != nil {
		log.Info("registration rejected", "err", err)
		httpx.WriteError(w, r, registerError(err))
		return
	}

	if u.MFAEnabled {
		code, ttl, err := h.OTPService.Generate(ctx, u.Email)
		if err != nil {
			log.Error("initial otp generation failed", "user_id", u.ID, "err", err)
		} else if err := h.Notifier.SendOTP(ctx, u.Email, code, ttl); err != nil {
			log.Error("initial otp delivery failed", "user_id", u.ID, "err", err)
		}
	}

	httpx.WriteData(w, r, http.StatusCreated, toUserResponse(u))
}
