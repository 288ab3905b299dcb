package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

const resetRequestedMessage = "If email exists, reset link has been sent"

type PasswordResetHandler struct {
	UserService  *service.UserService
	ResetService *service.PasswordResetService
	Notifier     service.Notifier

	// FrontendURL is the base of the link mailed to the user.
	FrontendURL string
}

// HandleRequest godoc
//
//	@Summary		Request a password reset
//	@Description	Sends a reset link if the email belongs to an account. The response never says whether it does.
//	@Tags			Password Reset
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.PasswordResetRequest					true	"Account email"
//	@Success		200		{object}	authsdk.Envelope[authsdk.MessageResponse]		"Accepted"
//	@Failure		400		{object}	authsdk.Envelope[authsdk.MessageResponse]		"VALIDATION_ERROR"
//	@Failure		429		{object}	authsdk.Envelope[authsdk.MessageResponse]		"RATE_LIMIT_EXCEEDED"
//	@Router			/auth/password-reset [post].
func (h *PasswordResetHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.PasswordResetRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteError(w, r, validationError(errs))
		return
	}

	u, err := h.UserService.GetByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		log.Info("password reset for unknown email")
	case err != nil:
		httpx.WriteError(w, r, err)
		return
	default:
		token, ttl, err := h.ResetService.Generate(ctx, u.ID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := h.Notifier.SendPasswordReset(ctx, u.Email, h.resetLink(token), ttl); err != nil {
			log.Error("password reset delivery failed", "user_id", u.ID, "err", err)
		}
	}

	httpx.WriteData(w, r, http.StatusOK, authsdk.MessageResponse{Message: resetRequestedMessage})
}

func (h *PasswordResetHandler) resetLink(token string) string {
	return h.FrontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

// HandleConfirm godoc
//
//	@Summary		Set a new password with a reset token
//	@Description	Consumes the reset token. A token works once and expires after an hour.
//	@Tags			Password Reset
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.PasswordResetConfirmRequest				true	"Token and new password"
//	@Success		200		{object}	authsdk.Envelope[authsdk.MessageResponse]		"Password changed"
//	@Failure		400		{object}	authsdk.Envelope[authsdk.MessageResponse]		"INVALID_RESET_TOKEN, WEAK_PASSWORD or USER_NOT_FOUND"
//	@Failure		429		{object}	authsdk.Envelope[authsdk.MessageResponse]		"RATE_LIMIT_EXCEEDED"
//	@Router			/auth/password-reset/confirm [post].
func (h *PasswordResetHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.PasswordResetConfirmRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteError(w, r, validationError(errs))
		return
	}

	userID, err := h.ResetService.Validate(ctx, req.Token)
	if err != nil {
		httpx.WriteError(w, r, resetError(err))
		return
	}
	if !h.UserService.CheckPasswordStrength(req.NewPassword) {
		httpx.WriteError(w, r, errWeakPassword)
		return
	}

	// Consume first so two concurrent confirms cannot both change the password.
	if err := h.ResetService.MarkUsed(ctx, req.Token); err != nil {
		httpx.WriteError(w, r, resetError(err))
		return
	}
	if err := h.UserService.ResetPassword(ctx, userID, req.NewPassword); err != nil {
		httpx.WriteError(w, r, resetError(err))
		return
	}

	slogx.FromContext(ctx).Info("password reset completed", "user_id", userID)
	httpx.WriteData(w, r, http.StatusOK, authsdk.MessageResponse{Message: "Password reset successfully"})
}
