package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

type TokenHandler struct {
	TokenService *service.TokenService
}

// HandleRefresh godoc
//
//	@Summary		Rotate a refresh token
//	@Description	Exchanges a refresh token for a new pair. Each refresh token works once; reuse fails.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest							true	"Refresh token"
//	@Success		200		{object}	authsdk.Envelope[authsdk.TokenResponse]			"New token pair"
//	@Failure		401		{object}	authsdk.Envelope[authsdk.MessageResponse]		"REFRESH_FAILED"
//	@Failure		429		{object}	authsdk.Envelope[authsdk.MessageResponse]		"RATE_LIMIT_EXCEEDED"
//	@Router			/auth/refresh [post].
func (h *TokenHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteError(w, r, validationError(errs))
		return
	}

	pair, err := h.TokenService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		slogx.FromContext(ctx).Info("refresh rejected", "err", err)
		httpx.WriteError(w, r, refreshError(err))
		return
	}
	httpx.WriteData(w, r, http.StatusOK, toTokenResponse(pair))
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Revokes the presented access token for the rest of its lifetime.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.Envelope[authsdk.MessageResponse]	"Logged out"
//	@Failure		401	{object}	authsdk.Envelope[authsdk.MessageResponse]	"UNAUTHORIZED"
//	@Router			/auth/logout [post].
func (h *TokenHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := httpx.PrincipalFromContext(ctx)
	if !ok || p.Method != httpx.AuthBearer {
		httpx.WriteError(w, r, httpx.ErrUnauthorized.WithMessage("Logout requires a bearer token"))
		return
	}
	if err := h.TokenService.Revoke(ctx, p.Token); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteData(w, r, http.StatusOK, authsdk.MessageResponse{Message: "Logged out successfully"})
}
