package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
)

type SSOHandler struct {
	SSOService *service.SSOService
}

// ServeHTTP godoc
//
//	@Summary		Start single sign-on
//	@Description	Returns the provider authorization URL and the state value bound to it.
//	@Tags			SSO
//	@Produce		json
//	@Param			provider	path		string										true	"Provider"	Enums(google, facebook, microsoft)
//	@Success		200			{object}	authsdk.Envelope[authsdk.SSOResponse]		"Where to redirect"
//	@Failure		400			{object}	authsdk.Envelope[authsdk.MessageResponse]	"SSO_PROVIDER_UNSUPPORTED or SSO_PROVIDER_NOT_CONFIGURED"
//	@Router			/auth/sso/{provider} [get].
func (h *SSOHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	authURL, state, err := h.SSOService.AuthorizationURL(r.Context(), r.PathValue("provider"))
	if err != nil {
		httpx.WriteError(w, r, ssoError(err))
		return
	}
	httpx.WriteData(w, r, http.StatusOK, authsdk.SSOResponse{AuthorizationURL: authURL, State: state})
}
