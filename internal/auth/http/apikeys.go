package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/pkg/authsdk"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

type APIKeysHandler struct {
	APIKeyService *service.APIKeyService
}

// HandleCreate godoc
//
//	@Summary		Create an API key
//	@Description	Mints an API key for the caller. The plaintext key is only returned once.
//	@Tags			API Keys
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		APIKeyAuth
//	@Param			request	body		authsdk.CreateAPIKeyRequest						true	"Key name and optional lifetime"
//	@Success		201		{object}	authsdk.Envelope[authsdk.CreateAPIKeyResponse]	"Created key"
//	@Failure		400		{object}	authsdk.Envelope[authsdk.MessageResponse]		"VALIDATION_ERROR"
//	@Failure		401		{object}	authsdk.Envelope[authsdk.MessageResponse]		"UNAUTHORIZED"
//	@Router			/auth/api-keys [post].
func (h *APIKeysHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req authsdk.CreateAPIKeyRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteError(w, r, validationError(errs))
		return
	}

	var expiresIn *time.Duration
	if req.ExpiresIn > 0 {
		d := time.Duration(req.ExpiresIn) * time.Second
		expiresIn = &d
	}

	name := strings.TrimSpace(req.Name)
	id, key, err := h.APIKeyService.Generate(ctx, userID, name, expiresIn)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("api key created", "user_id", userID, "key_id", id)
	httpx.WriteData(w, r, http.StatusCreated, authsdk.CreateAPIKeyResponse{
		ID:      id,
		Key:     key,
		Name:    name,
		Message: "Save this key securely, you will not see it again",
	})
}

// HandleList godoc
//
//	@Summary		List API keys
//	@Description	Returns the caller's keys, newest first. Key material is never included.
//	@Tags			API Keys
//	@Produce		json
//	@Security		BearerAuth
//	@Security		APIKeyAuth
//	@Success		200	{object}	authsdk.Envelope[[]authsdk.APIKeyInfo]		"Keys"
//	@Failure		401	{object}	authsdk.Envelope[authsdk.MessageResponse]	"UNAUTHORIZED"
//	@Router			/auth/api-keys [get].
func (h *APIKeysHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keys, err := h.APIKeyService.List(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	out := make([]authsdk.APIKeyInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, authsdk.APIKeyInfo{
			ID:         k.ID,
			Name:       k.Name,
			Active:     k.Active,
			CreatedAt:  k.CreatedAt,
			ExpiresAt:  k.ExpiresAt,
			LastUsedAt: k.LastUsedAt,
		})
	}
	httpx.WriteData(w, r, http.StatusOK, out)
}

// HandleDelete godoc
//
//	@Summary		Delete an API key
//	@Description	Deletes one of the caller's keys. Keys owned by someone else look missing.
//	@Tags			API Keys
//	@Produce		json
//	@Security		BearerAuth
//	@Security		APIKeyAuth
//	@Param			id	path		string										true	"Key ID"
//	@Success		200	{object}	authsdk.Envelope[authsdk.MessageResponse]	"Deleted"
//	@Failure		401	{object}	authsdk.Envelope[authsdk.MessageResponse]	"UNAUTHORIZED"
//	@Failure		404	{object}	authsdk.Envelope[authsdk.MessageResponse]	"API_KEY_NOT_FOUND"
//	@Router			/auth/api-keys/{id} [delete].
func (h *APIKeysHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)
	id := r.PathValue("id")

	ok, err := h.APIKeyService.Delete(ctx, id, userID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if !ok {
		httpx.WriteError(w, r, errAPIKeyNotFound)
		return
	}

	slogx.FromContext(ctx).Info("api key deleted", "user_id", userID, "key_id", id)
	httpx.WriteData(w, r, http.StatusOK, authsdk.MessageResponse{Message: "API key deleted"})
}
