package handler

import (
	"encoding/json"
	"net/http"

	"shopping-ledger/internal/auth"
	"shopping-ledger/internal/middleware"
	"shopping-ledger/internal/model"
	"shopping-ledger/internal/service"

	"github.com/rs/zerolog"
)

const (
	refreshCookieName = "refresh_token"
	// The refresh token is only ever needed by the auth endpoints, so the
	// cookie never travels with resource requests.
	refreshCookiePath = "/api/auth"
)

// AuthHandler handles login, token refresh, logout and user detail requests.
// The access token is returned in the body; the refresh token lives in an
// HttpOnly cookie that client-side script cannot read.
type AuthHandler struct {
	service       service.AuthService
	tokens        *auth.Manager
	secureCookies bool
	logger        zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc service.AuthService, tokens *auth.Manager, secureCookies bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:       svc,
		tokens:        tokens,
		secureCookies: secureCookies,
		logger:        logger.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "username and password are required", h.logger)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	access, err := h.tokens.IssueAccess(user.ID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	refresh, err := h.tokens.IssueRefresh(user.ID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	h.setRefreshCookie(w, refresh, int(h.tokens.RefreshTTL().Seconds()))

	h.logger.Info().Int64("user_id", user.ID).Msg("user logged in")
	writeJSON(w, http.StatusOK, model.TokenResponse{Access: access})
}

// Refresh handles POST /api/auth/refresh requests. The refresh token comes
// from the HttpOnly cookie, never from the body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "refresh token not found in cookie", h.logger)
		return
	}

	userID, err := h.tokens.VerifyRefresh(cookie.Value)
	if err != nil {
		// Invalid or expired token: drop the cookie so the client stops
		// retrying with it.
		h.setRefreshCookie(w, "", -1)
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "invalid refresh token", h.logger)
		return
	}

	access, err := h.tokens.IssueAccess(userID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Access: access})
}

// Logout handles POST /api/auth/logout requests by deleting the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setRefreshCookie(w, "", -1)
	writeJSON(w, http.StatusOK, map[string]string{"detail": "successfully logged out"})
}

// Me handles GET /api/auth/me requests for the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     refreshCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
