package auth

import (
	"errors"
	"net/http"

	"github.com/redmonkez12/plantopia/internal/httputil"
	"github.com/redmonkez12/plantopia/internal/identity"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/session"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
	cookies *session.Cookies
}

func NewHandler(service *Service, cookies *session.Cookies) *Handler {
	return &Handler{
		service: service,
		cookies: cookies,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	IDToken string `json:"idToken"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Status  string           `json:"status"`
	Profile *profile.Profile `json:"profile"`
}

// Login handles sign-in with a provider ID token
// @Summary      Sign in
// @Description  Exchange an identity provider ID token for session cookies. Creates the profile on first sign-in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Provider ID token"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing token or invalid body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid ID token"
// @Failure      500 {object} httputil.ErrorResponse "Session creation failed"
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	sess, p, err := h.service.Login(r.Context(), req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingIDToken):
			httputil.RespondErrorWithCode(w, "ID token is required", httputil.CodeMissingIDToken, http.StatusBadRequest)
		case errors.Is(err, identity.ErrInvalidToken):
			logger.Warn("login failed: invalid ID token", "error", err.Error())
			httputil.RespondErrorWithCode(w, "invalid ID token", httputil.CodeInvalidIDToken, http.StatusUnauthorized)
		case errors.Is(err, identity.ErrKeysUnavailable):
			logger.Error("login failed: identity keys unavailable", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to create session", httputil.CodeIdentityKeysFailed, http.StatusInternalServerError)
		default:
			logger.Error("login failed: session creation", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to create session", httputil.CodeSessionCreation, http.StatusInternalServerError)
		}
		return
	}

	h.cookies.SetSession(w, sess.Token, sess.MaxAge)
	if err := h.cookies.SetProfileHint(w, sess.Hint, sess.MaxAge); err != nil {
		logger.Error("failed to write profile hint", "error", err.Error())
	}

	httputil.RespondJSON(w, LoginResponse{Status: "success", Profile: p}, http.StatusOK)
}

// Logout clears the session and profile hint cookies
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// Logout stays public; a stale or forged cookie still gets cleared
	uid := h.service.SessionUser(session.TokenFromCookie(r))
	h.cookies.Clear(w)

	if uid != "" {
		logging.GetLoggerFromContext(r.Context()).Info("user signed out", "uid", uid)
	}

	httputil.RespondJSON(w, map[string]string{"status": "success"}, http.StatusOK)
}
