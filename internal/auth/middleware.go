package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/redmonkez12/plantopia/internal/httputil"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/session"
)

// Middleware handles authentication for API routes
type Middleware struct {
	sessions SessionValidator
}

func NewMiddleware(sessions SessionValidator) *Middleware {
	return &Middleware{sessions: sessions}
}

// RequireSession validates the session token and puts its claims into the request context
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string

		// Priority 1: Authorization header
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			scheme, value, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || value == "" {
				httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
				return
			}
			token = value
		}

		// Priority 2: session cookie
		if token == "" {
			token = session.TokenFromCookie(r)
		}
		if token == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		claims, err := m.sessions.Validate(token)
		if err != nil {
			logging.GetLoggerFromContext(r.Context()).Debug("session rejected", "error", err.Error())
			if errors.Is(err, ErrExpiredSession) {
				httputil.RespondErrorWithCode(w, "session has expired", httputil.CodeSessionExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "invalid session", httputil.CodeInvalidSession, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.WithClaims(r.Context(), claims)))
	})
}
