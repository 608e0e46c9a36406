package middleware

import (
	"net/http"

	"github.com/notelace/notelace-server/internal/api/http/handler"
	"github.com/notelace/notelace-server/internal/logger"
	"github.com/notelace/notelace-server/internal/model"
)

// SessionVerifier resolves usernames from session tokens.
type SessionVerifier interface {
	VerifySession(token string) (string, bool)
}

// Authenticate validates session cookies and injects the username into the
// request context.
type Authenticate struct {
	sessions       SessionVerifier
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessions SessionVerifier, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{sessions: sessions, contextManager: contextManager, logger: logger}
}

// Require rejects requests without a valid session cookie with 401. The
// token itself carries the subject and expiry; no session state is looked up.
func (m *Authenticate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(handler.SessionCookie)
		if err != nil {
			unauthorized(w)
			return
		}

		username, ok := m.sessions.VerifySession(cookie.Value)
		if !ok {
			m.logger.Debug("auth middleware: rejected session token")
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUsernameToContext(r.Context(), username)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"authentication required"}`))
}
