package http

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"restaurant-pos/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext returns the authenticated session injected by the
// auth middleware, or nil when the request was not authenticated.
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

type AuthMiddleware struct {
	sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireStaff admits any logged-in waiter or manager.
func (m *AuthMiddleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.sessions.FromRequest(r)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireManager admits only sessions issued through the manager login.
func (m *AuthMiddleware) RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.sessions.FromRequest(r)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !sess.IsManager {
			log.Warn().Str("waiter_id", sess.WaiterID.String()).Msg("Manager area access denied")
			respondWithError(w, http.StatusForbidden, "Manager access required")
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
