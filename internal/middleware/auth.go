package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/render"

	"github.com/sendesk/sendesk/internal/session"
)

const SessionKey contextKey = "session"

// SessionAuth guards routes behind a valid session cookie.
type SessionAuth struct {
	store      session.Store
	cookieName string
}

func NewSessionAuth(store session.Store, cookieName string) *SessionAuth {
	return &SessionAuth{
		store:      store,
		cookieName: cookieName,
	}
}

// RequireAuth rejects requests without a resolvable session and puts the
// session on the request context for handlers.
func (a *SessionAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(a.cookieName)
		if err != nil {
			a.unauthorized(w, r)
			return
		}

		sess, err := a.store.Get(cookie.Value)
		if err != nil || sess == nil {
			a.unauthorized(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *SessionAuth) unauthorized(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"error":   ErrorCodeUnauthorized,
		"message": ErrorMessageUnauthorized,
	})
}

// GetSession returns the authenticated session from the context, or nil.
func GetSession(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(SessionKey).(*session.Session); ok {
		return sess
	}
	return nil
}
