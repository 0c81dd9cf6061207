package middleware

import (
	"errors"
	"net/http"

	"coursehub/internal/entity"
	"coursehub/internal/session"
)

var (
	ErrUnauthenticated = errors.New("not logged in")
	ErrForbidden       = errors.New("access denied")
)

// Authenticate succeeds iff the session carries a username.
func Authenticate(d session.Data) error {
	if !d.LoggedIn() {
		return ErrUnauthenticated
	}
	return nil
}

// Authorize succeeds iff the session role equals role. Callers must have
// passed Authenticate first.
func Authorize(d session.Data, role entity.Role) error {
	if d.Role != role {
		return ErrForbidden
	}
	return nil
}

type Gate struct {
	sessions *session.Manager
}

func NewGate(sessions *session.Manager) *Gate {
	return &Gate{sessions: sessions}
}

// Attach puts the session data of a logged-in visitor in the request
// context. Anonymous requests pass through unchanged.
func (g *Gate) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d := g.sessions.Load(r); d.LoggedIn() {
			r = r.WithContext(session.WithData(r.Context(), d))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects anonymous requests to the login page and stores
// the session data in the request context for everything downstream.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := g.sessions.Load(r)
		if err := Authenticate(d); err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithData(r.Context(), d)))
	})
}

// RequireRole denies with 403 when the authenticated role differs. It must
// be mounted behind RequireAuth.
func RequireRole(role entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, ok := session.FromContext(r.Context())
			if !ok || Authenticate(d) != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if err := Authorize(d, role); err != nil {
				http.Error(w, "403: Access denied", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
