package auth

import (
	"net/http"

	"github.com/timster/go-api/internal/httputil"
	"github.com/timster/go-api/internal/logging"
)

// Middleware provides the authentication hook and the authorization guards
// for protected routes. Guards compose by wrapping: the first failing guard
// rejects the request and nothing downstream runs.
type Middleware struct {
	verifier *Verifier
}

func NewMiddleware(verifier *Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Authenticate resolves HTTP Basic credentials into a bound identity. It
// never rejects on its own: requests without valid credentials simply
// continue unbound, and the guards decide whether that matters.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, secret, ok := r.BasicAuth()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.verifier.Verify(r.Context(), username, secret)
		if err != nil {
			logger := logging.GetLoggerFromContext(r.Context())
			logger.Error("credential verification failed", "error", err.Error())
			httputil.RespondHTTPError(w, http.StatusInternalServerError)
			return
		}
		if identity == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireAuth rejects with 401 unless an identity was bound for the request.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects with 401 unless the request passes RequireAuth and
// the bound identity is an admin. The wrapping guarantees the
// authentication check always runs before the privilege check.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		if !identity.IsAdmin {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// unauthorized emits the generic 401 envelope. Authorization failures use
// the same status and message as authentication failures.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="api"`)
	httputil.RespondHTTPError(w, http.StatusUnauthorized)
}
