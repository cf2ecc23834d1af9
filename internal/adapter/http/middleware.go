package adapthttp

import (
	"context"
	"log"
	"net/http"
	"time"

	"phishguard/internal/app"
	"phishguard/internal/domain"

	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

// userFrom returns the authenticated user placed in the context by
// requireLogin, or nil outside gated handlers.
func userFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userContextKey).(*domain.User)
	return u
}

// requireLogin resolves the session and puts the user in the request
// context. Anything short of a valid session for an existing account
// redirects to the login page.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Trusted reverse-proxy header first, when enabled.
		if s.forwardAuth {
			if remoteUser := r.Header.Get("Remote-User"); remoteUser != "" {
				user, err := s.auth.AuthorizeExternal(r.Context(), remoteUser)
				if err == nil && user != nil {
					ctx := context.WithValue(r.Context(), userContextKey, user)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
		}

		user := s.sessionUser(r)
		if user == nil {
			// Covers the stale-session case too: CurrentUser already dropped
			// the server-side session, this drops the cookie.
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionUser resolves the session cookie to a user, or nil when the request
// is not authenticated. Store failures read as "not logged in" after being
// logged; no detail reaches the client.
func (s *Server) sessionUser(r *http.Request) *domain.User {
	token := sessionToken(r)
	if token == "" {
		return nil
	}

	user, err := s.auth.CurrentUser(r.Context(), token)
	if err != nil {
		switch err {
		case app.ErrSessionNotFound, app.ErrSessionExpired, app.ErrUserNotFound:
			// Routine: the session is simply gone.
		default:
			log.Printf("session lookup: %v", err)
		}
		return nil
	}
	return user
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs one line per request with a generated request id.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Printf("%s %s %s %d %s", reqID, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
