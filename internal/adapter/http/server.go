package adapthttp

import (
	"net/http"
	"path/filepath"

	"phishguard/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth        *app.AuthService
	register    *app.RegisterService
	profile     *app.ProfileService
	webDir      string
	forwardAuth bool
	oidcConfig  OIDCConfig
}

// New creates a Server wired to the given application services. webDir holds
// the templates/ and static/ directories.
func New(auth *app.AuthService, register *app.RegisterService, profile *app.ProfileService, webDir string) *Server {
	return &Server{auth: auth, register: register, profile: profile, webDir: webDir}
}

// WithForwardAuth trusts the Remote-User header set by an authenticating
// reverse proxy. Only enable behind a proxy that strips the header from
// client requests.
func (s *Server) WithForwardAuth() *Server {
	s.forwardAuth = true
	return s
}

// WithOIDC enables SSO login through the given provider.
func (s *Server) WithOIDC(cfg OIDCConfig) *Server {
	s.oidcConfig = cfg
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)

	mux.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	mux.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	mux.Handle("/profile", s.requireLogin(http.HandlerFunc(s.handleProfile)))
	mux.Handle("/", s.requireLogin(http.HandlerFunc(s.handleHome)))

	static := http.FileServer(http.Dir(filepath.Join(s.webDir, "static")))
	mux.Handle("/static/", http.StripPrefix("/static/", static))

	return s.loggingMiddleware(withNoCache(mux))
}

// handleHome renders the main page with the account's plan and the
// permission set it derives.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	user := userFrom(r.Context())
	s.renderPage(w, "home.page.html", &PageData{
		Title:       "Dashboard",
		User:        user,
		Permissions: app.PermissionsForPlan(user.Plan),
	})
}
