// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"phishguard/internal/app"
)

const genericErrorMessage = "Something went wrong. Please try again."

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.sessionUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method != http.MethodPost {
		s.renderPage(w, "register.page.html", &PageData{Title: "Register"})
		return
	}

	in := app.RegisterInput{
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		FullName:        r.FormValue("full_name"),
	}

	user, err := s.register.Register(r.Context(), in)
	if err != nil {
		s.renderPage(w, "register.page.html", &PageData{
			Title:   "Register",
			Message: registerMessage(err),
			Form: map[string]string{
				"username":  in.Username,
				"email":     in.Email,
				"full_name": in.FullName,
			},
		})
		return
	}

	log.Printf("registered user %q (id %d)", user.Username, user.ID)

	s.renderPage(w, "register.page.html", &PageData{
		Title:   "Register",
		Message: "Registration successful!",
		Success: true,
	})
}

// registerMessage maps registration errors to the message shown on the form.
// Unknown errors collapse to a generic message so store detail never leaks.
func registerMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrMissingFields):
		return "Please fill in all required fields."
	case errors.Is(err, app.ErrPasswordMismatch):
		return "Passwords do not match."
	case errors.Is(err, app.ErrPasswordTooShort):
		return fmt.Sprintf("Password must be at least %d characters long.", app.MinPasswordLength)
	case errors.Is(err, app.ErrInvalidEmail):
		return "Please enter a valid email address."
	case errors.Is(err, app.ErrAccountExists):
		return "Username or email already exists."
	case errors.Is(err, app.ErrRegistrationFailed):
		return "Registration failed. Please try again."
	default:
		log.Printf("register: %v", err)
		return genericErrorMessage
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.sessionUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if r.Method != http.MethodPost {
		s.renderPage(w, "login.page.html", &PageData{
			Title: "Login",
			Form:  map[string]string{"sso": ssoFlag(s.oidcConfig.Enabled)},
		})
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	renderError := func(msg string) {
		s.renderPage(w, "login.page.html", &PageData{
			Title:   "Login",
			Message: msg,
			Form: map[string]string{
				"username": username,
				"sso":      ssoFlag(s.oidcConfig.Enabled),
			},
		})
	}

	if username == "" || password == "" {
		renderError("Please fill in all fields.")
		return
	}

	token, err := s.auth.Login(r.Context(), username, password)
	if errors.Is(err, app.ErrInvalidCredentials) {
		renderError("Invalid username or password.")
		return
	}
	if err != nil {
		log.Printf("login %q: %v", username, err)
		renderError(genericErrorMessage)
		return
	}

	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			log.Printf("logout: %v", err)
		}
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func ssoFlag(enabled bool) string {
	if enabled {
		return "1"
	}
	return ""
}
