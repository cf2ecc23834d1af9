package adapthttp

import (
	"errors"
	"log"
	"net/http"

	"phishguard/internal/app"
	"phishguard/internal/domain"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if r.Method != http.MethodPost {
		s.renderPage(w, "profile.page.html", &PageData{Title: "Profile", User: user})
		return
	}

	updated, err := s.profile.Update(r.Context(), user.ID, domain.ProfileUpdate{
		FullName: r.FormValue("full_name"),
		Email:    r.FormValue("email"),
	})
	if err != nil {
		s.renderPage(w, "profile.page.html", &PageData{
			Title:   "Profile",
			User:    user,
			Message: profileMessage(err),
			Form: map[string]string{
				"full_name": r.FormValue("full_name"),
				"email":     r.FormValue("email"),
			},
		})
		return
	}

	s.renderPage(w, "profile.page.html", &PageData{
		Title:   "Profile",
		User:    updated,
		Message: "Profile updated successfully!",
		Success: true,
	})
}

func profileMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrEmailRequired):
		return "Email is required."
	case errors.Is(err, app.ErrEmailTaken), errors.Is(err, domain.ErrDuplicateUser):
		// ErrDuplicateUser is the constraint firing on a concurrent grab of
		// the same email.
		return "Email is already taken."
	default:
		log.Printf("profile update: %v", err)
		return genericErrorMessage
	}
}
