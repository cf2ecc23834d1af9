package adapthttp

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"phishguard/internal/app"
	"phishguard/internal/domain"
)

// PageData is the view model for every rendered page. Message plus Success is
// the discriminated form result: handlers set both explicitly instead of
// encoding the outcome in the message text.
type PageData struct {
	Title       string
	User        *domain.User
	Message     string
	Success     bool
	Form        map[string]string
	Permissions []app.Permission
}

var functions = template.FuncMap{
	// formatDate accepts both time.Time and the nullable *time.Time used for
	// last_login.
	"formatDate": func(v any) string {
		var t time.Time
		switch d := v.(type) {
		case time.Time:
			t = d
		case *time.Time:
			if d == nil {
				return ""
			}
			t = *d
		default:
			return ""
		}
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
}

// renderPage renders a page template inside the base layout. Templates are
// parsed per request so edits show up without a restart.
func (s *Server) renderPage(w http.ResponseWriter, pageFile string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}

	files := []string{
		filepath.Join(s.webDir, "templates", "base.layout.html"),
		filepath.Join(s.webDir, "templates", pageFile),
	}

	ts, err := template.New("").Funcs(functions).ParseFiles(files...)
	if err != nil {
		log.Printf("render %s: %v", pageFile, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		log.Printf("render %s: %v", pageFile, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
