package adapthttp_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	adapthttp "phishguard/internal/adapter/http"
	"phishguard/internal/adapter/memory"
	"phishguard/internal/app"
)

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

// newTestServer wires real services onto the in-memory store and serves the
// repo's actual templates.
func newTestServer(t *testing.T) (*httptest.Server, *memory.DB) {
	t.Helper()

	db := memory.New()
	sessions := memory.NewSessionRepo(db)

	authSvc := app.NewAuthService(db, sessions)
	registerSvc := app.NewRegisterService(db)
	profileSvc := app.NewProfileService(db)

	webDir := filepath.Join("..", "..", "..", "web")
	srv := adapthttp.New(authSvc, registerSvc, profileSvc, webDir)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, db
}

// newClient returns a cookie-keeping client that does not follow redirects,
// so tests can assert on them.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, c *http.Client, rawURL string, form url.Values) *http.Response {
	t.Helper()

	resp, err := c.PostForm(rawURL, form)
	if err != nil {
		t.Fatalf("POST %s: %v", rawURL, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close() //nolint:errcheck
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func registerAlice(t *testing.T, c *http.Client, baseURL string) {
	t.Helper()

	resp := postForm(t, c, baseURL+"/register", url.Values{
		"username":         {"alice"},
		"email":            {"alice@x.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
		"full_name":        {"Alice A"},
	})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Registration successful!") {
		t.Fatalf("register: missing success message in body:\n%s", body)
	}
}

func loginAlice(t *testing.T, c *http.Client, baseURL string) {
	t.Helper()

	resp := postForm(t, c, baseURL+"/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	})
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("login: expected redirect to /, got %q", loc)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"ok":true`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRegisterLoginProfileLogoutFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)

	registerAlice(t, c, ts.URL)
	loginAlice(t, c, ts.URL)

	// The dashboard is gated and shows the derived permission set.
	resp, err := c.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("home: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Alice A") || !strings.Contains(body, "free") {
		t.Errorf("home missing account details:\n%s", body)
	}
	if !strings.Contains(body, "scan_basic") || strings.Contains(body, "scan_advanced") {
		t.Errorf("free plan must grant exactly scan_basic:\n%s", body)
	}

	// Profile update.
	resp = postForm(t, c, ts.URL+"/profile", url.Values{
		"full_name": {"Alice B"},
		"email":     {"alice.b@x.com"},
	})
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Profile updated successfully!") {
		t.Errorf("profile update missing success message:\n%s", body)
	}
	if !strings.Contains(body, "alice.b@x.com") {
		t.Errorf("profile page not showing the new email:\n%s", body)
	}

	// Logout kills the session.
	resp = postForm(t, c, ts.URL+"/logout", url.Values{})
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("logout: expected 303 to /login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, err = c.Get(ts.URL + "/profile")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("after logout: expected 303, got %d", resp.StatusCode)
	}
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	ts, db := newTestServer(t)

	c := newClient(t)
	registerAlice(t, c, ts.URL)

	attempts := []url.Values{
		{"username": {"alice"}, "password": {"wrong"}},
		{"username": {"nosuchuser"}, "password": {"secret1"}},
	}

	// Third case: correct credentials but deactivated account.
	db.Deactivate(1)
	attempts = append(attempts, url.Values{"username": {"alice"}, "password": {"secret1"}})

	for i, form := range attempts {
		fresh := newClient(t)
		resp := postForm(t, fresh, ts.URL+"/login", form)
		body := readBody(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i, resp.StatusCode)
		}
		if !strings.Contains(body, "Invalid username or password.") {
			t.Errorf("attempt %d: missing the generic message:\n%s", i, body)
		}
	}
}

func TestLoginEmptyFields(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)

	resp := postForm(t, c, ts.URL+"/login", url.Values{"username": {"alice"}})
	body := readBody(t, resp)
	if !strings.Contains(body, "Please fill in all fields.") {
		t.Errorf("missing empty-fields message:\n%s", body)
	}
}

func TestRegisterRerendersWithStickyValues(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)

	resp := postForm(t, c, ts.URL+"/register", url.Values{
		"username":         {"alice"},
		"email":            {"alice@x.com"},
		"password":         {"secret1"},
		"confirm_password": {"different"},
		"full_name":        {"Alice A"},
	})
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Passwords do not match.") {
		t.Errorf("missing mismatch message:\n%s", body)
	}
	if !strings.Contains(body, `value="alice"`) || !strings.Contains(body, `value="alice@x.com"`) {
		t.Errorf("form values not preserved:\n%s", body)
	}
	// Rejected registration must not have created the account.
	resp = postForm(t, c, ts.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	})
	body = readBody(t, resp)
	if !strings.Contains(body, "Invalid username or password.") {
		t.Error("account must not exist after a rejected registration")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	ts, _ := newTestServer(t)

	registerAlice(t, newClient(t), ts.URL)

	resp := postForm(t, newClient(t), ts.URL+"/register", url.Values{
		"username":         {"alice"},
		"email":            {"other@x.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})
	body := readBody(t, resp)
	if !strings.Contains(body, "Username or email already exists.") {
		t.Errorf("missing duplicate message:\n%s", body)
	}

	// Same email in different case is still the same account.
	resp = postForm(t, newClient(t), ts.URL+"/register", url.Values{
		"username":         {"carol"},
		"email":            {"ALICE@X.COM"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})
	body = readBody(t, resp)
	if !strings.Contains(body, "Username or email already exists.") {
		t.Errorf("case-varied email must be rejected as a duplicate:\n%s", body)
	}
}

func TestProfileEmailTakenLeavesRowUnchanged(t *testing.T) {
	ts, db := newTestServer(t)

	registerAlice(t, newClient(t), ts.URL)

	bob := newClient(t)
	resp := postForm(t, bob, ts.URL+"/register", url.Values{
		"username":         {"bob"},
		"email":            {"bob@x.com"},
		"password":         {"secret2"},
		"confirm_password": {"secret2"},
	})
	readBody(t, resp)

	resp = postForm(t, bob, ts.URL+"/login", url.Values{
		"username": {"bob"},
		"password": {"secret2"},
	})
	defer resp.Body.Close() //nolint:errcheck

	resp = postForm(t, bob, ts.URL+"/profile", url.Values{
		"full_name": {"Bob"},
		"email":     {"alice@x.com"},
	})
	body := readBody(t, resp)
	if !strings.Contains(body, "Email is already taken.") {
		t.Errorf("missing taken message:\n%s", body)
	}

	stored, err := db.GetByUsername(context.Background(), "bob")
	if err != nil || stored == nil {
		t.Fatalf("lookup bob: %v", err)
	}
	if stored.Email != "bob@x.com" {
		t.Errorf("rejected update must not change the row, email is now %q", stored.Email)
	}
}

func TestRequireLoginRedirects(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)

	for _, path := range []string{"/", "/profile"} {
		resp, err := c.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("%s: expected 303, got %d", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/login" {
			t.Errorf("%s: expected redirect to /login, got %q", path, loc)
		}
	}
}

func TestLoginPageRedirectsWhenAuthenticated(t *testing.T) {
	ts, _ := newTestServer(t)
	c := newClient(t)

	registerAlice(t, c, ts.URL)
	loginAlice(t, c, ts.URL)

	for _, path := range []string{"/login", "/register"} {
		resp, err := c.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close() //nolint:errcheck
		if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
			t.Errorf("%s: expected 303 to /, got %d %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}
}

func TestSSODisabledByDefault(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/auth/sso/login")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
