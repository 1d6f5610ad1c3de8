package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"coursematch.com/backend/internal/bootstrap"
	"coursematch.com/backend/internal/config"
	"coursematch.com/backend/internal/server"
	"coursematch.com/backend/internal/testutil"
	"coursematch.com/backend/pkg/logger"
	"coursematch.com/backend/pkg/session"
	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	if _, err := bootstrap.SeedCatalog(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := server.NewServer(server.Deps{
		Config: &config.Config{RateLimitAvatar: time.Second},
		DB:     db,
		Sessions: session.NewManager(session.Options{
			Secret:      "test-secret",
			TTL:         time.Hour,
			RememberTTL: 48 * time.Hour,
		}, session.NewDBRevocations(db)),
		Log: logger.Nop(),
	})
	return srv.Handler()
}

func do(h http.Handler, method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	h := newTestServer(t)

	rec := do(h, http.MethodGet, "/ping", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "pong") {
		t.Fatalf("ping: code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{"/api/profile", "/api/courses/mine", "/api/following", "/api/auth/me"} {
		rec := do(h, http.MethodGet, path, nil, nil)
		if rec.Code != http.StatusUnauthorized || rec.Body.String() != "NotAuthenticated" {
			t.Fatalf("%s: want 401 NotAuthenticated, got %d %q", path, rec.Code, rec.Body.String())
		}
	}

	rec := do(h, http.MethodGet, "/api/auth/status", nil, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "NotAuthenticated" {
		t.Fatalf("status: got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRegisterEnrollAndLogout(t *testing.T) {
	h := newTestServer(t)

	rec := do(h, http.MethodPost, "/api/auth/register", url.Values{
		"firstname": {"Ada"},
		"lastname":  {"Lovelace"},
		"username":  {"ada"},
		"password":  {"analytical"},
		"confirm":   {"analytical"},
	}, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "UserRegistered" {
		t.Fatalf("register: got %d %q", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("register must set a session cookie")
	}

	rec = do(h, http.MethodGet, "/api/auth/status", nil, cookies)
	if rec.Body.String() != "Authenticated" {
		t.Fatalf("status: want Authenticated, got %q", rec.Body.String())
	}

	rec = do(h, http.MethodGet, "/api/profile?token="+url.QueryEscape(cookies[0].Value), nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("query token outside the stream: want 401, got %d", rec.Code)
	}

	rec = do(h, http.MethodPost, "/api/courses/enroll", url.Values{"code": {"COMPSCI 1JC3"}}, cookies)
	if rec.Code != http.StatusOK || rec.Body.String() != "Course Added" {
		t.Fatalf("enroll: got %d %q", rec.Code, rec.Body.String())
	}
	rec = do(h, http.MethodPost, "/api/courses/enroll", url.Values{"code": {"COMPSCI 1JC3"}}, cookies)
	if rec.Code != http.StatusConflict {
		t.Fatalf("re-enroll: want 409, got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(h, http.MethodGet, "/api/courses/mine", nil, cookies)
	var mine struct {
		Courses []struct {
			Code    string `json:"code"`
			Lecture *struct {
				Section string `json:"section"`
			} `json:"lecture"`
		} `json:"courses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
		t.Fatalf("decode courses: %v (%s)", err, rec.Body.String())
	}
	if len(mine.Courses) != 1 || mine.Courses[0].Lecture == nil || mine.Courses[0].Lecture.Section != "CO1" {
		t.Fatalf("courses: got %s", rec.Body.String())
	}

	rec = do(h, http.MethodGet, "/api/auth/me", nil, cookies)
	var me struct {
		FirstName         string `json:"firstname"`
		ProfileCompletion int    `json:"profileCompletion"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.FirstName != "Ada" || me.ProfileCompletion != 20 {
		t.Fatalf("me: got %s", rec.Body.String())
	}

	rec = do(h, http.MethodPost, "/api/auth/logout", nil, cookies)
	if rec.Code != http.StatusOK || rec.Body.String() != "LoggedOut" {
		t.Fatalf("logout: got %d %q", rec.Code, rec.Body.String())
	}

	// The old cookie must be dead even without redis.
	rec = do(h, http.MethodGet, "/api/auth/status", nil, cookies)
	if rec.Body.String() != "NotAuthenticated" {
		t.Fatalf("status after logout: want NotAuthenticated, got %q", rec.Body.String())
	}
	rec = do(h, http.MethodGet, "/api/profile", nil, cookies)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("profile after logout: want 401, got %d %q", rec.Code, rec.Body.String())
	}
	rec = do(h, http.MethodPost, "/api/auth/logout", nil, cookies)
	if rec.Code != http.StatusUnauthorized || rec.Body.String() != "NotAuthenticated" {
		t.Fatalf("second logout: got %d %q", rec.Code, rec.Body.String())
	}
}

func doJSON(h http.Handler, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestJSONRegisterLoginAndSaveProfile(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(h, http.MethodPost, "/api/auth/register", map[string]string{
		"firstname": "Grace",
		"lastname":  "Hopper",
		"username":  "grace",
		"password":  "cobol1959",
		"confirm":   "cobol1959",
	}, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "UserRegistered" {
		t.Fatalf("register: got %d %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(h, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "grace", "password": "wrong-one", "rememberUser": false,
	}, nil)
	if rec.Code != http.StatusUnauthorized || rec.Body.String() != "LoginFailed" {
		t.Fatalf("bad login: got %d %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(h, http.MethodPost, "/api/auth/login", map[string]any{
		"username": "grace", "password": "cobol1959", "rememberUser": true,
	}, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "LoggedIn" {
		t.Fatalf("login: got %d %q", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge <= 0 {
		t.Fatalf("remembered login must set a persistent cookie, got %+v", cookies)
	}

	rec = doJSON(h, http.MethodPut, "/api/profile", map[string]any{
		"major": "Mathematics", "minor": "Physics", "year": 4, "gpa": 3.9,
		"favclasses": "MATH 1ZA3", "mood": "curious", "bio": "Navy",
	}, cookies)
	if rec.Code != http.StatusOK || rec.Body.String() != "Profile Updated" {
		t.Fatalf("save profile: got %d %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(h, http.MethodPut, "/api/profile", map[string]any{"year": 7}, cookies)
	if rec.Code != http.StatusBadRequest || rec.Body.String() != "Year must between 1 and 4" {
		t.Fatalf("invalid year: got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(h, http.MethodGet, "/api/profile", nil, cookies)
	var info struct {
		Major string  `json:"major"`
		Year  int     `json:"year"`
		GPA   float64 `json:"gpa"`
		Bio   string  `json:"bio"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode profile: %v (%s)", err, rec.Body.String())
	}
	if info.Major != "Mathematics" || info.Year != 4 || info.GPA != 3.9 || info.Bio != "Navy" {
		t.Fatalf("profile: got %s", rec.Body.String())
	}

	rec = do(h, http.MethodPost, "/api/auth/logout", nil, cookies)
	if rec.Body.String() != "RedirectOnly" {
		t.Fatalf("remembered logout: want RedirectOnly, got %q", rec.Body.String())
	}
}
