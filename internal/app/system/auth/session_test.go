package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T, secure bool) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"token",
		"",
		24*time.Hour,
		secure,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

type stubFetcher struct {
	users map[string]*auth.Principal
}

func (f stubFetcher) FetchUser(_ context.Context, id string) *auth.Principal {
	return f.users[id]
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestIssue_SetsCookie(t *testing.T) {
	sm := newTestSessionManager(t, true)
	rec := httptest.NewRecorder()

	tok, err := sm.Issue(rec, auth.Principal{ID: primitive.NewObjectID(), Role: "Agent"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "token" || c.Value != tok {
		t.Errorf("cookie: got %s=%q, want token=%q", c.Name, c.Value, tok)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Errorf("cookie attributes wrong: %+v", c)
	}
	if c.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Errorf("MaxAge: got %d", c.MaxAge)
	}
}

func TestClear_ExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t, false)
	rec := httptest.NewRecorder()

	sm.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Errorf("cookie not cleared: %+v", cookies[0])
	}
}

func TestLoadPrincipal_FromCookieAndBearer(t *testing.T) {
	sm := newTestSessionManager(t, false)
	id := primitive.NewObjectID()
	sm.SetUserFetcher(stubFetcher{users: map[string]*auth.Principal{
		id.Hex(): {ID: id, Name: "Ada", Email: "ada@example.com", Role: "Agent"},
	}})

	issued := httptest.NewRecorder()
	tok, err := sm.Issue(issued, auth.Principal{ID: id, Role: "Agent"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: tok}) }},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *auth.Principal
			h := sm.LoadPrincipal(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = auth.CurrentPrincipal(r)
			}))

			req := httptest.NewRequest("GET", "/api/lead", nil)
			tt.setup(req)
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got == nil {
				t.Fatal("expected principal in context")
			}
			if got.ID != id || got.Name != "Ada" {
				t.Errorf("principal: got %+v", got)
			}
		})
	}
}

func TestLoadPrincipal_DeletedUser(t *testing.T) {
	sm := newTestSessionManager(t, false)
	sm.SetUserFetcher(stubFetcher{users: map[string]*auth.Principal{}})

	rec := httptest.NewRecorder()
	tok, _ := sm.Issue(rec, auth.Principal{ID: primitive.NewObjectID(), Role: "Admin"})

	h := sm.LoadPrincipal(sm.RequireSignedIn(okHandler()))
	req := httptest.NewRequest("GET", "/api/lead", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	out := httptest.NewRecorder()
	h.ServeHTTP(out, req)

	if out.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, out.Code)
	}
}

func TestLoadPrincipal_BadToken(t *testing.T) {
	sm := newTestSessionManager(t, false)

	h := sm.LoadPrincipal(sm.RequireSignedIn(okHandler()))
	req := httptest.NewRequest("GET", "/api/lead", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("expected JSON error body, got %q", rec.Body.String())
	}
}

func TestRequireSignedIn(t *testing.T) {
	sm := newTestSessionManager(t, false)
	h := sm.RequireSignedIn(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/lead", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no principal: expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	req := auth.WithTestPrincipal(httptest.NewRequest("GET", "/api/lead", nil),
		&auth.Principal{ID: primitive.NewObjectID(), Role: "Agent"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("with principal: expected %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	sm := newTestSessionManager(t, false)
	h := sm.RequireRole("Admin")(okHandler())

	tests := []struct {
		role string
		want int
	}{
		{"Admin", http.StatusOK},
		{"ADMIN", http.StatusOK},
		{"Agent", http.StatusForbidden},
		{"", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/register", nil)
			if tt.role != "" {
				req = auth.WithTestPrincipal(req, &auth.Principal{ID: primitive.NewObjectID(), Role: tt.role})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("role %q: expected %d, got %d", tt.role, tt.want, rec.Code)
			}
		})
	}
}

func TestNewSessionManager_EmptySecret(t *testing.T) {
	if _, err := auth.NewSessionManager("", "token", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty secret")
	}
}
