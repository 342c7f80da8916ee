package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/crmhub/internal/app/features/logout"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *logout.Handler {
	t.Helper()
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-signing-key-for-testing-only-0123456789", "token", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return logout.NewHandler(sessionMgr, logger)
}

func TestServeLogout_ClearsCookie(t *testing.T) {
	tests := []struct {
		name   string
		signed bool
	}{
		{"signed in", true},
		{"anonymous", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler(t)
			req := httptest.NewRequest("POST", "/auth/logout", nil)
			if tt.signed {
				req = auth.WithTestPrincipal(req, &auth.Principal{ID: primitive.NewObjectID(), Role: models.RoleAgent})
			}
			rec := httptest.NewRecorder()

			handler.ServeLogout(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
			}
			var cleared *http.Cookie
			for _, c := range rec.Result().Cookies() {
				if c.Name == "token" {
					cleared = c
				}
			}
			if cleared == nil {
				t.Fatal("no token cookie in response")
			}
			if cleared.Value != "" || cleared.MaxAge >= 0 {
				t.Errorf("cookie not cleared: value=%q maxAge=%d", cleared.Value, cleared.MaxAge)
			}
			if !cleared.HttpOnly {
				t.Error("cleared cookie should keep HttpOnly")
			}
			if got := rec.Body.String(); got != "{\"message\":\"Logged out successfully\"}\n" {
				t.Errorf("body: got %q", got)
			}
		})
	}
}
