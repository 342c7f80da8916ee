package users_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/crmhub/internal/app/features/users"
	activitystore "github.com/dalemusser/crmhub/internal/app/store/activity"
	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/indexes"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"github.com/dalemusser/crmhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*users.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, logger); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	act := activitylog.New(activitystore.New(db), logger, activitylog.Config{Mode: activitylog.ModeDB})
	return users.NewHandler(db, act, logger), testutil.NewFixtures(t, db)
}

func patch(t *testing.T, h *users.Handler, id string, body map[string]string, as models.User) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.WithChiURLParam(testutil.JSONRequest(t, "PATCH", "/users/"+id, body), "id", id)
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, testutil.As(req, as))
	return rec
}

func TestServeList_ExcludesPasswords(t *testing.T) {
	handler, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fx.CreateAdmin(ctx, "Ada Admin", "ada@example.com")
	fx.CreateAgent(ctx, "Ann Agent", "ann@example.com")

	rec := httptest.NewRecorder()
	handler.ServeList(rec, testutil.As(httptest.NewRequest("GET", "/users", nil), admin))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Errorf("password leaked: %s", rec.Body.String())
	}
	var got []map[string]any
	testutil.DecodeBody(t, rec, &got)
	if len(got) != 2 {
		t.Errorf("users: got %d, want 2", len(got))
	}
}

func TestRoutes_AdminOnly(t *testing.T) {
	handler, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	agent := fx.CreateAgent(ctx, "Ann Agent", "ann@example.com")

	sm, err := auth.NewSessionManager("test-signing-key-for-testing-only-0123456789", "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	router := users.Routes(handler, sm)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.As(httptest.NewRequest("GET", "/", nil), agent))
	if rec.Code != http.StatusForbidden {
		t.Errorf("agent: expected status %d, got %d", http.StatusForbidden, rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestHandleUpdate(t *testing.T) {
	handler, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fx.CreateAdmin(ctx, "Ada Admin", "ada@example.com")
	ann := fx.CreateAgent(ctx, "Ann Agent", "ann@example.com")
	fx.CreateAgent(ctx, "Bob Agent", "bob@example.com")

	tests := []struct {
		name     string
		id       string
		body     map[string]string
		wantCode int
	}{
		{"unknown id", "65f000000000000000000000", map[string]string{"name": "X Y"}, http.StatusNotFound},
		{"malformed id", "nope", map[string]string{"name": "X Y"}, http.StatusNotFound},
		{"invalid role", ann.ID.Hex(), map[string]string{"role": "Owner"}, http.StatusBadRequest},
		{"invalid email", ann.ID.Hex(), map[string]string{"emailId": "nope"}, http.StatusBadRequest},
		{"duplicate email", ann.ID.Hex(), map[string]string{"emailId": "BOB@example.com"}, http.StatusConflict},
		{"promote", ann.ID.Hex(), map[string]string{"name": "Ann Admin", "role": models.RoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := patch(t, handler, tt.id, tt.body, admin)
			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}

	var stored models.User
	if err := fx.DB().Collection("users").FindOne(ctx, bson.M{"_id": ann.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Name != "Ann Admin" || stored.Role != models.RoleAdmin || stored.Email != "ann@example.com" {
		t.Errorf("stored: got (%q, %q, %q)", stored.Name, stored.Role, stored.Email)
	}
	n, err := fx.DB().Collection("activities").CountDocuments(ctx, bson.M{"action": activitylog.UserUpdated, "details.changes.role": models.RoleAdmin})
	if err != nil || n != 1 {
		t.Errorf("activity entries: got (%d, %v), want 1", n, err)
	}
}

func TestHandleDelete(t *testing.T) {
	handler, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fx.CreateAdmin(ctx, "Ada Admin", "ada@example.com")
	ann := fx.CreateAgent(ctx, "Ann Agent", "ann@example.com")

	del := func(id string) int {
		req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/users/"+id, nil), "id", id)
		rec := httptest.NewRecorder()
		handler.HandleDelete(rec, testutil.As(req, admin))
		return rec.Code
	}

	if code := del(ann.ID.Hex()); code != http.StatusOK {
		t.Fatalf("delete: expected status %d, got %d", http.StatusOK, code)
	}
	if code := del(ann.ID.Hex()); code != http.StatusNotFound {
		t.Errorf("second delete: expected status %d, got %d", http.StatusNotFound, code)
	}

	n, err := fx.DB().Collection("users").CountDocuments(ctx, bson.M{"_id": ann.ID})
	if err != nil || n != 0 {
		t.Errorf("user still stored: (%d, %v)", n, err)
	}
	n, err = fx.DB().Collection("activities").CountDocuments(ctx, bson.M{"action": activitylog.UserDeleted, "entity_id": ann.ID})
	if err != nil || n != 1 {
		t.Errorf("activity entries: got (%d, %v), want 1", n, err)
	}
}
