package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/respond"
	"go.uber.org/zap"
)

func TestError_WritesKindStatusAndMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lead/x", nil)

	respond.Error(rec, req, zap.NewNop(), apperr.NotFoundf("Lead not found"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if body["error"] != "Lead not found" {
		t.Errorf("error: got %q, want %q", body["error"], "Lead not found")
	}
}

func TestError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/lead", nil)

	respond.Error(rec, req, zap.NewNop(), errors.New("connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name     string
		body     string
		wantErr  bool
		wantName string
	}{
		{"valid", `{"name":"Ada"}`, false, "Ada"},
		{"empty body", ``, false, ""},
		{"unknown field ignored", `{"name":"Ada","x":1}`, false, "Ada"},
		{"malformed", `{"name":`, true, ""},
		{"wrong type", `{"name":5}`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			var p payload
			err := respond.DecodeJSON(req, &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && apperr.KindOf(err) != apperr.BadRequest {
				t.Errorf("kind: got %v, want bad_request", apperr.KindOf(err))
			}
			if p.Name != tt.wantName {
				t.Errorf("name: got %q, want %q", p.Name, tt.wantName)
			}
		})
	}
}

func TestJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.JSON(rec, http.StatusCreated, map[string]int{"n": 1})

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
}

func TestUnmarshal(t *testing.T) {
	var p struct {
		Age int `json:"age"`
	}
	if err := respond.Unmarshal([]byte("  "), &p); err != nil {
		t.Errorf("empty: got %v, want nil", err)
	}
	err := respond.Unmarshal([]byte(`{"age":"old"}`), &p)
	if apperr.PublicMessage(err) != "invalid value for age" {
		t.Errorf("type error: got %v", err)
	}
	if err := respond.Unmarshal([]byte(`{"age":3}`), &p); err != nil || p.Age != 3 {
		t.Errorf("valid: got (%v, %d)", err, p.Age)
	}
}
