package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dalemusser/crmhub/internal/app/system/apperr"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", apperr.BadRequestf("missing %s", "name"), http.StatusBadRequest},
		{"unauthenticated", apperr.New(apperr.Unauthenticated, "Invalid credentials"), http.StatusUnauthorized},
		{"forbidden", apperr.Forbiddenf("Not allowed"), http.StatusForbidden},
		{"not found", apperr.NotFoundf("Lead not found"), http.StatusNotFound},
		{"conflict", apperr.Conflictf("duplicate"), http.StatusConflict},
		{"rate limited", apperr.New(apperr.TooManyRequests, "slow down"), http.StatusTooManyRequests},
		{"internal", apperr.Internalf(errors.New("boom"), "insert lead"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", apperr.NotFoundf("Task not found")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperr.Status(tt.err); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	if got := apperr.PublicMessage(apperr.NotFoundf("Lead not found")); got != "Lead not found" {
		t.Errorf("got %q, want %q", got, "Lead not found")
	}
	if got := apperr.PublicMessage(apperr.Internalf(errors.New("socket closed"), "find lead")); got != "internal server error" {
		t.Errorf("internal message leaked: %q", got)
	}
	if got := apperr.PublicMessage(errors.New("raw")); got != "internal server error" {
		t.Errorf("raw message leaked: %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := apperr.Wrap(apperr.Conflict, "dup", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !apperr.Is(err, apperr.Conflict) {
		t.Error("expected Is(Conflict) to be true")
	}
	if apperr.Is(err, apperr.NotFound) {
		t.Error("expected Is(NotFound) to be false")
	}
}
