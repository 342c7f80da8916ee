// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dalemusser/crmhub/internal/app/features/shared/views"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/respond"
)

// Handler reports who the current caller is.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

type response struct {
	IsAuthenticated bool        `json:"isAuthenticated"`
	User            *views.User `json:"user"`
}

// ServeUserInfo returns the caller's identity, or isAuthenticated=false.
// It never fails, so the browser client can probe its session with it.
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		respond.JSON(w, http.StatusOK, response{})
		return
	}
	respond.JSON(w, http.StatusOK, response{
		IsAuthenticated: true,
		User:            &views.User{ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role},
	})
}
