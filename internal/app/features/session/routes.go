// internal/app/features/session/routes.go
package session

import (
	"net/http"

	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the session endpoints (typically at "/api/auth"). logout
// and listUsers come from their own features.
func Routes(h *Handler, sm *auth.SessionManager, logout, listUsers http.HandlerFunc) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.HandleLogin)
	r.Post("/logout", logout)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/refresh", h.HandleRefresh)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))
		pr.Post("/register", h.HandleRegister)
		pr.Get("/users", listUsers)
	})

	return r
}
