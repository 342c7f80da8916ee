// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/respond"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles POST /auth/logout. The cookie is cleared whether or
// not the caller was signed in.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if p, ok := auth.CurrentPrincipal(r); ok {
		h.Log.Info("logout", zap.String("user_id", p.ID.Hex()))
	}
	h.SessionMgr.Clear(w)
	respond.Message(w, http.StatusOK, "Logged out successfully")
}
