// internal/app/features/activity/handler.go
package activity

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/crmhub/internal/app/features/shared/views"
	activitystore "github.com/dalemusser/crmhub/internal/app/store/activity"
	userstore "github.com/dalemusser/crmhub/internal/app/store/users"
	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/respond"
	"github.com/dalemusser/crmhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the read side of the activity log.
type Handler struct {
	DB       *mongo.Database
	Activity *activitystore.Store
	Users    *userstore.Store
	Log      *zap.Logger
}

// NewHandler creates a new activity Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Activity: activitystore.New(db),
		Users:    userstore.New(db),
		Log:      logger,
	}
}

// limitParam reads "limit", defaulting to and capped at MaxLatest.
func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(query.Get(r, "limit"))
	if err != nil || n < 1 || n > activitystore.MaxLatest {
		return activitystore.MaxLatest
	}
	return n
}

// ServeList serves GET /activity: the latest entries, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list activity")
	defer cancel()

	entries, err := h.Activity.Latest(ctx, limitParam(r))
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Internalf(err, "list activity"))
		return
	}

	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.PerformedBy)
	}
	us, err := views.LoadUsers(ctx, h.Users, ids...)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Internalf(err, "populate activity users"))
		return
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{
			ID:          e.ID,
			Action:      e.Action,
			Entity:      e.Entity,
			EntityID:    e.EntityID,
			PerformedBy: us.Brief(e.PerformedBy),
			Details:     e.Details,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}
