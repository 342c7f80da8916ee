// internal/app/features/tasks/handler.go
package tasks

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/app/system/authz"
	"github.com/dalemusser/crmhub/internal/app/system/paging"
	"github.com/dalemusser/crmhub/internal/app/system/respond"
	"github.com/dalemusser/crmhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
	Mgr *Manager
}

// NewHandler constructs a tasks Handler bound to the given Mongo database.
func NewHandler(db *mongo.Database, activity *activitylog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
		Mgr: NewManager(db, activity, logger),
	}
}

// ServeList serves GET /tasks.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	q := ListQuery{
		Owner:   query.Get(r, "owner"),
		Status:  query.Get(r, "status"),
		Overdue: query.Get(r, "due") == "overdue",
		Page:    paging.Parse(r),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list tasks")
	defer cancel()

	res, err := h.Mgr.List(ctx, p, q)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// HandleCreate serves POST /tasks.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in CreateInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create task")
	defer cancel()

	t, err := h.Mgr.Create(ctx, p, in)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, t)
}

// ServeView serves GET /tasks/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view task")
	defer cancel()

	t, err := h.Mgr.Get(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

// HandleUpdate serves PATCH /tasks/{id}. The raw payload is kept for the activity log.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var body json.RawMessage
	if err := respond.DecodeJSON(r, &body); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in UpdateInput
	if err := respond.Unmarshal(body, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var raw map[string]any
	if err := respond.Unmarshal(body, &raw); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update task")
	defer cancel()

	t, err := h.Mgr.Update(ctx, p, chi.URLParam(r, "id"), in, raw)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}
