// internal/app/features/leads/handler.go
package leads

import (
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

// NewHandler constructs a leads Handler bound to the given Mongo database.
func NewHandler(db *mongo.Database, activity *activitylog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
		Mgr: NewManager(db, activity, logger),
	}
}

// HandleCreate serves POST /lead.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create lead")
	defer cancel()

	lead, err := h.Mgr.Create(ctx, p, in)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, lead)
}

// ServeList serves GET /lead.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	q := ListQuery{
		Status:        query.Get(r, "status"),
		IsArchived:    boolParam(r, "isArchived"),
		AssignedAgent: query.Get(r, "assignedAgent"),
		Search:        query.Get(r, "search"),
		Page:          paging.Parse(r),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list leads")
	defer cancel()

	res, err := h.Mgr.List(ctx, p, q)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// ServeView serves GET /lead/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view lead")
	defer cancel()

	lead, err := h.Mgr.Get(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, lead)
}

// HandleUpdate serves PATCH /lead/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in UpdateInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update lead")
	defer cancel()

	lead, err := h.Mgr.Update(ctx, p, chi.URLParam(r, "id"), in)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, lead)
}

// HandleArchive serves DELETE /lead/{id}.
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "archive lead")
	defer cancel()

	lead, err := h.Mgr.Archive(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, lead)
}

// HandleConvert serves POST /lead/{id}/convert.
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "convert lead")
	defer cancel()

	res, err := h.Mgr.Convert(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, res)
}

// boolParam reads "true"/"false"; any other value, or none, is nil.
func boolParam(r *http.Request, key string) *bool {
	switch query.Get(r, key) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
