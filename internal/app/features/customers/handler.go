// internal/app/features/customers/handler.go
package customers

import (
	"net/http"

	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/app/system/authz"
	"github.com/dalemusser/crmhub/internal/app/system/normalize"
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

// NewHandler constructs a customers Handler bound to the given Mongo database.
func NewHandler(db *mongo.Database, activity *activitylog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
		Mgr: NewManager(db, activity, logger),
	}
}

// ServeList serves GET /customers.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	q := ListQuery{
		OwnerEmail: query.Get(r, "ownerEmail"),
		IsArchived: boolParam(r, "isArchived"),
		Tags:       normalize.CSV(query.Get(r, "tags")),
		Search:     query.Get(r, "search"),
		Page:       paging.Parse(r),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list customers")
	defer cancel()

	res, err := h.Mgr.List(ctx, p, q)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

// HandleCreate serves POST /customers.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create customer")
	defer cancel()

	c, err := h.Mgr.Create(ctx, p, in)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

// ServeView serves GET /customers/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view customer")
	defer cancel()

	c, err := h.Mgr.Get(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// HandleUpdate serves PATCH /customers/{id}.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update customer")
	defer cancel()

	c, err := h.Mgr.Update(ctx, p, chi.URLParam(r, "id"), in)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// HandleAddNote serves POST /customers/{id}/notes.
func (h *Handler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in NoteInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "add note")
	defer cancel()

	c, err := h.Mgr.AddNote(ctx, p, chi.URLParam(r, "id"), in)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

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
