// internal/app/features/users/handler.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/crmhub/internal/app/store/users"
	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/authz"
	"github.com/dalemusser/crmhub/internal/app/system/inputval"
	"github.com/dalemusser/crmhub/internal/app/system/respond"
	"github.com/dalemusser/crmhub/internal/app/system/timeouts"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	errUserNotFound = apperr.NotFoundf("User not found")
	errUserExists   = apperr.Conflictf("User with this email already exists")
)

// Handler serves user administration. Every route is Admin only.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Users    *userstore.Store
	Activity *activitylog.Logger
}

func NewHandler(db *mongo.Database, activity *activitylog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Users:    userstore.New(db),
		Activity: activity,
	}
}

func (h *Handler) load(ctx context.Context, rawID string) (*models.User, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return nil, errUserNotFound
	}
	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load user")
	}
	return u, nil
}

// ServeList serves GET /users and GET /auth/users. Password hashes are
// never serialised.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list users")
	defer cancel()

	list, err := h.Users.List(ctx)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Internalf(err, "list users"))
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// HandleUpdate serves PATCH /users/{id}.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update user")
	defer cancel()

	u, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if in.Name != nil {
		*in.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		*in.Email = strings.TrimSpace(*in.Email)
	}
	if err := inputval.Struct(in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if (in.Name != nil && *in.Name == "") || (in.Email != nil && *in.Email == "") {
		respond.Error(w, r, h.Log, apperr.BadRequestf("name and emailId cannot be empty"))
		return
	}

	updated, err := h.Users.Update(ctx, u.ID, userstore.Update{Name: in.Name, Email: in.Email, Role: in.Role})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Error(w, r, h.Log, errUserExists)
		return
	case errors.Is(err, mongo.ErrNoDocuments):
		respond.Error(w, r, h.Log, errUserNotFound)
		return
	case err != nil:
		respond.Error(w, r, h.Log, apperr.Internalf(err, "update user"))
		return
	}

	changes := map[string]any{}
	if in.Name != nil {
		changes["name"] = updated.Name
	}
	if in.Email != nil {
		changes["email"] = updated.Email
	}
	if in.Role != nil {
		changes["role"] = updated.Role
	}
	h.Activity.Record(ctx, activitylog.UserUpdated, models.EntityUser, &updated.ID, p.ID, map[string]any{"changes": changes})
	respond.JSON(w, http.StatusOK, updated)
}

// HandleDelete serves DELETE /users/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete user")
	defer cancel()

	u, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := h.Users.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, r, h.Log, errUserNotFound)
			return
		}
		respond.Error(w, r, h.Log, apperr.Internalf(err, "delete user"))
		return
	}

	h.Activity.Record(ctx, activitylog.UserDeleted, models.EntityUser, &u.ID, p.ID, map[string]any{
		"email": u.Email,
		"role":  u.Role,
	})
	respond.Message(w, http.StatusOK, "User deleted successfully")
}
