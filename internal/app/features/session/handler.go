// internal/app/features/session/handler.go
package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/crmhub/internal/app/features/shared/views"
	userstore "github.com/dalemusser/crmhub/internal/app/store/users"
	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/authz"
	"github.com/dalemusser/crmhub/internal/app/system/inputval"
	"github.com/dalemusser/crmhub/internal/app/system/ratelimit"
	"github.com/dalemusser/crmhub/internal/app/system/respond"
	"github.com/dalemusser/crmhub/internal/app/system/timeouts"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	errInvalidCredentials = apperr.New(apperr.Unauthenticated, "Invalid credentials")
	errTooManyAttempts    = apperr.New(apperr.TooManyRequests, "Too many login attempts, please try again later")
	errUserExists         = apperr.Conflictf("User with this email already exists")
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Users      *userstore.Store
	Activity   *activitylog.Logger
	Limiter    *ratelimit.Limiter
	BcryptCost int
}

// NewHandler wires the session endpoints. limiter and activity may be nil.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, limiter *ratelimit.Limiter, activity *activitylog.Logger, bcryptCost int, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		Users:      userstore.New(db),
		Activity:   activity,
		Limiter:    limiter,
		BcryptCost: bcryptCost,
	}
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request, p auth.Principal, msg string) {
	tok, err := h.SessionMgr.Issue(w, p)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Internalf(err, "sign token"))
		return
	}
	respond.JSON(w, http.StatusOK, Result{
		Message: msg,
		User:    views.User{ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role},
		Token:   tok,
	})
}

// HandleLogin serves POST /auth/login. Unknown e-mail and wrong password
// produce the same 401.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r)
	if h.Limiter != nil && !h.Limiter.Allow(ip) {
		h.Log.Warn("login rate limited", zap.String("ip", ip))
		respond.Error(w, r, h.Log, errTooManyAttempts)
		return
	}

	var in LoginInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		respond.Error(w, r, h.Log, errInvalidCredentials)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, r, h.Log, apperr.Internalf(err, "load user"))
		return
	}
	var hash string
	if u != nil {
		hash = u.PasswordHash
	}
	if !auth.MatchPassword(hash, in.Password) {
		h.Log.Info("login failed", zap.String("ip", ip))
		respond.Error(w, r, h.Log, errInvalidCredentials)
		return
	}

	if h.Limiter != nil {
		h.Limiter.Reset(ip)
	}
	h.Log.Info("login", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))
	h.issue(w, r, auth.PrincipalFromUser(*u), "Logged in successfully")
}

// HandleRefresh serves POST /auth/refresh for an already signed-in caller.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.issue(w, r, p, "Token refreshed successfully")
}

// HandleRegister serves POST /auth/register (Admin only).
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	p, err := authz.Principal(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in RegisterInput
	if err := respond.DecodeJSON(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := inputval.Struct(in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if in.Role == "" {
		in.Role = models.RoleAgent
	}

	hash, err := auth.HashPassword(in.Password, h.BcryptCost)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Internalf(err, "hash password"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register user")
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		respond.Error(w, r, h.Log, errUserExists)
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Internalf(err, "insert user"))
		return
	}

	h.Activity.Record(ctx, activitylog.UserCreated, models.EntityUser, &u.ID, p.ID, map[string]any{
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	})
	respond.Message(w, http.StatusCreated, "User created successfully")
}
