// internal/app/bootstrap/routes.go
package bootstrap

import (
	"encoding/hex"
	"errors"
	"net/http"

	activityfeature "github.com/dalemusser/crmhub/internal/app/features/activity"
	customersfeature "github.com/dalemusser/crmhub/internal/app/features/customers"
	healthfeature "github.com/dalemusser/crmhub/internal/app/features/health"
	leadsfeature "github.com/dalemusser/crmhub/internal/app/features/leads"
	logoutfeature "github.com/dalemusser/crmhub/internal/app/features/logout"
	sessionfeature "github.com/dalemusser/crmhub/internal/app/features/session"
	tasksfeature "github.com/dalemusser/crmhub/internal/app/features/tasks"
	userinfofeature "github.com/dalemusser/crmhub/internal/app/features/userinfo"
	usersfeature "github.com/dalemusser/crmhub/internal/app/features/users"
	activitystore "github.com/dalemusser/crmhub/internal/app/store/activity"
	userstore "github.com/dalemusser/crmhub/internal/app/store/users"
	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router.
//
// Every request gets a request id and, when it carries a valid token, a
// principal. The JSON API lives under /api; /health sits beside it for
// load balancers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secret, err := signingSecret(coreCfg, appCfg, logger)
	if err != nil {
		return nil, err
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(secret, appCfg.CookieName, appCfg.CookieDomain, appCfg.TokenTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	db := deps.MongoDatabase
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	activity := activitylog.New(activitystore.New(db), logger, activitylog.Config{Mode: appCfg.ActivityLog})

	limiter := loginLimiter
	if limiter == nil {
		limiter = ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
		loginLimiter = limiter
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(sessionMgr.LoadPrincipal)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	usersHandler := usersfeature.NewHandler(db, activity, logger)
	sessionHandler := sessionfeature.NewHandler(db, sessionMgr, limiter, activity, appCfg.BcryptCost, logger)
	leadsHandler := leadsfeature.NewHandler(db, activity, logger)
	customersHandler := customersfeature.NewHandler(db, activity, logger)
	tasksHandler := tasksfeature.NewHandler(db, activity, logger)
	activityHandler := activityfeature.NewHandler(db, logger)

	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", sessionfeature.Routes(sessionHandler, sessionMgr, logoutHandler.ServeLogout, usersHandler.ServeList))
		api.Mount("/lead", leadsfeature.Routes(leadsHandler, sessionMgr))
		api.Mount("/customers", customersfeature.Routes(customersHandler, sessionMgr))
		api.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))
		api.Mount("/activity", activityfeature.Routes(activityHandler, sessionMgr))
		api.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))
		userinfofeature.MountRoutes(api, userinfofeature.NewHandler())
	})

	return r, nil
}

// signingSecret returns the configured JWT secret. Outside prod an empty
// secret is replaced by a random key, so tokens do not survive a restart.
func signingSecret(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (string, error) {
	if appCfg.JWTSecret != "" {
		return appCfg.JWTSecret, nil
	}
	if coreCfg.Env == "prod" {
		return "", errors.New("jwt_secret is required when env is prod")
	}
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return "", errors.New("generate random jwt secret")
	}
	logger.Warn("jwt_secret is empty; using a random per-process key (sessions end on restart)")
	return hex.EncodeToString(key), nil
}
