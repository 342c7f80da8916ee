// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvPrefix is the environment variable prefix for app keys (CRMHUB_MONGO_URI, ...).
const EnvPrefix = "CRMHUB"

// AppConfigKeys are loaded via WAFFLE's config system from config files,
// CRMHUB_* environment variables and command-line flags.
var AppConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "crmhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "MongoDB connect and ping deadline"},

	{Name: "jwt_secret", Default: "", Desc: "HMAC key for session tokens (required in prod)"},
	{Name: "token_ttl", Default: "168h", Desc: "Session token lifetime"},
	{Name: "cookie_name", Default: auth.DefaultCookieName, Desc: "Session cookie name"},
	{Name: "cookie_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "bcrypt_cost", Default: 10, Desc: "bcrypt cost for new password hashes"},

	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts allowed per client IP per window"},
	{Name: "login_rate_window", Default: "1m", Desc: "Login rate limit window"},

	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for lists and writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for lead conversion"},

	{Name: "activity_log", Default: activitylog.ModeAll, Desc: "Activity logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// seedForceKey is only registered by the seed command.
var seedForceKey = config.AppKey{Name: "force", Default: false, Desc: "Wipe existing data before seeding"}

// LoadConfig loads WAFFLE core config and the CRM's app config.
// Precedence is flags > env > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appCfg, _, err := load(logger, false)
	return coreCfg, appCfg, err
}

// LoadSeedConfig is LoadConfig plus the seed command's --force flag.
func LoadSeedConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, bool, error) {
	return load(logger, true)
}

func load(logger *zap.Logger, seeding bool) (*config.CoreConfig, AppConfig, bool, error) {
	keys := AppConfigKeys
	if seeding {
		keys = append(append([]config.AppKey{}, AppConfigKeys...), seedForceKey)
	}
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvPrefix, keys)
	if err != nil {
		return nil, AppConfig{}, false, err
	}

	appCfg := AppConfig{
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		JWTSecret:    appValues.String("jwt_secret"),
		TokenTTL:     appValues.Duration("token_ttl", 7*24*time.Hour),
		CookieName:   appValues.String("cookie_name"),
		CookieDomain: appValues.String("cookie_domain"),
		BcryptCost:   appValues.Int("bcrypt_cost"),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		ActivityLog: appValues.String("activity_log"),
	}

	force := seeding && appValues.Bool(seedForceKey.Name)
	return coreCfg, appCfg, force, nil
}

// ValidateConfig rejects configurations that would fail later at
// connect time or weaken authentication in production.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if coreCfg.Env == "prod" && appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required when env is prod")
	}
	if appCfg.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", appCfg.TokenTTL)
	}
	if !auth.ValidCost(appCfg.BcryptCost) {
		return fmt.Errorf("bcrypt_cost %d is out of range", appCfg.BcryptCost)
	}
	if appCfg.LoginRateLimit <= 0 || appCfg.LoginRateWindow <= 0 {
		return fmt.Errorf("login_rate_limit and login_rate_window must be positive")
	}
	if !activitylog.ValidMode(appCfg.ActivityLog) {
		return fmt.Errorf("activity_log must be one of all, db, log, off; got %q", appCfg.ActivityLog)
	}
	return nil
}
