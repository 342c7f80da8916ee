// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/crmhub/internal/app/system/ratelimit"
	"github.com/dalemusser/crmhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// loginLimiter is created in Startup and closed in Shutdown.
var loginLimiter *ratelimit.Limiter

// Startup applies database deadlines and creates process-wide resources
// before the handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	cur := timeouts.Current()
	logger.Info("database timeouts configured",
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long))

	loginLimiter = ratelimit.New(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	return nil
}
