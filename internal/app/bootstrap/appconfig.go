// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds CRM-specific configuration.
//
// WAFFLE's CoreConfig covers the HTTP listener, logging, CORS and body
// limits. Everything the CRM itself needs lives here and is passed to
// every lifecycle hook.
type AppConfig struct {
	// MongoDB
	MongoURI            string
	MongoDatabase       string
	MongoMaxPoolSize    uint64
	MongoMinPoolSize    uint64
	MongoConnectTimeout time.Duration

	// Session tokens and cookie
	JWTSecret    string // blank outside prod means a random per-process key
	TokenTTL     time.Duration
	CookieName   string
	CookieDomain string // blank means current host

	BcryptCost int

	// Login throttling, per client IP
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Database deadlines; zero keeps the timeouts package default
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// ActivityLog is one of activitylog.Mode*
	ActivityLog string
}
