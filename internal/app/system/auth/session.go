// internal/app/system/auth/session.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultCookieName is the cookie the browser client reads the token from.
const DefaultCookieName = "token"

// UserFetcher reloads the caller on every request so deleted users and
// role changes take effect immediately. It returns nil when the user no
// longer exists or cannot be loaded.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *Principal
}

// SessionManager issues tokens, manages the session cookie and loads the
// principal for incoming requests.
type SessionManager struct {
	issuer  *TokenIssuer
	cookie  string
	domain  string
	secure  bool
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager builds a manager signing with secret. secure marks the
// cookie Secure and should be true in production.
func NewSessionManager(secret, cookieName, domain string, ttl time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended", zap.Int("length", len(secret)))
	}
	issuer, err := NewTokenIssuer([]byte(secret), ttl)
	if err != nil {
		return nil, err
	}
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &SessionManager{
		issuer: issuer,
		cookie: cookieName,
		domain: domain,
		secure: secure,
		log:    logger,
	}, nil
}

// SetUserFetcher installs the fetcher used by LoadPrincipal.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// Issue signs a new token for p and sets it as the session cookie.
func (sm *SessionManager) Issue(w http.ResponseWriter, p Principal) (string, error) {
	tok, exp, err := sm.issuer.Issue(p.ID, p.Role)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, sm.newCookie(tok, exp, int(sm.issuer.TTL().Seconds())))
	return tok, nil
}

// Clear expires the session cookie.
func (sm *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, sm.newCookie("", time.Unix(0, 0), -1))
}

func (sm *SessionManager) newCookie(value string, exp time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookie,
		Value:    value,
		Path:     "/",
		Domain:   sm.domain,
		Expires:  exp,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// tokenFrom returns the token from the session cookie, falling back to an
// "Authorization: Bearer" header.
func (sm *SessionManager) tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(sm.cookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// LoadPrincipal puts the caller into the request context when the request
// carries a valid token. It never rejects; RequireSignedIn does that.
func (sm *SessionManager) LoadPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := sm.tokenFrom(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := sm.issuer.Parse(raw)
		if err != nil {
			sm.log.Debug("rejected session token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		var p *Principal
		if sm.fetcher != nil {
			p = sm.fetcher.FetchUser(r.Context(), claims.UserID)
		} else {
			id, _ := primitive.ObjectIDFromHex(claims.UserID)
			p = &Principal{ID: id, Role: claims.Role}
		}
		if p != nil {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects requests without a principal with 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentPrincipal(r); !ok {
			writeError(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects callers without one of the allowed roles: 401 when
// not signed in, 403 otherwise. Role comparison ignores case.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := CurrentPrincipal(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Not authorized")
				return
			}
			if _, has := set[strings.ToLower(p.Role)]; !has {
				writeError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
