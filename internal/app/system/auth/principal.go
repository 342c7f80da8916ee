// internal/app/system/auth/principal.go
package auth

import (
	"context"
	"net/http"

	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	ID    primitive.ObjectID
	Name  string
	Email string
	Role  string
}

// IsAdmin reports whether p has the Admin role.
func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// IsAgent reports whether p has the Agent role.
func (p Principal) IsAgent() bool { return p.Role == models.RoleAgent }

// PrincipalFromUser builds the principal for a stored user.
func PrincipalFromUser(u models.User) Principal {
	return Principal{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type ctxKey string

const principalKey ctxKey = "principal"

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// CurrentPrincipal returns the principal loaded by LoadPrincipal, if any.
func CurrentPrincipal(r *http.Request) (*Principal, bool) {
	p, ok := r.Context().Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// WithTestPrincipal injects p into the request context, as LoadPrincipal would.
func WithTestPrincipal(r *http.Request, p *Principal) *http.Request {
	return r.WithContext(WithPrincipal(r.Context(), p))
}
