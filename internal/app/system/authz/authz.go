// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotAllowed is the 403 returned when an Agent touches a record they do not own.
var ErrNotAllowed = apperr.New(apperr.Forbidden, "Not allowed")

// Principal returns the caller of r, or an Unauthenticated error.
// Routes are guarded by RequireSignedIn, so the error path is a wiring bug.
func Principal(r *http.Request) (auth.Principal, error) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		return auth.Principal{}, apperr.New(apperr.Unauthenticated, "Not authorized")
	}
	return *p, nil
}

// Owns reports whether owner is p.
func Owns(p auth.Principal, owner primitive.ObjectID) bool {
	return !owner.IsZero() && owner == p.ID
}

// CanAccess reports whether p may act on a record owned by owner:
// Admins always, everyone else only on their own records.
func CanAccess(p auth.Principal, owner primitive.ObjectID) bool {
	return p.IsAdmin() || Owns(p, owner)
}

// RequireOwner returns ErrNotAllowed unless CanAccess.
func RequireOwner(p auth.Principal, owner primitive.ObjectID) error {
	if CanAccess(p, owner) {
		return nil
	}
	return ErrNotAllowed
}

// OwnerScope returns the filter restricting a query to p's records on
// field. Admins get an empty filter.
func OwnerScope(p auth.Principal, field string) bson.M {
	if p.IsAdmin() {
		return bson.M{}
	}
	return bson.M{field: p.ID}
}
