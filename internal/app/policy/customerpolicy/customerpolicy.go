// internal/app/policy/customerpolicy/customerpolicy.go
package customerpolicy

import (
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/authz"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ListScope restricts customer queries to what p may see.
func ListScope(p auth.Principal) bson.M {
	return authz.OwnerScope(p, "owner")
}

// CanView allows Admins and the owner.
func CanView(p auth.Principal, c models.Customer) error {
	return authz.RequireOwner(p, c.Owner)
}

// CanModify gates update and note append. Same rule as CanView.
func CanModify(p auth.Principal, c models.Customer) error {
	return authz.RequireOwner(p, c.Owner)
}

// CreateOwnerIsSelf reports whether a new customer is owned by the caller:
// always for Agents, for Admins only when no owner was requested.
func CreateOwnerIsSelf(p auth.Principal, requested string) bool {
	return !p.IsAdmin() || requested == ""
}

// MayChangeOwner reports whether an owner in an update payload is honoured.
// Non-admin owner changes are dropped silently, not rejected.
func MayChangeOwner(p auth.Principal) bool { return p.IsAdmin() }

// CanFilterByOwner reports whether p may filter lists by another owner.
func CanFilterByOwner(p auth.Principal) bool { return p.IsAdmin() }
