// internal/app/policy/taskpolicy/taskpolicy.go
package taskpolicy

import (
	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/authz"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ListScope restricts task queries to what p may see.
func ListScope(p auth.Principal) bson.M {
	return authz.OwnerScope(p, "owner")
}

// CanView allows Admins and the owner.
func CanView(p auth.Principal, t models.Task) error {
	return authz.RequireOwner(p, t.Owner)
}

// CanModify gates update. Same rule as CanView.
func CanModify(p auth.Principal, t models.Task) error {
	return authz.RequireOwner(p, t.Owner)
}

// CreateOwner mirrors lead assignment: Agents own their tasks, Admins must
// name an owner by e-mail.
func CreateOwner(p auth.Principal, requestedEmail string) (self bool, err error) {
	switch {
	case p.IsAgent():
		return true, nil
	case p.IsAdmin():
		if requestedEmail == "" {
			return false, apperr.BadRequestf("Owner is required for Admin")
		}
		return false, nil
	default:
		return false, authz.ErrNotAllowed
	}
}

// CanFilterByOwner reports whether p may filter lists by another owner.
func CanFilterByOwner(p auth.Principal) bool { return p.IsAdmin() }
