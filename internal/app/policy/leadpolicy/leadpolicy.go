// internal/app/policy/leadpolicy/leadpolicy.go
package leadpolicy

import (
	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/authz"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListScope restricts lead queries to what p may see.
func ListScope(p auth.Principal) bson.M {
	return authz.OwnerScope(p, "assigned_agent")
}

// CanView allows Admins and the assigned Agent.
func CanView(p auth.Principal, l models.Lead) error {
	return authz.RequireOwner(p, l.AssignedAgent)
}

// CanModify gates update, archive and convert. Same rule as CanView.
func CanModify(p auth.Principal, l models.Lead) error {
	return authz.RequireOwner(p, l.AssignedAgent)
}

// CreateAssignment decides who a new lead is assigned to. Agents are always
// assigned themselves and any requested agent is ignored. Admins must name
// an agent by e-mail; self reports whether the caller should be used.
func CreateAssignment(p auth.Principal, requestedEmail string) (self bool, err error) {
	switch {
	case p.IsAgent():
		return true, nil
	case p.IsAdmin():
		if requestedEmail == "" {
			return false, apperr.BadRequestf("assignedAgent is required")
		}
		return false, nil
	default:
		return false, authz.ErrNotAllowed
	}
}

// CanReassign allows Admins to assign any agent. The assigned Agent may only
// keep the lead on themselves.
func CanReassign(p auth.Principal, to primitive.ObjectID) error {
	if p.IsAdmin() || to == p.ID {
		return nil
	}
	return apperr.Forbiddenf("Only an Admin can reassign a lead")
}

// CanFilterByAgent reports whether p may filter lists by another agent.
func CanFilterByAgent(p auth.Principal) bool { return p.IsAdmin() }
