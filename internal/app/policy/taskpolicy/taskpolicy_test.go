package taskpolicy_test

import (
	"testing"

	"github.com/dalemusser/crmhub/internal/app/policy/taskpolicy"
	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	adminP = auth.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	agentP = auth.Principal{ID: primitive.NewObjectID(), Role: models.RoleAgent}
)

func TestCanModify(t *testing.T) {
	own := models.Task{Owner: agentP.ID}
	other := models.Task{Owner: primitive.NewObjectID()}

	if err := taskpolicy.CanModify(adminP, other); err != nil {
		t.Errorf("admin: %v", err)
	}
	if err := taskpolicy.CanModify(agentP, own); err != nil {
		t.Errorf("agent own: %v", err)
	}
	if err := taskpolicy.CanModify(agentP, other); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("agent other: got %v, want forbidden", err)
	}
	if err := taskpolicy.CanView(agentP, other); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("agent view other: got %v, want forbidden", err)
	}
}

func TestCreateOwner(t *testing.T) {
	self, err := taskpolicy.CreateOwner(agentP, "someone@example.com")
	if err != nil || !self {
		t.Errorf("agent: got (%v, %v), want (true, nil)", self, err)
	}

	self, err = taskpolicy.CreateOwner(adminP, "agent@example.com")
	if err != nil || self {
		t.Errorf("admin named: got (%v, %v), want (false, nil)", self, err)
	}

	_, err = taskpolicy.CreateOwner(adminP, "")
	if !apperr.Is(err, apperr.BadRequest) {
		t.Errorf("admin missing owner: got %v, want bad request", err)
	}
	if got := apperr.PublicMessage(err); got != "Owner is required for Admin" {
		t.Errorf("message: got %q", got)
	}
}

func TestListScope(t *testing.T) {
	if f := taskpolicy.ListScope(adminP); len(f) != 0 {
		t.Errorf("admin scope: got %v", f)
	}
	if f := taskpolicy.ListScope(agentP); f["owner"] != agentP.ID {
		t.Errorf("agent scope: got %v", f)
	}
	if taskpolicy.CanFilterByOwner(agentP) || !taskpolicy.CanFilterByOwner(adminP) {
		t.Error("CanFilterByOwner wrong")
	}
}
