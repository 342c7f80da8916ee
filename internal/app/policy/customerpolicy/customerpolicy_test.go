package customerpolicy_test

import (
	"testing"

	"github.com/dalemusser/crmhub/internal/app/policy/customerpolicy"
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
	own := models.Customer{Owner: agentP.ID}
	other := models.Customer{Owner: primitive.NewObjectID()}

	if err := customerpolicy.CanModify(adminP, other); err != nil {
		t.Errorf("admin: %v", err)
	}
	if err := customerpolicy.CanModify(agentP, own); err != nil {
		t.Errorf("agent own: %v", err)
	}
	if err := customerpolicy.CanModify(agentP, other); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("agent other: got %v, want forbidden", err)
	}
	if err := customerpolicy.CanView(agentP, other); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("agent view other: got %v, want forbidden", err)
	}
}

func TestCreateOwnerIsSelf(t *testing.T) {
	tests := []struct {
		name      string
		p         auth.Principal
		requested string
		want      bool
	}{
		{"agent no owner", agentP, "", true},
		{"agent with owner", agentP, "boss@example.com", true},
		{"admin no owner", adminP, "", true},
		{"admin with owner", adminP, "agent@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := customerpolicy.CreateOwnerIsSelf(tt.p, tt.requested); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOwnerChanges(t *testing.T) {
	if customerpolicy.MayChangeOwner(agentP) {
		t.Error("agent must not change owner")
	}
	if !customerpolicy.MayChangeOwner(adminP) {
		t.Error("admin may change owner")
	}
	if f := customerpolicy.ListScope(agentP); f["owner"] != agentP.ID {
		t.Errorf("agent scope: got %v", f)
	}
	if customerpolicy.CanFilterByOwner(agentP) {
		t.Error("agent must not filter by owner")
	}
}
