// internal/domain/models/lead.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead statuses. Any status may be set at any time; there is no
// forward-only transition guard.
const (
	LeadNew        = "New"
	LeadInProgress = "In Progress"
	LeadClosedWon  = "Closed Won"
	LeadClosedLost = "Closed Lost"
)

// LeadStatuses lists the accepted lead statuses in pipeline order.
var LeadStatuses = []string{LeadNew, LeadInProgress, LeadClosedWon, LeadClosedLost}

// ValidLeadStatus reports whether s is an accepted lead status.
func ValidLeadStatus(s string) bool {
	for _, v := range LeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Lead is a prospective contact, owned for access purposes by AssignedAgent.
//
// Archiving is a side flag and is independent of Status. Conversion to a
// Customer also sets IsArchived.
type Lead struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"emailId"`
	Phone         string             `bson:"phone" json:"phone"`
	Status        string             `bson:"status" json:"status"`
	Source        string             `bson:"source,omitempty" json:"source,omitempty"`
	AssignedAgent primitive.ObjectID `bson:"assigned_agent" json:"assignedAgent"`
	IsArchived    bool               `bson:"is_archived" json:"isArchived"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
