// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entity labels used on activity entries.
const (
	EntityLead     = "Lead"
	EntityCustomer = "Customer"
	EntityTask     = "Task"
	EntityUser     = "User"
)

// Activity is one append-only audit entry describing a mutating action.
type Activity struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Action      string              `bson:"action" json:"action"`
	Entity      string              `bson:"entity" json:"entity"`
	EntityID    *primitive.ObjectID `bson:"entity_id,omitempty" json:"entityId,omitempty"`
	PerformedBy primitive.ObjectID  `bson:"performed_by" json:"performedBy"`
	Details     map[string]any      `bson:"details,omitempty" json:"details,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
