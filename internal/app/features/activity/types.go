// internal/app/features/activity/types.go
package activity

import (
	"time"

	"github.com/dalemusser/crmhub/internal/app/features/shared/views"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry is one activity record with performedBy populated.
type Entry struct {
	ID          primitive.ObjectID  `json:"id"`
	Action      string              `json:"action"`
	Entity      string              `json:"entity"`
	EntityID    *primitive.ObjectID `json:"entityId,omitempty"`
	PerformedBy *views.User         `json:"performedBy"`
	Details     map[string]any      `json:"details,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}
