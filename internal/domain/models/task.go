// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses.
const (
	TaskOpen       = "Open"
	TaskInProgress = "In Progress"
	TaskDone       = "Done"
)

// Task priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// ValidTaskStatus reports whether s is an accepted task status.
func ValidTaskStatus(s string) bool {
	return s == TaskOpen || s == TaskInProgress || s == TaskDone
}

// ValidPriority reports whether p is an accepted task priority.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// RelatedKind discriminates what a RelatedRef points at.
type RelatedKind string

const (
	RelatedLead     RelatedKind = "Lead"
	RelatedCustomer RelatedKind = "Customer"
)

// RelatedRef is a tagged reference to either a Lead or a Customer.
// Readers switch on Kind and resolve ID against the matching collection.
type RelatedRef struct {
	Kind RelatedKind        `bson:"related_model" json:"relatedModel"`
	ID   primitive.ObjectID `bson:"related_to" json:"relatedTo"`
}

// LeadRef returns a reference to the lead with the given id.
func LeadRef(id primitive.ObjectID) RelatedRef {
	return RelatedRef{Kind: RelatedLead, ID: id}
}

// CustomerRef returns a reference to the customer with the given id.
func CustomerRef(id primitive.ObjectID) RelatedRef {
	return RelatedRef{Kind: RelatedCustomer, ID: id}
}

// Task is a to-do item owned by a user and attached to a lead or customer.
type Task struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	DueDate  time.Time          `bson:"due_date" json:"dueDate"`
	Status   string             `bson:"status" json:"status"`
	Priority string             `bson:"priority" json:"priority"`
	Owner    primitive.ObjectID `bson:"owner" json:"owner"`

	RelatedRef `bson:",inline"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Overdue reports whether the task is past due at now and not done.
func (t Task) Overdue(now time.Time) bool {
	return t.Status != TaskDone && t.DueDate.Before(now)
}
