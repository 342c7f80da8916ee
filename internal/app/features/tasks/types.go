// internal/app/features/tasks/types.go
package tasks

import (
	"time"

	"github.com/dalemusser/crmhub/internal/app/features/shared/views"
	"github.com/dalemusser/crmhub/internal/app/system/paging"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateInput is the POST /tasks payload. RelatedTo is the e-mail of a lead
// or customer; Owner is an e-mail and is required from Admins.
type CreateInput struct {
	Title     string `json:"title" validate:"max=200"`
	DueDate   string `json:"dueDate"`
	Status    string `json:"status" validate:"omitempty,taskstatus"`
	Priority  string `json:"priority" validate:"omitempty,priority"`
	RelatedTo string `json:"relatedTo"`
	Owner     string `json:"owner"`
}

// UpdateInput holds the mutable task fields. Anything else in the payload is ignored.
type UpdateInput struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	DueDate  *string `json:"dueDate"`
	Status   *string `json:"status" validate:"omitempty,taskstatus"`
	Priority *string `json:"priority" validate:"omitempty,priority"`
}

// ListQuery holds the GET /tasks query parameters.
type ListQuery struct {
	Owner   string
	Status  string
	Overdue bool
	Page    paging.Page
}

// Related is the populated lead or customer a task points at.
type Related struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"emailId"`
}

// Task is a task with owner and related record populated.
type Task struct {
	ID           primitive.ObjectID `json:"id"`
	Title        string             `json:"title"`
	DueDate      time.Time          `json:"dueDate"`
	Status       string             `json:"status"`
	Priority     string             `json:"priority"`
	RelatedModel models.RelatedKind `json:"relatedModel"`
	RelatedTo    *Related           `json:"relatedTo"`
	Owner        *views.User        `json:"owner"`
	Overdue      bool               `json:"overdue"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// Pagination is the page block of ListResult.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	TotalTasks int64 `json:"totalTasks"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// ListResult is the GET /tasks response.
type ListResult struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}
