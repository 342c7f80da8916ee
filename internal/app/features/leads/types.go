// internal/app/features/leads/types.go
package leads

import (
	"github.com/dalemusser/crmhub/internal/app/features/shared/views"
	"github.com/dalemusser/crmhub/internal/app/system/paging"
)

// CreateInput is the POST /lead payload.
type CreateInput struct {
	Name          string `json:"name" validate:"required,max=200"`
	Email         string `json:"emailId" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,max=50"`
	Source        string `json:"source" validate:"max=100"`
	Status        string `json:"status" validate:"omitempty,leadstatus"`
	AssignedAgent string `json:"assignedAgent"`
}

// UpdateInput is the PATCH /lead/{id} payload. Absent fields are unchanged.
type UpdateInput struct {
	Name          *string `json:"name" validate:"omitempty,max=200"`
	Email         *string `json:"emailId" validate:"omitempty,email"`
	Phone         *string `json:"phone" validate:"omitempty,max=50"`
	Source        *string `json:"source" validate:"omitempty,max=100"`
	Status        *string `json:"status" validate:"omitempty,leadstatus"`
	AssignedAgent *string `json:"assignedAgent"`
	IsArchived    *bool   `json:"isArchived"`
}

// ListQuery holds the GET /lead query parameters.
type ListQuery struct {
	Status        string
	IsArchived    *bool
	AssignedAgent string
	Search        string
	Page          paging.Page
}

// ListResult is the GET /lead response.
type ListResult struct {
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
	TotalLeads  int64        `json:"totalLeads"`
	TotalPages  int          `json:"totalPages"`
	HasNextPage bool         `json:"hasNextPage"`
	HasPrevPage bool         `json:"hasPrevPage"`
	Leads       []views.Lead `json:"leads"`
}

// ConvertResult is the POST /lead/{id}/convert response.
type ConvertResult struct {
	Message  string         `json:"message"`
	Customer views.Customer `json:"customer"`
	Lead     views.Lead     `json:"lead"`
}
