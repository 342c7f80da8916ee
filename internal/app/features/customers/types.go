// internal/app/features/customers/types.go
package customers

import (
	"github.com/dalemusser/crmhub/internal/app/features/shared/views"
	"github.com/dalemusser/crmhub/internal/app/system/paging"
)

// CreateInput is the POST /customers payload. Owner is an id or e-mail and
// is honoured for Admins only.
type CreateInput struct {
	Name    string   `json:"name" validate:"max=200"`
	Email   string   `json:"emailId" validate:"omitempty,email"`
	Phone   string   `json:"phone" validate:"max=50"`
	Company string   `json:"company" validate:"max=200"`
	Tags    []string `json:"tags" validate:"max=50,dive,max=50"`
	Owner   string   `json:"owner"`
}

// UpdateInput is the PATCH /customers/{id} payload. Absent fields are unchanged.
type UpdateInput struct {
	Name       *string   `json:"name" validate:"omitempty,max=200"`
	Email      *string   `json:"emailId" validate:"omitempty,email"`
	Phone      *string   `json:"phone" validate:"omitempty,max=50"`
	Company    *string   `json:"company" validate:"omitempty,max=200"`
	Tags       *[]string `json:"tags" validate:"omitempty,max=50,dive,max=50"`
	IsArchived *bool     `json:"isArchived"`
	Owner      *string   `json:"owner"`
}

// NoteInput is the POST /customers/{id}/notes payload.
type NoteInput struct {
	Text string `json:"text"`
}

// ListQuery holds the GET /customers query parameters.
type ListQuery struct {
	OwnerEmail string
	IsArchived *bool
	Tags       []string
	Search     string
	Page       paging.Page
}

// ListResult is the GET /customers response.
type ListResult struct {
	Page           int              `json:"page"`
	Limit          int              `json:"limit"`
	TotalCustomers int64            `json:"totalCustomers"`
	TotalPages     int              `json:"totalPages"`
	HasNextPage    bool             `json:"hasNextPage"`
	HasPrevPage    bool             `json:"hasPrevPage"`
	Customers      []views.Customer `json:"customers"`
}
