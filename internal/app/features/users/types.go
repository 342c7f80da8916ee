// internal/app/features/users/types.go
package users

// UpdateInput is the PATCH /users/{id} payload. Absent fields are left unchanged.
type UpdateInput struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=50"`
	Email *string `json:"emailId" validate:"omitempty,email"`
	Role  *string `json:"role" validate:"omitempty,role"`
}
