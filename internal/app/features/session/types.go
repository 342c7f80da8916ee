// internal/app/features/session/types.go
package session

import "github.com/dalemusser/crmhub/internal/app/features/shared/views"

// LoginInput is the POST /auth/login payload.
type LoginInput struct {
	Email    string `json:"emailId"`
	Password string `json:"password"`
}

// RegisterInput is the POST /auth/register payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"emailId" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,role"`
}

// Result is the body returned by login and refresh.
type Result struct {
	Message string     `json:"message"`
	User    views.User `json:"user"`
	Token   string     `json:"token"`
}
