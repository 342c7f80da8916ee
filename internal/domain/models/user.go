// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles. The stored values are the display values the browser client compares against.
const (
	RoleAdmin = "Admin"
	RoleAgent = "Agent"
)

// User is a person who can sign in: an Admin or an Agent.
//
// Email is stored lowercased and trimmed; a unique index on it enforces
// uniqueness at write time. PasswordHash is a bcrypt hash and is never
// serialised to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"emailId"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ValidRole reports whether r is one of the two supported roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleAgent
}
