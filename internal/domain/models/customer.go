// internal/domain/models/customer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a free-text remark appended to a customer. Notes are never edited.
type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text      string             `bson:"text" json:"text"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"createdBy"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Customer is a contact record, created directly or by converting a Lead.
//
// Tags behave as a set (deduplicated on write). Deals is carried for the
// client but has no business rules attached.
type Customer struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name       string               `bson:"name" json:"name"`
	Email      string               `bson:"email" json:"emailId"`
	Phone      string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Company    string               `bson:"company,omitempty" json:"company,omitempty"`
	Tags       []string             `bson:"tags" json:"tags"`
	Notes      []Note               `bson:"notes" json:"notes"`
	Owner      primitive.ObjectID   `bson:"owner" json:"owner"`
	Deals      []primitive.ObjectID `bson:"deals" json:"deals"`
	IsArchived bool                 `bson:"is_archived" json:"isArchived"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
