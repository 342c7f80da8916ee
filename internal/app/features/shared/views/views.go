// internal/app/features/shared/views/views.go
package views

import (
	"context"
	"time"

	userstore "github.com/dalemusser/crmhub/internal/app/store/users"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the populated form of a user reference.
type User struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"emailId"`
	Role  string             `json:"role,omitempty"`
}

// UserOf renders u with its role.
func UserOf(u models.User) User {
	return User{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Users maps user ids to their populated form.
type Users map[primitive.ObjectID]User

// LoadUsers resolves ids in one query. Unknown ids are left out.
func LoadUsers(ctx context.Context, store *userstore.Store, ids ...primitive.ObjectID) (Users, error) {
	uniq := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	found, err := store.GetMany(ctx, uniq)
	if err != nil {
		return nil, err
	}
	out := make(Users, len(found))
	for id, u := range found {
		out[id] = UserOf(u)
	}
	return out, nil
}

// Ref returns the populated user for id, or nil when it no longer exists.
func (us Users) Ref(id primitive.ObjectID) *User {
	if u, ok := us[id]; ok {
		return &u
	}
	return nil
}

// Brief returns the populated user for id without the role.
func (us Users) Brief(id primitive.ObjectID) *User {
	u := us.Ref(id)
	if u != nil {
		u.Role = ""
	}
	return u
}

// Lead is a lead with its assigned agent populated.
type Lead struct {
	ID            primitive.ObjectID `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"emailId"`
	Phone         string             `json:"phone"`
	Status        string             `json:"status"`
	Source        string             `json:"source,omitempty"`
	AssignedAgent *User              `json:"assignedAgent"`
	IsArchived    bool               `json:"isArchived"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// LeadOf renders l, populating the agent from us.
func LeadOf(l models.Lead, us Users) Lead {
	return Lead{
		ID:            l.ID,
		Name:          l.Name,
		Email:         l.Email,
		Phone:         l.Phone,
		Status:        l.Status,
		Source:        l.Source,
		AssignedAgent: us.Ref(l.AssignedAgent),
		IsArchived:    l.IsArchived,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

// Customer is a customer with its owner populated.
type Customer struct {
	ID         primitive.ObjectID   `json:"id"`
	Name       string               `json:"name"`
	Email      string               `json:"emailId"`
	Phone      string               `json:"phone,omitempty"`
	Company    string               `json:"company,omitempty"`
	Tags       []string             `json:"tags"`
	Notes      []models.Note        `json:"notes"`
	Owner      *User                `json:"owner"`
	Deals      []primitive.ObjectID `json:"deals"`
	IsArchived bool                 `json:"isArchived"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// CustomerOf renders c, populating the owner from us.
func CustomerOf(c models.Customer, us Users) Customer {
	v := Customer{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Company:    c.Company,
		Tags:       c.Tags,
		Notes:      c.Notes,
		Owner:      us.Ref(c.Owner),
		Deals:      c.Deals,
		IsArchived: c.IsArchived,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if v.Notes == nil {
		v.Notes = []models.Note{}
	}
	if v.Deals == nil {
		v.Deals = []primitive.ObjectID{}
	}
	return v
}
