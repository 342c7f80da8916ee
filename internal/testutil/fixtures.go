package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plaintext password of every fixture user.
const FixturePassword = "password123"

// Fixtures inserts test documents directly, bypassing stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures for db.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database.
func (f *Fixtures) DB() *mongo.Database { return f.db }

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert %s fixture: %v", coll, err)
	}
}

// CreateUser inserts a user whose password is FixturePassword.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash fixture password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAdmin inserts an Admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

// CreateAgent inserts an Agent.
func (f *Fixtures) CreateAgent(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAgent)
}

// CreateLead inserts a New, unarchived lead assigned to agent.
func (f *Fixtures) CreateLead(ctx context.Context, name, email string, agent primitive.ObjectID) models.Lead {
	f.t.Helper()
	now := time.Now().UTC()
	l := models.Lead{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Email:         strings.ToLower(email),
		Phone:         "555-0100",
		Status:        models.LeadNew,
		Source:        "Website",
		AssignedAgent: agent,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.insert(ctx, "leads", l)
	return l
}

// CreateCustomer inserts a customer owned by owner.
func (f *Fixtures) CreateCustomer(ctx context.Context, name, email string, owner primitive.ObjectID) models.Customer {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.Customer{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     strings.ToLower(email),
		Tags:      []string{},
		Notes:     []models.Note{},
		Owner:     owner,
		Deals:     []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "customers", c)
	return c
}

// CreateTask inserts an Open, Medium task.
func (f *Fixtures) CreateTask(ctx context.Context, title string, due time.Time, related models.RelatedRef, owner primitive.ObjectID) models.Task {
	f.t.Helper()
	now := time.Now().UTC()
	tk := models.Task{
		ID:         primitive.NewObjectID(),
		Title:      title,
		DueDate:    due.UTC(),
		Status:     models.TaskOpen,
		Priority:   models.PriorityMedium,
		RelatedRef: related,
		Owner:      owner,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "tasks", tk)
	return tk
}
