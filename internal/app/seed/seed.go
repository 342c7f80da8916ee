// Package seed fills an empty database with demo users, leads, customers
// and tasks.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	customerstore "github.com/dalemusser/crmhub/internal/app/store/customers"
	leadstore "github.com/dalemusser/crmhub/internal/app/store/leads"
	taskstore "github.com/dalemusser/crmhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/crmhub/internal/app/store/users"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNotEmpty is returned when users already exist and Force is off.
var ErrNotEmpty = errors.New("database already has users; rerun with --force to wipe and reseed")

// Collections are cleared, in this order, by a forced run.
var Collections = []string{"activities", "tasks", "customers", "leads", "users"}

// Options controls a seed run.
type Options struct {
	Force      bool
	BcryptCost int
}

// Summary counts what was inserted.
type Summary struct {
	Users     int
	Leads     int
	Customers int
	Tasks     int
}

// Account is a seeded login.
type Account struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Accounts are the demo logins: one Admin and two Agents.
var Accounts = []Account{
	{"Admin", "admin@example.com", "Admin@123", models.RoleAdmin},
	{"Rahul", "rahul@example.com", "Rahul@123", models.RoleAgent},
	{"Shivam", "shivam@example.com", "Shivam@123", models.RoleAgent},
}

var (
	leadSources = []string{"Web", "Referral", "Social Media", "Email", "Event"}
	companies   = []string{"Airtel", "Jio", "Tata", "Stark Industries", "Mahindra Industries"}
	taskTitles  = []string{"Follow up with client", "Prepare proposal", "Schedule meeting", "Send contract", "Review requirements"}
	taskStatus  = []string{models.TaskOpen, models.TaskInProgress, models.TaskOpen, models.TaskDone, models.TaskOpen}
	taskPrio    = []string{models.PriorityHigh, models.PriorityMedium, models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
)

// Run seeds db. Without Force it refuses to touch a database that has users.
func Run(ctx context.Context, db *mongo.Database, opts Options, log *zap.Logger) (Summary, error) {
	users := userstore.New(db)
	n, err := users.Count(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		if !opts.Force {
			return Summary{}, ErrNotEmpty
		}
		for _, coll := range Collections {
			if _, err := db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
				return Summary{}, fmt.Errorf("clear %s: %w", coll, err)
			}
			log.Info("cleared collection", zap.String("collection", coll))
		}
	}

	var sum Summary
	ids := make([]primitive.ObjectID, 0, len(Accounts))
	for _, a := range Accounts {
		hash, err := auth.HashPassword(a.Password, opts.BcryptCost)
		if err != nil {
			return sum, fmt.Errorf("hash password: %w", err)
		}
		u, err := users.Create(ctx, models.User{Name: a.Name, Email: a.Email, PasswordHash: hash, Role: a.Role})
		if err != nil {
			return sum, fmt.Errorf("create user %s: %w", a.Email, err)
		}
		ids = append(ids, u.ID)
		sum.Users++
	}
	admin := ids[0]
	agents := ids[1:]

	leads := leadstore.New(db)
	leadIDs := make([]primitive.ObjectID, 0, 10)
	for i := 1; i <= 10; i++ {
		l, err := leads.Create(ctx, models.Lead{
			Name:          fmt.Sprintf("Lead %d", i),
			Email:         fmt.Sprintf("lead%d@example.com", i),
			Phone:         fmt.Sprintf("99911123%02d", i),
			Status:        models.LeadStatuses[i%len(models.LeadStatuses)],
			Source:        leadSources[i%len(leadSources)],
			AssignedAgent: agents[i%2],
			IsArchived:    i == 10,
		})
		if err != nil {
			return sum, fmt.Errorf("create lead %d: %w", i, err)
		}
		leadIDs = append(leadIDs, l.ID)
		sum.Leads++
	}

	customers := customerstore.New(db)
	customerIDs := make([]primitive.ObjectID, 0, len(companies))
	now := time.Now().UTC()
	for i := 1; i <= len(companies); i++ {
		tags := []string{"Standard"}
		if i%2 == 0 {
			tags = []string{"VIP", "Enterprise"}
		}
		c, err := customers.Create(ctx, models.Customer{
			Name:    fmt.Sprintf("Customer %d", i),
			Email:   fmt.Sprintf("customer%d@example.com", i),
			Phone:   fmt.Sprintf("97193727%02d", i),
			Company: companies[i-1],
			Owner:   agents[i%2],
			Tags:    tags,
			Notes: []models.Note{{
				ID:        primitive.NewObjectID(),
				Text:      "Initial contact made on " + now.Format("2006-01-02"),
				CreatedBy: admin,
				CreatedAt: now,
				UpdatedAt: now,
			}},
			IsArchived: i == len(companies),
		})
		if err != nil {
			return sum, fmt.Errorf("create customer %d: %w", i, err)
		}
		customerIDs = append(customerIDs, c.ID)
		sum.Customers++
	}

	tasks := taskstore.New(db)
	for i, title := range taskTitles {
		related := models.LeadRef(leadIDs[i%len(leadIDs)])
		if i >= 3 {
			related = models.CustomerRef(customerIDs[i-3])
		}
		if _, err := tasks.Create(ctx, models.Task{
			Title:      title,
			DueDate:    now.Add(time.Duration(i+1) * 24 * time.Hour),
			Status:     taskStatus[i],
			Priority:   taskPrio[i],
			RelatedRef: related,
			Owner:      agents[i%2],
		}); err != nil {
			return sum, fmt.Errorf("create task %q: %w", title, err)
		}
		sum.Tasks++
	}

	log.Info("seed complete",
		zap.Int("users", sum.Users),
		zap.Int("leads", sum.Leads),
		zap.Int("customers", sum.Customers),
		zap.Int("tasks", sum.Tasks))
	return sum, nil
}
