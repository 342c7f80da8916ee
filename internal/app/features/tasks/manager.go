// internal/app/features/tasks/manager.go
package tasks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/crmhub/internal/app/features/shared/views"
	"github.com/dalemusser/crmhub/internal/app/policy/taskpolicy"
	customerstore "github.com/dalemusser/crmhub/internal/app/store/customers"
	leadstore "github.com/dalemusser/crmhub/internal/app/store/leads"
	taskstore "github.com/dalemusser/crmhub/internal/app/store/tasks"
	userstore "github.com/dalemusser/crmhub/internal/app/store/users"
	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/inputval"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	errTaskNotFound    = apperr.NotFoundf("Task not found")
	errOwnerNotFound   = apperr.NotFoundf("Owner not found")
	errRelatedNotFound = apperr.NotFoundf("Related Lead or Customer not found")
	errMissingFields   = apperr.BadRequestf("Missing required fields")
	errBadDueDate      = apperr.BadRequestf("Invalid dueDate format")
)

// dueDateLayouts are tried in order after RFC 3339. Values without a zone
// (date-only and datetime-local forms) are read as UTC. Fractional seconds
// are accepted after the seconds field.
var dueDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate accepts RFC 3339 timestamps, datetime-local values
// (YYYY-MM-DDTHH:MM[:SS[.fff]]) and plain YYYY-MM-DD dates.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errBadDueDate
}

// Manager applies the task lifecycle rules for an explicit caller.
type Manager struct {
	tasks     *taskstore.Store
	leads     *leadstore.Store
	customers *customerstore.Store
	users     *userstore.Store
	activity  *activitylog.Logger
	log       *zap.Logger
	now       func() time.Time
}

// NewManager wires a Manager to db. activity may be nil.
func NewManager(db *mongo.Database, activity *activitylog.Logger, logger *zap.Logger) *Manager {
	return &Manager{
		tasks:     taskstore.New(db),
		leads:     leadstore.New(db),
		customers: customerstore.New(db),
		users:     userstore.New(db),
		activity:  activity,
		log:       logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) load(ctx context.Context, p auth.Principal, rawID string) (*models.Task, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return nil, errTaskNotFound
	}
	t, err := m.tasks.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errTaskNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load task")
	}
	if err := taskpolicy.CanView(p, *t); err != nil {
		return nil, err
	}
	return t, nil
}

// resolveRelated looks the e-mail up as a lead first, then as a customer.
func (m *Manager) resolveRelated(ctx context.Context, email string) (models.RelatedRef, error) {
	l, err := m.leads.GetByEmail(ctx, email)
	if err == nil {
		return models.LeadRef(l.ID), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.RelatedRef{}, apperr.Internalf(err, "find related lead")
	}
	c, err := m.customers.GetByEmail(ctx, email)
	if err == nil {
		return models.CustomerRef(c.ID), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.RelatedRef{}, apperr.Internalf(err, "find related customer")
	}
	return models.RelatedRef{}, errRelatedNotFound
}

func (m *Manager) userRef(ctx context.Context, ref string) (*models.User, error) {
	u, err := m.users.GetByIDOrEmail(ctx, strings.TrimSpace(ref))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errOwnerNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load owner")
	}
	return u, nil
}

// populate renders tasks with owners and related records in three queries.
func (m *Manager) populate(ctx context.Context, list []models.Task) ([]Task, error) {
	var ownerIDs, leadIDs, customerIDs []primitive.ObjectID
	for _, t := range list {
		ownerIDs = append(ownerIDs, t.Owner)
		switch t.Kind {
		case models.RelatedLead:
			leadIDs = append(leadIDs, t.RelatedRef.ID)
		case models.RelatedCustomer:
			customerIDs = append(customerIDs, t.RelatedRef.ID)
		}
	}

	us, err := views.LoadUsers(ctx, m.users, ownerIDs...)
	if err != nil {
		return nil, apperr.Internalf(err, "populate task owners")
	}
	leads, err := m.leads.GetMany(ctx, leadIDs)
	if err != nil {
		return nil, apperr.Internalf(err, "populate task leads")
	}
	customers, err := m.customers.GetMany(ctx, customerIDs)
	if err != nil {
		return nil, apperr.Internalf(err, "populate task customers")
	}

	now := m.now()
	out := make([]Task, 0, len(list))
	for _, t := range list {
		v := Task{
			ID:           t.ID,
			Title:        t.Title,
			DueDate:      t.DueDate,
			Status:       t.Status,
			Priority:     t.Priority,
			RelatedModel: t.Kind,
			Owner:        us.Brief(t.Owner),
			Overdue:      t.Overdue(now),
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
		}
		switch t.Kind {
		case models.RelatedLead:
			if l, ok := leads[t.RelatedRef.ID]; ok {
				v.RelatedTo = &Related{ID: l.ID, Name: l.Name, Email: l.Email}
			}
		case models.RelatedCustomer:
			if c, ok := customers[t.RelatedRef.ID]; ok {
				v.RelatedTo = &Related{ID: c.ID, Name: c.Name, Email: c.Email}
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *Manager) view(ctx context.Context, t models.Task) (Task, error) {
	out, err := m.populate(ctx, []models.Task{t})
	if err != nil {
		return Task{}, err
	}
	return out[0], nil
}

// Create validates in, resolves the related record and owner, and inserts the task.
// Past due dates are accepted.
func (m *Manager) Create(ctx context.Context, p auth.Principal, in CreateInput) (Task, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.DueDate) == "" || strings.TrimSpace(in.RelatedTo) == "" {
		return Task{}, errMissingFields
	}
	due, err := ParseDueDate(in.DueDate)
	if err != nil {
		return Task{}, err
	}
	if err := inputval.Struct(in); err != nil {
		return Task{}, err
	}

	related, err := m.resolveRelated(ctx, in.RelatedTo)
	if err != nil {
		return Task{}, err
	}

	self, err := taskpolicy.CreateOwner(p, strings.TrimSpace(in.Owner))
	if err != nil {
		return Task{}, err
	}
	ownerID := p.ID
	if !self {
		u, err := m.userRef(ctx, in.Owner)
		if err != nil {
			return Task{}, err
		}
		ownerID = u.ID
	}

	t, err := m.tasks.Create(ctx, models.Task{
		Title:      in.Title,
		DueDate:    due,
		Status:     in.Status,
		Priority:   in.Priority,
		RelatedRef: related,
		Owner:      ownerID,
	})
	if err != nil {
		return Task{}, apperr.Internalf(err, "insert task")
	}

	m.activity.Record(ctx, activitylog.TaskCreated, models.EntityTask, &t.ID, p.ID, map[string]any{
		"title":    t.Title,
		"dueDate":  t.DueDate,
		"status":   t.Status,
		"priority": t.Priority,
	})
	return m.view(ctx, t)
}

// List returns the page of tasks visible to p, soonest due first.
func (m *Manager) List(ctx context.Context, p auth.Principal, q ListQuery) (ListResult, error) {
	if q.Status != "" && !models.ValidTaskStatus(q.Status) {
		return ListResult{}, apperr.BadRequestf("status must be one of: %s, %s, %s", models.TaskOpen, models.TaskInProgress, models.TaskDone)
	}

	f := taskstore.Filter{
		Scope:   taskpolicy.ListScope(p),
		Status:  q.Status,
		Overdue: q.Overdue,
		Now:     m.now(),
	}
	if q.Owner != "" && taskpolicy.CanFilterByOwner(p) {
		u, err := m.userRef(ctx, q.Owner)
		if err != nil {
			return ListResult{}, err
		}
		f.Owner = &u.ID
	}

	list, total, err := m.tasks.List(ctx, f, q.Page)
	if err != nil {
		return ListResult{}, apperr.Internalf(err, "list tasks")
	}
	tasks, err := m.populate(ctx, list)
	if err != nil {
		return ListResult{}, err
	}

	meta := q.Page.Describe(total)
	return ListResult{
		Tasks: tasks,
		Pagination: Pagination{
			Page:       meta.Page,
			Limit:      meta.Limit,
			TotalPages: meta.TotalPages,
			TotalTasks: meta.Total,
			HasNext:    meta.HasNext,
			HasPrev:    meta.HasPrev,
		},
	}, nil
}

// Get returns one task if p may see it.
func (m *Manager) Get(ctx context.Context, p auth.Principal, id string) (Task, error) {
	t, err := m.load(ctx, p, id)
	if err != nil {
		return Task{}, err
	}
	return m.view(ctx, *t)
}

// Update applies the mutable fields of in. raw is the full request payload
// and is recorded as the change set.
func (m *Manager) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput, raw map[string]any) (Task, error) {
	t, err := m.load(ctx, p, id)
	if err != nil {
		return Task{}, err
	}
	if err := taskpolicy.CanModify(p, *t); err != nil {
		return Task{}, err
	}

	if err := inputval.Struct(in); err != nil {
		return Task{}, err
	}
	upd := taskstore.Update{
		Title:    in.Title,
		Status:   in.Status,
		Priority: in.Priority,
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return Task{}, apperr.BadRequestf("title cannot be empty")
	}
	if in.DueDate != nil {
		due, err := ParseDueDate(*in.DueDate)
		if err != nil {
			return Task{}, err
		}
		upd.DueDate = &due
	}

	updated := *t
	if !upd.Empty() {
		updated, err = m.tasks.Update(ctx, t.ID, upd)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Task{}, errTaskNotFound
		}
		if err != nil {
			return Task{}, apperr.Internalf(err, "update task")
		}
	}

	if raw == nil {
		raw = map[string]any{}
	}
	m.activity.Record(ctx, activitylog.TaskUpdated, models.EntityTask, &updated.ID, p.ID, map[string]any{
		"changes": raw,
	})
	return m.view(ctx, updated)
}
