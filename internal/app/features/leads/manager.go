// internal/app/features/leads/manager.go
package leads

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/crmhub/internal/app/features/shared/views"
	"github.com/dalemusser/crmhub/internal/app/policy/leadpolicy"
	customerstore "github.com/dalemusser/crmhub/internal/app/store/customers"
	leadstore "github.com/dalemusser/crmhub/internal/app/store/leads"
	userstore "github.com/dalemusser/crmhub/internal/app/store/users"
	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/inputval"
	"github.com/dalemusser/crmhub/internal/app/system/txn"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	errLeadNotFound  = apperr.NotFoundf("Lead not found")
	errAgentNotFound = apperr.NotFoundf("Agent not found")
	errRequired      = apperr.BadRequestf("Name, Email and Phone are required")
	errLeadExists    = apperr.Conflictf("Lead already exists")
)

// Manager applies the lead lifecycle rules. Every method takes the caller
// explicitly; nothing is read from request state.
type Manager struct {
	client    *mongo.Client
	leads     *leadstore.Store
	customers *customerstore.Store
	users     *userstore.Store
	activity  *activitylog.Logger
	log       *zap.Logger
}

// NewManager wires a Manager to db. activity may be nil.
func NewManager(db *mongo.Database, activity *activitylog.Logger, logger *zap.Logger) *Manager {
	return &Manager{
		client:    db.Client(),
		leads:     leadstore.New(db),
		customers: customerstore.New(db),
		users:     userstore.New(db),
		activity:  activity,
		log:       logger,
	}
}

func parseID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, errLeadNotFound
	}
	return oid, nil
}

// load resolves and authorizes a lead: 404 before 403.
func (m *Manager) load(ctx context.Context, p auth.Principal, rawID string) (*models.Lead, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	l, err := m.leads.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errLeadNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load lead")
	}
	if err := leadpolicy.CanView(p, *l); err != nil {
		return nil, err
	}
	return l, nil
}

func (m *Manager) agentByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := m.users.GetAgentByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errAgentNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load agent")
	}
	return u, nil
}

func (m *Manager) view(ctx context.Context, l models.Lead) (views.Lead, error) {
	us, err := views.LoadUsers(ctx, m.users, l.AssignedAgent)
	if err != nil {
		return views.Lead{}, apperr.Internalf(err, "populate lead")
	}
	return views.LeadOf(l, us), nil
}

// Create validates in, resolves the assignee and inserts a New lead.
func (m *Manager) Create(ctx context.Context, p auth.Principal, in CreateInput) (views.Lead, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Phone) == "" {
		return views.Lead{}, errRequired
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := inputval.Struct(in); err != nil {
		return views.Lead{}, err
	}

	self, err := leadpolicy.CreateAssignment(p, strings.TrimSpace(in.AssignedAgent))
	if err != nil {
		return views.Lead{}, err
	}
	agentID := p.ID
	if !self {
		agent, err := m.agentByEmail(ctx, in.AssignedAgent)
		if err != nil {
			return views.Lead{}, err
		}
		agentID = agent.ID
	}

	exists, err := m.leads.EmailExists(ctx, in.Email)
	if err != nil {
		return views.Lead{}, apperr.Internalf(err, "check lead email")
	}
	if exists {
		return views.Lead{}, errLeadExists
	}

	l, err := m.leads.Create(ctx, models.Lead{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         strings.TrimSpace(in.Phone),
		Source:        strings.TrimSpace(in.Source),
		Status:        in.Status,
		AssignedAgent: agentID,
	})
	if err != nil {
		return views.Lead{}, apperr.Internalf(err, "insert lead")
	}

	m.activity.Record(ctx, activitylog.LeadCreated, models.EntityLead, &l.ID, p.ID, map[string]any{
		"name":          l.Name,
		"emailId":       l.Email,
		"assignedAgent": l.AssignedAgent.Hex(),
	})
	return m.view(ctx, l)
}

// List returns the page of leads visible to p that matches q.
func (m *Manager) List(ctx context.Context, p auth.Principal, q ListQuery) (ListResult, error) {
	if q.Status != "" && !models.ValidLeadStatus(q.Status) {
		return ListResult{}, apperr.BadRequestf("status must be one of: %s", strings.Join(models.LeadStatuses, ", "))
	}

	f := leadstore.Filter{
		Scope:      leadpolicy.ListScope(p),
		Status:     q.Status,
		IsArchived: q.IsArchived,
		Search:     q.Search,
	}
	if q.AssignedAgent != "" && leadpolicy.CanFilterByAgent(p) {
		agent, err := m.agentByEmail(ctx, q.AssignedAgent)
		if err != nil {
			return ListResult{}, err
		}
		f.AssignedAgent = &agent.ID
	}

	leads, total, err := m.leads.List(ctx, f, q.Page)
	if err != nil {
		return ListResult{}, apperr.Internalf(err, "list leads")
	}

	ids := make([]primitive.ObjectID, 0, len(leads))
	for _, l := range leads {
		ids = append(ids, l.AssignedAgent)
	}
	us, err := views.LoadUsers(ctx, m.users, ids...)
	if err != nil {
		return ListResult{}, apperr.Internalf(err, "populate leads")
	}

	meta := q.Page.Describe(total)
	out := ListResult{
		Page:        meta.Page,
		Limit:       meta.Limit,
		TotalLeads:  meta.Total,
		TotalPages:  meta.TotalPages,
		HasNextPage: meta.HasNext,
		HasPrevPage: meta.HasPrev,
		Leads:       make([]views.Lead, 0, len(leads)),
	}
	for _, l := range leads {
		out.Leads = append(out.Leads, views.LeadOf(l, us))
	}
	return out, nil
}

// Get returns one lead if p may see it.
func (m *Manager) Get(ctx context.Context, p auth.Principal, id string) (views.Lead, error) {
	l, err := m.load(ctx, p, id)
	if err != nil {
		return views.Lead{}, err
	}
	return m.view(ctx, *l)
}

// Update applies in to the lead. Status moves are unrestricted within the
// enumerated set; assignment changes need leadpolicy.CanReassign.
func (m *Manager) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (views.Lead, error) {
	l, err := m.load(ctx, p, id)
	if err != nil {
		return views.Lead{}, err
	}
	if err := leadpolicy.CanModify(p, *l); err != nil {
		return views.Lead{}, err
	}

	if err := inputval.Struct(in); err != nil {
		return views.Lead{}, err
	}
	for _, f := range []*string{in.Name, in.Email, in.Phone} {
		if f != nil && strings.TrimSpace(*f) == "" {
			return views.Lead{}, errRequired
		}
	}

	upd := leadstore.Update{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Source:     in.Source,
		Status:     in.Status,
		IsArchived: in.IsArchived,
	}
	if in.AssignedAgent != nil {
		agent, err := m.agentByEmail(ctx, *in.AssignedAgent)
		if err != nil {
			return views.Lead{}, err
		}
		if err := leadpolicy.CanReassign(p, agent.ID); err != nil {
			return views.Lead{}, err
		}
		upd.AssignedAgent = &agent.ID
	}

	updated, err := m.leads.Update(ctx, l.ID, upd)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return views.Lead{}, errLeadNotFound
	}
	if err != nil {
		return views.Lead{}, apperr.Internalf(err, "update lead")
	}

	m.activity.Record(ctx, activitylog.LeadUpdated, models.EntityLead, &updated.ID, p.ID, map[string]any{
		"changes": changes(in),
	})
	return m.view(ctx, updated)
}

// changes lists the fields present in an update payload.
func changes(in UpdateInput) map[string]any {
	out := map[string]any{}
	put := func(k string, v *string) {
		if v != nil {
			out[k] = *v
		}
	}
	put("name", in.Name)
	put("emailId", in.Email)
	put("phone", in.Phone)
	put("source", in.Source)
	put("status", in.Status)
	put("assignedAgent", in.AssignedAgent)
	if in.IsArchived != nil {
		out["isArchived"] = *in.IsArchived
	}
	return out
}

// Archive soft-deletes the lead.
func (m *Manager) Archive(ctx context.Context, p auth.Principal, id string) (views.Lead, error) {
	l, err := m.load(ctx, p, id)
	if err != nil {
		return views.Lead{}, err
	}
	if err := leadpolicy.CanModify(p, *l); err != nil {
		return views.Lead{}, err
	}

	archived, err := m.leads.Archive(ctx, l.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return views.Lead{}, errLeadNotFound
	}
	if err != nil {
		return views.Lead{}, apperr.Internalf(err, "archive lead")
	}

	m.activity.Record(ctx, activitylog.LeadArchived, models.EntityLead, &archived.ID, p.ID, nil)
	return m.view(ctx, archived)
}

// Convert creates a customer from the lead and archives the lead. Both writes
// share a transaction when the deployment supports one. Archived leads may be
// converted again.
func (m *Manager) Convert(ctx context.Context, p auth.Principal, id string) (ConvertResult, error) {
	l, err := m.load(ctx, p, id)
	if err != nil {
		return ConvertResult{}, err
	}
	if err := leadpolicy.CanModify(p, *l); err != nil {
		return ConvertResult{}, err
	}

	var (
		customer models.Customer
		archived models.Lead
	)
	err = txn.Run(ctx, m.client, m.log, func(tctx context.Context) error {
		var err error
		customer, err = m.customers.Create(tctx, models.Customer{
			Name:  l.Name,
			Email: l.Email,
			Phone: l.Phone,
			Owner: l.AssignedAgent,
		})
		if err != nil {
			return err
		}
		archived, err = m.leads.Archive(tctx, l.ID)
		return err
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ConvertResult{}, errLeadNotFound
	}
	if err != nil {
		return ConvertResult{}, apperr.Internalf(err, "convert lead")
	}

	m.activity.Record(ctx, activitylog.LeadConverted, models.EntityLead, &archived.ID, p.ID, map[string]any{
		"customerId": customer.ID.Hex(),
	})

	us, err := views.LoadUsers(ctx, m.users, archived.AssignedAgent)
	if err != nil {
		return ConvertResult{}, apperr.Internalf(err, "populate conversion")
	}
	return ConvertResult{
		Message:  "Lead converted to customer successfully",
		Customer: views.CustomerOf(customer, us),
		Lead:     views.LeadOf(archived, us),
	}, nil
}
