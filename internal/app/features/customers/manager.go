// internal/app/features/customers/manager.go
package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/crmhub/internal/app/features/shared/views"
	"github.com/dalemusser/crmhub/internal/app/policy/customerpolicy"
	customerstore "github.com/dalemusser/crmhub/internal/app/store/customers"
	userstore "github.com/dalemusser/crmhub/internal/app/store/users"
	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/app/system/auth"
	"github.com/dalemusser/crmhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/crmhub/internal/app/system/inputval"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	errCustomerNotFound = apperr.NotFoundf("Customer not found")
	errOwnerNotFound    = apperr.NotFoundf("Owner not found")
	errRequired         = apperr.BadRequestf("Name and Email are required")
	errNoteRequired     = apperr.BadRequestf("Note text is required")
)

// MaxNoteLength caps note text after sanitising.
const MaxNoteLength = 5000

// Manager applies the customer lifecycle rules for an explicit caller.
type Manager struct {
	customers *customerstore.Store
	users     *userstore.Store
	activity  *activitylog.Logger
	log       *zap.Logger
}

// NewManager wires a Manager to db. activity may be nil.
func NewManager(db *mongo.Database, activity *activitylog.Logger, logger *zap.Logger) *Manager {
	return &Manager{
		customers: customerstore.New(db),
		users:     userstore.New(db),
		activity:  activity,
		log:       logger,
	}
}

func (m *Manager) load(ctx context.Context, p auth.Principal, rawID string) (*models.Customer, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(rawID))
	if err != nil {
		return nil, errCustomerNotFound
	}
	c, err := m.customers.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errCustomerNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load customer")
	}
	if err := customerpolicy.CanView(p, *c); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *Manager) owner(ctx context.Context, ref string) (*models.User, error) {
	u, err := m.users.GetByIDOrEmail(ctx, strings.TrimSpace(ref))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errOwnerNotFound
	}
	if err != nil {
		return nil, apperr.Internalf(err, "load owner")
	}
	return u, nil
}

func (m *Manager) view(ctx context.Context, c models.Customer) (views.Customer, error) {
	us, err := views.LoadUsers(ctx, m.users, c.Owner)
	if err != nil {
		return views.Customer{}, apperr.Internalf(err, "populate customer")
	}
	return views.CustomerOf(c, us), nil
}

// Create inserts a customer owned by the caller, or by the requested owner
// when the caller is an Admin.
func (m *Manager) Create(ctx context.Context, p auth.Principal, in CreateInput) (views.Customer, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return views.Customer{}, errRequired
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := inputval.Struct(in); err != nil {
		return views.Customer{}, err
	}

	ownerID := p.ID
	if !customerpolicy.CreateOwnerIsSelf(p, strings.TrimSpace(in.Owner)) {
		u, err := m.owner(ctx, in.Owner)
		if err != nil {
			return views.Customer{}, err
		}
		ownerID = u.ID
	}

	c, err := m.customers.Create(ctx, models.Customer{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   strings.TrimSpace(in.Phone),
		Company: strings.TrimSpace(in.Company),
		Tags:    in.Tags,
		Owner:   ownerID,
	})
	if err != nil {
		return views.Customer{}, apperr.Internalf(err, "insert customer")
	}

	m.activity.Record(ctx, activitylog.CustomerCreated, models.EntityCustomer, &c.ID, p.ID, map[string]any{
		"name":    c.Name,
		"emailId": c.Email,
		"owner":   c.Owner.Hex(),
	})
	return m.view(ctx, c)
}

// List returns the page of customers visible to p that matches q.
func (m *Manager) List(ctx context.Context, p auth.Principal, q ListQuery) (ListResult, error) {
	f := customerstore.Filter{
		Scope:      customerpolicy.ListScope(p),
		IsArchived: q.IsArchived,
		Tags:       q.Tags,
		Search:     q.Search,
	}
	if q.OwnerEmail != "" && customerpolicy.CanFilterByOwner(p) {
		u, err := m.users.GetByEmail(ctx, q.OwnerEmail)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ListResult{}, errOwnerNotFound
		}
		if err != nil {
			return ListResult{}, apperr.Internalf(err, "load owner")
		}
		f.Owner = &u.ID
	}

	list, total, err := m.customers.List(ctx, f, q.Page)
	if err != nil {
		return ListResult{}, apperr.Internalf(err, "list customers")
	}

	ids := make([]primitive.ObjectID, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.Owner)
	}
	us, err := views.LoadUsers(ctx, m.users, ids...)
	if err != nil {
		return ListResult{}, apperr.Internalf(err, "populate customers")
	}

	meta := q.Page.Describe(total)
	out := ListResult{
		Page:           meta.Page,
		Limit:          meta.Limit,
		TotalCustomers: meta.Total,
		TotalPages:     meta.TotalPages,
		HasNextPage:    meta.HasNext,
		HasPrevPage:    meta.HasPrev,
		Customers:      make([]views.Customer, 0, len(list)),
	}
	for _, c := range list {
		out.Customers = append(out.Customers, views.CustomerOf(c, us))
	}
	return out, nil
}

// Get returns one customer with every note, newest first.
func (m *Manager) Get(ctx context.Context, p auth.Principal, id string) (views.Customer, error) {
	c, err := m.load(ctx, p, id)
	if err != nil {
		return views.Customer{}, err
	}
	c.Notes = customerstore.NewestNotes(c.Notes, 0)
	return m.view(ctx, *c)
}

// Update applies in. An owner in the payload is dropped unless p is an Admin.
func (m *Manager) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (views.Customer, error) {
	c, err := m.load(ctx, p, id)
	if err != nil {
		return views.Customer{}, err
	}
	if err := customerpolicy.CanModify(p, *c); err != nil {
		return views.Customer{}, err
	}

	if !customerpolicy.MayChangeOwner(p) {
		in.Owner = nil
	}
	if err := inputval.Struct(in); err != nil {
		return views.Customer{}, err
	}
	for _, f := range []*string{in.Name, in.Email} {
		if f != nil && strings.TrimSpace(*f) == "" {
			return views.Customer{}, errRequired
		}
	}

	upd := customerstore.Update{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Company:    in.Company,
		Tags:       in.Tags,
		IsArchived: in.IsArchived,
	}
	if in.Owner != nil && strings.TrimSpace(*in.Owner) != "" {
		u, err := m.owner(ctx, *in.Owner)
		if err != nil {
			return views.Customer{}, err
		}
		upd.Owner = &u.ID
	}

	updated, err := m.customers.Update(ctx, c.ID, upd)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return views.Customer{}, errCustomerNotFound
	}
	if err != nil {
		return views.Customer{}, apperr.Internalf(err, "update customer")
	}

	m.activity.Record(ctx, activitylog.CustomerUpdated, models.EntityCustomer, &updated.ID, p.ID, map[string]any{
		"changes": changes(in),
	})
	return m.view(ctx, updated)
}

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
	put("company", in.Company)
	put("owner", in.Owner)
	if in.Tags != nil {
		out["tags"] = *in.Tags
	}
	if in.IsArchived != nil {
		out["isArchived"] = *in.IsArchived
	}
	return out
}

// AddNote appends a plain-text note by p and returns the customer carrying
// only its newest notes.
func (m *Manager) AddNote(ctx context.Context, p auth.Principal, id string, in NoteInput) (views.Customer, error) {
	c, err := m.load(ctx, p, id)
	if err != nil {
		return views.Customer{}, err
	}
	if err := customerpolicy.CanModify(p, *c); err != nil {
		return views.Customer{}, err
	}

	text := htmlsanitize.PlainText(in.Text)
	if text == "" {
		return views.Customer{}, errNoteRequired
	}
	if len(text) > MaxNoteLength {
		return views.Customer{}, apperr.BadRequestf("Note text must be at most %d characters", MaxNoteLength)
	}

	updated, err := m.customers.AddNote(ctx, c.ID, p.ID, text)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return views.Customer{}, errCustomerNotFound
	}
	if err != nil {
		return views.Customer{}, apperr.Internalf(err, "add note")
	}

	m.activity.Record(ctx, activitylog.NoteAdded, models.EntityCustomer, &updated.ID, p.ID, nil)

	updated.Notes = customerstore.NewestNotes(updated.Notes, customerstore.NoteWindow)
	return m.view(ctx, updated)
}
