// internal/app/store/leads/leadstore.go
package leadstore

import (
	"context"
	"time"

	"github.com/dalemusser/crmhub/internal/app/system/normalize"
	"github.com/dalemusser/crmhub/internal/app/system/paging"
	"github.com/dalemusser/crmhub/internal/app/system/search"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("leads")}
}

// Filter selects leads for List. Scope is the caller's visibility
// restriction and is always applied.
type Filter struct {
	Scope         bson.M
	Status        string
	IsArchived    *bool
	AssignedAgent *primitive.ObjectID
	Search        string
}

// BSON renders f as a query filter.
func (f Filter) BSON() bson.M {
	base := bson.M{}
	for k, v := range f.Scope {
		base[k] = v
	}
	if f.AssignedAgent != nil {
		base["assigned_agent"] = *f.AssignedAgent
	}
	if f.Status != "" {
		base["status"] = f.Status
	}
	if f.IsArchived != nil {
		base["is_archived"] = *f.IsArchived
	}
	return search.And(base, search.AnyField(f.Search, "name", "email", "phone"))
}

// Create inserts l with defaults applied and returns it.
func (s *Store) Create(ctx context.Context, l models.Lead) (models.Lead, error) {
	l.ID = primitive.NewObjectID()
	l.Name = normalize.Name(l.Name)
	l.Email = normalize.Email(l.Email)
	if l.Status == "" {
		l.Status = models.LeadNew
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.Lead{}, err
	}
	return l, nil
}

// EmailExists reports whether any lead, archived or not, has email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": normalize.Email(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByID loads a lead. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	var l models.Lead
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByEmail returns the most recent lead with email. Returns mongo.ErrNoDocuments if none.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Lead, error) {
	var l models.Lead
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}, opts).Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// GetMany loads the leads with the given ids, keyed by id. Missing ids are absent.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Lead, error) {
	out := make(map[primitive.ObjectID]models.Lead, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var l models.Lead
		if err := cur.Decode(&l); err != nil {
			return nil, err
		}
		out[l.ID] = l
	}
	return out, cur.Err()
}

// List returns one page of matching leads, newest first, and the total match count.
func (s *Store) List(ctx context.Context, f Filter, pg paging.Page) ([]models.Lead, int64, error) {
	filter := f.BSON()
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := pg.Apply(options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.Lead{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update holds optional lead changes. Nil fields are left untouched.
type Update struct {
	Name          *string
	Email         *string
	Phone         *string
	Source        *string
	Status        *string
	AssignedAgent *primitive.ObjectID
	IsArchived    *bool
}

// Set renders upd as a $set document, stamping updated_at.
func (upd Update) Set(now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if upd.Name != nil {
		set["name"] = normalize.Name(*upd.Name)
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Source != nil {
		set["source"] = *upd.Source
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.AssignedAgent != nil {
		set["assigned_agent"] = *upd.AssignedAgent
	}
	if upd.IsArchived != nil {
		set["is_archived"] = *upd.IsArchived
	}
	return set
}

// Update applies upd and returns the updated lead.
// Returns mongo.ErrNoDocuments if the lead does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Lead, error) {
	var l models.Lead
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": upd.Set(time.Now().UTC())}, opts).Decode(&l)
	if err != nil {
		return models.Lead{}, err
	}
	return l, nil
}

// Archive sets is_archived and returns the updated lead.
func (s *Store) Archive(ctx context.Context, id primitive.ObjectID) (models.Lead, error) {
	archived := true
	return s.Update(ctx, id, Update{IsArchived: &archived})
}

// Count returns the number of leads.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
