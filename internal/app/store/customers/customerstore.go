// internal/app/store/customers/customerstore.go
package customerstore

import (
	"context"
	"sort"
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

// NoteWindow is how many notes a note-append response carries.
const NoteWindow = 5

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("customers")}
}

// Filter selects customers for List.
type Filter struct {
	Scope      bson.M
	Owner      *primitive.ObjectID
	IsArchived *bool
	Tags       []string
	Search     string
}

func (f Filter) BSON() bson.M {
	base := bson.M{}
	for k, v := range f.Scope {
		base[k] = v
	}
	if f.Owner != nil {
		base["owner"] = *f.Owner
	}
	if f.IsArchived != nil {
		base["is_archived"] = *f.IsArchived
	}
	if len(f.Tags) > 0 {
		base["tags"] = bson.M{"$in": f.Tags}
	}
	return search.And(base, search.AnyField(f.Search, "name", "email", "phone"))
}

// Create inserts c with empty collections and timestamps filled in.
func (s *Store) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.Name = normalize.Name(c.Name)
	c.Email = normalize.Email(c.Email)
	c.Tags = normalize.Tags(c.Tags)
	if c.Notes == nil {
		c.Notes = []models.Note{}
	}
	if c.Deals == nil {
		c.Deals = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Customer{}, err
	}
	return c, nil
}

// GetByID loads a customer. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var c models.Customer
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByEmail returns the most recent customer with email. Returns mongo.ErrNoDocuments if none.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}, opts).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetMany loads the customers with the given ids, keyed by id. Missing ids are absent.
func (s *Store) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Customer, error) {
	out := make(map[primitive.ObjectID]models.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var c models.Customer
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out[c.ID] = c
	}
	return out, cur.Err()
}

// List returns one page of matching customers, newest first, and the total match count.
func (s *Store) List(ctx context.Context, f Filter, pg paging.Page) ([]models.Customer, int64, error) {
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

	out := []models.Customer{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update holds optional customer changes. Nil fields are left untouched.
type Update struct {
	Name       *string
	Email      *string
	Phone      *string
	Company    *string
	Tags       *[]string
	IsArchived *bool
	Owner      *primitive.ObjectID
}

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
	if upd.Company != nil {
		set["company"] = *upd.Company
	}
	if upd.Tags != nil {
		set["tags"] = normalize.Tags(*upd.Tags)
	}
	if upd.IsArchived != nil {
		set["is_archived"] = *upd.IsArchived
	}
	if upd.Owner != nil {
		set["owner"] = *upd.Owner
	}
	return set
}

// Update applies upd and returns the updated customer.
// Returns mongo.ErrNoDocuments if the customer does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Customer, error) {
	var c models.Customer
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": upd.Set(time.Now().UTC())}, opts).Decode(&c)
	if err != nil {
		return models.Customer{}, err
	}
	return c, nil
}

// AddNote appends a note authored by author and returns the updated customer
// with its full note list.
func (s *Store) AddNote(ctx context.Context, id, author primitive.ObjectID, text string) (models.Customer, error) {
	now := time.Now().UTC()
	note := models.Note{
		ID:        primitive.NewObjectID(),
		Text:      text,
		CreatedBy: author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	update := bson.M{
		"$push": bson.M{"notes": note},
		"$set":  bson.M{"updated_at": now},
	}

	var c models.Customer
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c); err != nil {
		return models.Customer{}, err
	}
	return c, nil
}

// NewestNotes returns up to n notes ordered newest first. notes is not modified.
// Notes with equal timestamps keep reverse append order. n <= 0 returns all of them.
func NewestNotes(notes []models.Note, n int) []models.Note {
	out := make([]models.Note, len(notes))
	for i, note := range notes {
		out[len(notes)-1-i] = note
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Count returns the number of customers.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
