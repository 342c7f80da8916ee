// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/crmhub/internal/app/system/paging"
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
	return &Store{c: db.Collection("tasks")}
}

// Filter selects tasks for List. When Overdue is set, tasks due before Now
// that are not Done match; Status, if also set, narrows further.
type Filter struct {
	Scope   bson.M
	Owner   *primitive.ObjectID
	Status  string
	Overdue bool
	Now     time.Time
}

func (f Filter) BSON() bson.M {
	out := bson.M{}
	for k, v := range f.Scope {
		out[k] = v
	}
	if f.Owner != nil {
		out["owner"] = *f.Owner
	}
	if f.Overdue {
		now := f.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		out["due_date"] = bson.M{"$lt": now}
	}
	switch {
	case f.Overdue && f.Status == models.TaskDone:
		// Done tasks are never overdue.
		out["status"] = bson.M{"$in": bson.A{}}
	case f.Status != "":
		out["status"] = f.Status
	case f.Overdue:
		out["status"] = bson.M{"$ne": models.TaskDone}
	}
	return out
}

// Create inserts t with defaults applied and returns it.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	t.Title = strings.TrimSpace(t.Title)
	if t.Status == "" {
		t.Status = models.TaskOpen
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	t.DueDate = t.DueDate.UTC()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID loads a task. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns one page of matching tasks, soonest due first, and the total match count.
func (s *Store) List(ctx context.Context, f Filter, pg paging.Page) ([]models.Task, int64, error) {
	filter := f.BSON()
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := pg.Apply(options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}, {Key: "_id", Value: 1}}))
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update holds the mutable task fields. Nil fields are left untouched.
type Update struct {
	Title    *string
	DueDate  *time.Time
	Status   *string
	Priority *string
}

// Empty reports whether upd changes nothing.
func (upd Update) Empty() bool {
	return upd.Title == nil && upd.DueDate == nil && upd.Status == nil && upd.Priority == nil
}

func (upd Update) Set(now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if upd.Title != nil {
		set["title"] = strings.TrimSpace(*upd.Title)
	}
	if upd.DueDate != nil {
		set["due_date"] = upd.DueDate.UTC()
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Priority != nil {
		set["priority"] = *upd.Priority
	}
	return set
}

// Update applies upd and returns the updated task.
// Returns mongo.ErrNoDocuments if the task does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Task, error) {
	var t models.Task
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": upd.Set(time.Now().UTC())}, opts).Decode(&t)
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Count returns the number of tasks.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
