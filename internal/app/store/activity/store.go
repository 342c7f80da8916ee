// internal/app/store/activity/store.go
package activitystore

import (
	"context"
	"time"

	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxLatest caps how many entries Latest returns.
const MaxLatest = 50

// Store appends and reads activity entries. Entries are never updated or deleted.
type Store struct {
	c *mongo.Collection
}

// New creates a new activity Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activities")}
}

// Create records a new activity entry.
func (s *Store) Create(ctx context.Context, a models.Activity) (models.Activity, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	a.UpdatedAt = a.CreatedAt
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

// Latest returns up to limit entries, newest first. limit is clamped to [1, MaxLatest].
func (s *Store) Latest(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > MaxLatest {
		limit = MaxLatest
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Activity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
