// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Spec is the desired index set for one collection.
type Spec struct {
	Collection string
	Models     []mongo.IndexModel
}

// All lists every index the application relies on.
func All() []Spec {
	return []Spec{
		{"users", []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("uniq_users_email").SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}, Options: options.Index().SetName("idx_users_role")},
		}},
		{"leads", []mongo.IndexModel{
			{Keys: bson.D{{Key: "assigned_agent", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_leads_agent_created")},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("idx_leads_email")},
			{Keys: bson.D{{Key: "status", Value: 1}}, Options: options.Index().SetName("idx_leads_status")},
		}},
		{"customers", []mongo.IndexModel{
			{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetName("idx_customers_owner")},
			{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("idx_customers_tags")},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName("idx_customers_email")},
		}},
		{"tasks", []mongo.IndexModel{
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "due_date", Value: 1}}, Options: options.Index().SetName("idx_tasks_owner_due")},
			{Keys: bson.D{{Key: "related_to", Value: 1}}, Options: options.Index().SetName("idx_tasks_related")},
		}},
		{"activities", []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_activities_created")},
		}},
	}
}

/*
EnsureAll is called at startup. Reconciling is idempotent; problems are
aggregated so every bad collection shows up in one startup failure.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	var problems []string
	for _, s := range All() {
		if err := ensureIndexSet(ctx, db.Collection(s.Collection), s.Models, log); err != nil {
			problems = append(problems, s.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

// ensureIndexSet creates each desired index, reusing an existing index with
// the same keys and options and replacing one whose name or uniqueness differs.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, log *zap.Logger) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := ""
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[sig]; ok {
			if boolVal(ex.Unique) == boolVal(unique) && (name == "" || ex.Name == name) {
				log.Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name))
				continue
			}
			log.Info("replacing index",
				zap.String("collection", coll.Name()),
				zap.String("from", ex.Name),
				zap.String("to", name),
				zap.String("keys", sig))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop failed: %v", ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && boolVal(unique) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index on %s (duplicates present)", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			continue
		}
		log.Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolVal(unique)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
