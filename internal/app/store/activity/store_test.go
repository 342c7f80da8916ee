package activitystore_test

import (
	"fmt"
	"testing"
	"time"

	activitystore "github.com/dalemusser/crmhub/internal/app/store/activity"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"github.com/dalemusser/crmhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_AutoGeneratesID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Activity{
		Action:      "Lead Created",
		Entity:      models.EntityLead,
		PerformedBy: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.ID.IsZero() {
		t.Error("expected generated ID")
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Latest_NewestFirstAndCapped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	by := primitive.NewObjectID()
	for i := 0; i < 55; i++ {
		_, err := store.Create(ctx, models.Activity{
			Action:      fmt.Sprintf("a%02d", i),
			Entity:      models.EntityTask,
			PerformedBy: by,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	got, err := store.Latest(ctx, 500)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(got) != activitystore.MaxLatest {
		t.Fatalf("got %d entries, want %d", len(got), activitystore.MaxLatest)
	}
	if got[0].Action != "a54" {
		t.Errorf("first entry: got %q, want a54", got[0].Action)
	}

	few, err := store.Latest(ctx, 3)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(few) != 3 {
		t.Errorf("got %d entries, want 3", len(few))
	}
}
