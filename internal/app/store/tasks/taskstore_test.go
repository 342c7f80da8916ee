package taskstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	taskstore "github.com/dalemusser/crmhub/internal/app/store/tasks"
	"github.com/dalemusser/crmhub/internal/app/system/paging"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"github.com/dalemusser/crmhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestFilter_BSON(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		f          taskstore.Filter
		wantStatus any
		wantDue    bool
	}{
		{"plain", taskstore.Filter{}, nil, false},
		{"status", taskstore.Filter{Status: models.TaskOpen}, models.TaskOpen, false},
		{"overdue", taskstore.Filter{Overdue: true, Now: now}, bson.M{"$ne": models.TaskDone}, true},
		{"overdue open", taskstore.Filter{Overdue: true, Now: now, Status: models.TaskOpen}, models.TaskOpen, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.f.BSON()
			switch want := tt.wantStatus.(type) {
			case nil:
				if _, ok := got["status"]; ok {
					t.Errorf("status: got %v, want absent", got["status"])
				}
			case string:
				if got["status"] != want {
					t.Errorf("status: got %v, want %v", got["status"], want)
				}
			case bson.M:
				m, ok := got["status"].(bson.M)
				if !ok || m["$ne"] != want["$ne"] {
					t.Errorf("status: got %v, want %v", got["status"], want)
				}
			}
			_, hasDue := got["due_date"]
			if hasDue != tt.wantDue {
				t.Errorf("due_date present: got %v, want %v", hasDue, tt.wantDue)
			}
		})
	}
}

func TestUpdate_Empty(t *testing.T) {
	if !(taskstore.Update{}).Empty() {
		t.Error("zero Update should be empty")
	}
	title := "x"
	if (taskstore.Update{Title: &title}).Empty() {
		t.Error("Update with title should not be empty")
	}
}

func setup(t *testing.T) (*taskstore.Store, *testutil.Fixtures, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)
	return taskstore.New(db), testutil.NewFixtures(t, db), ctx
}

func TestStore_CreateDefaults(t *testing.T) {
	store, _, ctx := setup(t)

	tk, err := store.Create(ctx, models.Task{
		Title:      " Call back ",
		DueDate:    time.Now().Add(24 * time.Hour),
		RelatedRef: models.LeadRef(primitive.NewObjectID()),
		Owner:      primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tk.Status != models.TaskOpen || tk.Priority != models.PriorityMedium {
		t.Errorf("defaults: got %q/%q, want Open/Medium", tk.Status, tk.Priority)
	}
	if tk.Title != "Call back" {
		t.Errorf("title: got %q", tk.Title)
	}

	got, err := store.GetByID(ctx, tk.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Kind != models.RelatedLead || got.RelatedRef.ID != tk.RelatedRef.ID {
		t.Errorf("related ref round trip: got %+v, want %+v", got.RelatedRef, tk.RelatedRef)
	}
}

func TestStore_ListOverdueSortedByDue(t *testing.T) {
	store, fx, ctx := setup(t)
	owner := primitive.NewObjectID()
	ref := models.CustomerRef(primitive.NewObjectID())
	now := time.Now().UTC()

	late := fx.CreateTask(ctx, "late", now.Add(-2*time.Hour), ref, owner)
	later := fx.CreateTask(ctx, "later", now.Add(-4*time.Hour), ref, owner)
	fx.CreateTask(ctx, "future", now.Add(4*time.Hour), ref, owner)
	done := fx.CreateTask(ctx, "done", now.Add(-6*time.Hour), ref, owner)
	status := models.TaskDone
	if _, err := store.Update(ctx, done.ID, taskstore.Update{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	tasks, total, err := store.List(ctx, taskstore.Filter{Scope: bson.M{"owner": owner}, Overdue: true, Now: now}, paging.Page{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(tasks) != 2 {
		t.Fatalf("got %d tasks (total %d), want 2", len(tasks), total)
	}
	if tasks[0].ID != later.ID || tasks[1].ID != late.ID {
		t.Errorf("order: got %s, %s; want later, late", tasks[0].Title, tasks[1].Title)
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	store, _, ctx := setup(t)
	title := "x"
	if _, err := store.Update(ctx, primitive.NewObjectID(), taskstore.Update{Title: &title}); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("got %v, want ErrNoDocuments", err)
	}
}
