package activitylog_test

import (
	"context"
	"testing"

	activitystore "github.com/dalemusser/crmhub/internal/app/store/activity"
	"github.com/dalemusser/crmhub/internal/app/system/activitylog"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"github.com/dalemusser/crmhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *activitylog.Logger
	// must not panic
	logger.Record(context.Background(), activitylog.LeadCreated, models.EntityLead, nil, primitive.NewObjectID(), nil)
}

func TestValidMode(t *testing.T) {
	for _, m := range []string{"all", "db", "log", "off"} {
		if !activitylog.ValidMode(m) {
			t.Errorf("ValidMode(%q) = false, want true", m)
		}
	}
	if activitylog.ValidMode("verbose") {
		t.Error(`ValidMode("verbose") = true, want false`)
	}
}

func TestLogger_Record_WritesEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	logger := activitylog.New(store, zap.NewNop(), activitylog.Config{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leadID := primitive.NewObjectID()
	by := primitive.NewObjectID()
	logger.Record(ctx, activitylog.LeadConverted, models.EntityLead, &leadID, by, map[string]any{"customerId": "abc"})

	got, err := store.Latest(ctx, 10)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	if got[0].Action != activitylog.LeadConverted || got[0].PerformedBy != by {
		t.Errorf("entry: got %+v", got[0])
	}
	if got[0].EntityID == nil || *got[0].EntityID != leadID {
		t.Errorf("entity id: got %v, want %s", got[0].EntityID, leadID.Hex())
	}
}

func TestLogger_Record_SurvivesCancelledContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	logger := activitylog.New(store, zap.NewNop(), activitylog.Config{Mode: activitylog.ModeDB})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	logger.Record(ctx, activitylog.NoteAdded, models.EntityCustomer, nil, primitive.NewObjectID(), nil)

	readCtx, readCancel := testutil.TestContext()
	defer readCancel()
	got, err := store.Latest(readCtx, 10)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d entries, want 1", len(got))
	}
}

func TestLogger_Record_ModeOffAndLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, mode := range []string{activitylog.ModeOff, activitylog.ModeLog} {
		logger := activitylog.New(store, zap.NewNop(), activitylog.Config{Mode: mode})
		logger.Record(ctx, activitylog.TaskCreated, models.EntityTask, nil, primitive.NewObjectID(), nil)
	}

	got, err := store.Latest(ctx, 10)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries, want none in off/log modes", len(got))
	}
}
