// internal/app/system/activitylog/logger.go
package activitylog

import (
	"context"
	"fmt"

	activitystore "github.com/dalemusser/crmhub/internal/app/store/activity"
	"github.com/dalemusser/crmhub/internal/app/system/timeouts"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Action labels written to the activity log.
const (
	LeadCreated     = "Lead Created"
	LeadUpdated     = "Lead Updated"
	LeadArchived    = "Lead Archived"
	LeadConverted   = "Lead Converted"
	CustomerCreated = "Customer Created"
	CustomerUpdated = "Customer Updated"
	NoteAdded       = "Note Added"
	TaskCreated     = "Task Created"
	TaskUpdated     = "Task Updated"
	UserCreated     = "User Created"
	UserUpdated     = "User Updated"
	UserDeleted     = "User Deleted"
)

// Destinations for Config.Mode.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Config controls where entries go.
type Config struct {
	Mode string
}

// ValidMode reports whether m is a recognised Config.Mode.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Logger records activity entries. Recording never fails the caller:
// write errors are logged and dropped.
type Logger struct {
	store  *activitystore.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new activity Logger. An empty mode means ModeAll.
func New(store *activitystore.Store, zapLog *zap.Logger, config Config) *Logger {
	if config.Mode == "" {
		config.Mode = ModeAll
	}
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// Record appends one entry. A nil Logger is a no-op.
// The write is detached from ctx cancellation and bounded by timeouts.Short.
func (l *Logger) Record(ctx context.Context, action, entity string, entityID *primitive.ObjectID, performedBy primitive.ObjectID, details map[string]any) {
	if l == nil || l.config.Mode == ModeOff {
		return
	}

	a := models.Activity{
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		PerformedBy: performedBy,
		Details:     details,
	}

	if l.config.Mode == ModeAll || l.config.Mode == ModeLog {
		l.logToZap(a)
	}
	if l.config.Mode == ModeAll || l.config.Mode == ModeDB {
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
		defer cancel()
		if _, err := l.store.Create(wctx, a); err != nil {
			l.zapLog.Error("failed to store activity",
				zap.Error(err),
				zap.String("action", action),
				zap.String("entity", entity),
			)
		}
	}
}

func (l *Logger) logToZap(a models.Activity) {
	fields := []zap.Field{
		zap.Bool("activity", true),
		zap.String("action", a.Action),
		zap.String("entity", a.Entity),
		zap.String("performed_by", a.PerformedBy.Hex()),
	}
	if a.EntityID != nil {
		fields = append(fields, zap.String("entity_id", a.EntityID.Hex()))
	}
	for k, v := range a.Details {
		fields = append(fields, zap.String("detail_"+k, fmt.Sprint(v)))
	}
	l.zapLog.Info("activity", fields...)
}
