package services

import (
	"context"
	"strings"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/workflow"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// IngestChange validates a change reported by an external database webhook and
// appends it to the change log so the relay delivers it like a local write.
func IngestChange(ctx context.Context, db *gorm.DB, ev models.ChangeEvent) (*models.ChangeEvent, error) {
	ev.Seq = 0
	ev.PublishedAt = nil
	ev.Type = strings.ToUpper(ev.Type)
	if ev.Schema == "" {
		ev.Schema = "public"
	}
	if len(ev.Record) == 0 {
		ev.Record = datatypes.JSON("null")
	}
	if len(ev.OldRecord) == 0 {
		ev.OldRecord = datatypes.JSON("null")
	}
	if _, err := workflow.DecodeChange(ev); err != nil {
		return nil, err
	}

	out := Outbox{events: []models.ChangeEvent{ev}}
	if err := db.WithContext(ctx).Transaction(out.Save); err != nil {
		return nil, err
	}
	return &out.events[0], nil
}
