package services

import (
	"encoding/json"
	"fmt"

	"github.com/anjiri1684/talent_booking/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// outboxLockKey names the advisory lock that serializes change-log appends.
// Holding it until commit makes seq order equal commit order, so readers that
// track the highest seq they have seen never skip a late-committing row.
const outboxLockKey int64 = 0x7461_6c65_6e74

// Outbox collects change events for the rows a transaction writes.
// Save must run inside that same transaction.
type Outbox struct {
	events []models.ChangeEvent
}

func (o *Outbox) Insert(table string, row interface{}) error {
	return o.add(table, models.ChangeInsert, row, nil)
}

func (o *Outbox) Update(table string, row, old interface{}) error {
	return o.add(table, models.ChangeUpdate, row, old)
}

func (o *Outbox) Delete(table string, old interface{}) error {
	return o.add(table, models.ChangeDelete, nil, old)
}

func (o *Outbox) Len() int {
	return len(o.events)
}

func (o *Outbox) add(table, typ string, row, old interface{}) error {
	record, err := encodeRow(row)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", table, err)
	}
	oldRecord, err := encodeRow(old)
	if err != nil {
		return fmt.Errorf("encode %s old record: %w", table, err)
	}
	o.events = append(o.events, models.ChangeEvent{
		Table:     table,
		Type:      typ,
		Schema:    "public",
		Record:    record,
		OldRecord: oldRecord,
	})
	return nil
}

func (o *Outbox) Save(tx *gorm.DB) error {
	if len(o.events) == 0 {
		return nil
	}
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", outboxLockKey).Error; err != nil {
		return fmt.Errorf("lock change log: %w", err)
	}
	if err := tx.Create(&o.events).Error; err != nil {
		return fmt.Errorf("append change events: %w", err)
	}
	return nil
}

func encodeRow(row interface{}) (datatypes.JSON, error) {
	if row == nil {
		return datatypes.JSON("null"), nil
	}
	b, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
