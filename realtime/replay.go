package realtime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxReplay = 500

// LoadSince reads committed changes for a table after sinceSeq, oldest first.
// Rows that no longer decode are skipped.
func LoadSince(ctx context.Context, db *gorm.DB, log logger.Logger, table string, sinceSeq int64) ([]workflow.Change, error) {
	var events []models.ChangeEvent
	if err := db.WithContext(ctx).
		Where("table_name = ? AND seq > ?", table, sinceSeq).
		Order("seq ASC").
		Limit(maxReplay).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("load changes since %d: %w", sinceSeq, err)
	}

	changes := make([]workflow.Change, 0, len(events))
	for _, ev := range events {
		c, err := workflow.DecodeChange(ev)
		if err != nil {
			log.WithFields(map[string]interface{}{"seq": ev.Seq, "error": err.Error()}).Warn("Skipping malformed change during replay")
			continue
		}
		changes = append(changes, c)
	}
	return changes, nil
}

// Seed is a counter's starting value and the last change-log seq it reflects.
type Seed struct {
	Count int
	Seq   int64
}

// SeedCount runs the snapshot query a counter starts from. The count and the
// change-log head are read from one snapshot, so changes up to Seq are already
// part of Count.
func SeedCount(ctx context.Context, db *gorm.DB, viewerID uuid.UUID, sub Subscription, now time.Time) (Seed, error) {
	if sub.Counter != CounterSnapshot {
		return Seed{}, nil
	}
	cols, ok := filterColumns[sub.Table]
	if !ok {
		return Seed{}, errors.New("unknown table " + sub.Table)
	}
	if !sub.Filter.IsZero() && !contains(cols, sub.Filter.Column) {
		return Seed{}, errors.New("unknown filter column " + sub.Filter.Column)
	}

	var seed Seed
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := countRows(tx, sub, now)
		if err != nil {
			return err
		}
		seed.Count = count
		return tx.Model(&models.ChangeEvent{}).Select("COALESCE(MAX(seq), 0)").Scan(&seed.Seq).Error
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return Seed{}, fmt.Errorf("seed %s counter for %s: %w", sub.Table, viewerID, err)
	}
	return seed, nil
}

func countRows(tx *gorm.DB, sub Subscription, now time.Time) (int, error) {
	q := tx.Table(sub.Table)
	if !sub.Filter.IsZero() {
		q = q.Where(sub.Filter.Column+" = ?", sub.Filter.Value)
	}
	if sub.Table == workflow.TableNotifications {
		q = q.Where("read_at IS NULL")
	} else if len(sub.CountStatuses) > 0 {
		q = q.Where(StatusColumn(sub.Table)+" IN ?", sub.CountStatuses)
	}
	if sub.WindowHours > 0 {
		column := "updated_at"
		if sub.Table == workflow.TableNotifications {
			column = "created_at"
		}
		q = q.Where(column+" >= ?", now.Add(-time.Duration(sub.WindowHours)*time.Hour))
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
