package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Relay moves committed outbox rows to a Publisher in seq order and marks them published.
// Several instances may run a relay; SKIP LOCKED keeps them off each other's rows.
type Relay struct {
	db        *gorm.DB
	publisher Publisher
	log       logger.Logger
	interval  time.Duration
	batchSize int
	wake      chan struct{}
	now       func() time.Time
}

func NewRelay(db *gorm.DB, publisher Publisher, log logger.Logger, interval time.Duration, batchSize int) *Relay {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return &Relay{
		db:        db,
		publisher: publisher,
		log:       log,
		interval:  interval,
		batchSize: batchSize,
		wake:      make(chan struct{}, 1),
		now:       time.Now,
	}
}

// Wake asks the relay to flush now instead of waiting for the next tick.
func (r *Relay) Wake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("✅ Outbox relay started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-r.wake:
		}
		for {
			n, err := r.Flush(ctx)
			if err != nil {
				r.log.WithField("error", err.Error()).Error("Outbox relay flush failed")
				break
			}
			if n < r.batchSize {
				break
			}
		}
	}
}

// Flush publishes one batch and returns how many rows it handled.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	var published int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var events []models.ChangeEvent
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("published_at IS NULL").
			Order("seq ASC").
			Limit(r.batchSize).
			Find(&events).Error; err != nil {
			return fmt.Errorf("load outbox batch: %w", err)
		}
		if len(events) == 0 {
			return nil
		}

		seqs := make([]int64, 0, len(events))
		for _, ev := range events {
			if err := r.publisher.Publish(ctx, ev); err != nil {
				return fmt.Errorf("publish change %d: %w", ev.Seq, err)
			}
			seqs = append(seqs, ev.Seq)
		}

		if err := tx.Model(&models.ChangeEvent{}).
			Where("seq IN ?", seqs).
			Update("published_at", r.now()).Error; err != nil {
			return fmt.Errorf("mark outbox published: %w", err)
		}
		published = len(seqs)
		return nil
	})
	return published, err
}
