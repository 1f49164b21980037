package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/talent_booking/chat"
	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CleanupResult struct {
	Success      bool   `json:"success"`
	DeletedCount int    `json:"deletedCount"`
	Message      string `json:"message"`
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CleanupStaleBookings hard-deletes bookings whose event day has passed without the
// booking reaching completed or declined. Chat messages of the matching channels are
// removed afterwards on a best-effort basis; a failure there is logged and the
// booking deletion stands. Channels still used by a remaining booking keep their
// messages. Payments are kept.
func CleanupStaleBookings(ctx context.Context, db *gorm.DB, log logger.Logger, now time.Time) (CleanupResult, error) {
	cutoff := startOfDay(now)
	var stale []models.Booking
	var keys []string

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_date < ? AND status NOT IN ?", cutoff, []models.BookingStatus{models.BookingCompleted, models.BookingDeclined}).
			Find(&stale).Error; err != nil {
			return fmt.Errorf("find stale bookings: %w", err)
		}
		if len(stale) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(stale))
		var out Outbox
		for _, b := range stale {
			ids = append(ids, b.ID)
			if err := out.Delete(workflow.TableBookings, b); err != nil {
				return err
			}
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Booking{}).Error; err != nil {
			return fmt.Errorf("delete stale bookings: %w", err)
		}

		keys = channelKeys(stale)
		if len(keys) > 0 {
			var remaining []models.Booking
			bookers, talents := participants(stale)
			if err := tx.Select("user_id", "talent_id", "event_type").
				Where("user_id IN ? AND talent_id IN ?", bookers, talents).
				Find(&remaining).Error; err != nil {
				return fmt.Errorf("find bookings sharing chat channels: %w", err)
			}
			keys = withoutKeys(keys, channelKeys(remaining))
		}
		return out.Save(tx)
	})
	if err != nil {
		return CleanupResult{Success: false, Message: "Failed to clean up stale bookings"}, err
	}

	if len(stale) == 0 {
		return CleanupResult{Success: true, DeletedCount: 0, Message: "No stale bookings found"}, nil
	}

	if len(keys) > 0 {
		removed, err := DeleteChannelMessages(ctx, db, keys)
		if err != nil {
			log.WithFields(map[string]interface{}{
				"channels": len(keys),
				"error":    err.Error(),
			}).Error("Chat cleanup after stale booking deletion failed")
		} else {
			log.WithField("messages", removed).Info("Removed chat messages of stale bookings")
		}
	}

	return CleanupResult{
		Success:      true,
		DeletedCount: len(stale),
		Message:      fmt.Sprintf("Deleted %d stale booking(s)", len(stale)),
	}, nil
}

func channelKeys(bookings []models.Booking) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, b := range bookings {
		if b.TalentID == nil {
			continue
		}
		key := chat.ChannelKey(b.UserID, *b.TalentID, b.EventType)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// participants lists the distinct bookers and talents of bookings that have a chat channel.
func participants(bookings []models.Booking) ([]uuid.UUID, []uuid.UUID) {
	seenBooker := make(map[uuid.UUID]struct{})
	seenTalent := make(map[uuid.UUID]struct{})
	var bookers, talents []uuid.UUID
	for _, b := range bookings {
		if b.TalentID == nil {
			continue
		}
		if _, ok := seenBooker[b.UserID]; !ok {
			seenBooker[b.UserID] = struct{}{}
			bookers = append(bookers, b.UserID)
		}
		if _, ok := seenTalent[*b.TalentID]; !ok {
			seenTalent[*b.TalentID] = struct{}{}
			talents = append(talents, *b.TalentID)
		}
	}
	return bookers, talents
}

func withoutKeys(keys, drop []string) []string {
	if len(drop) == 0 {
		return keys
	}
	skip := make(map[string]struct{}, len(drop))
	for _, k := range drop {
		skip[k] = struct{}{}
	}
	out := keys[:0]
	for _, k := range keys {
		if _, ok := skip[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
