package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anjiri1684/talent_booking/models"
	"gorm.io/gorm"
)

// SendEventReminders notifies booker and talent of every confirmed booking whose
// event falls on the day after now. The notifications are returned so callers can
// mail them.
func SendEventReminders(ctx context.Context, db *gorm.DB, now time.Time) ([]models.Notification, error) {
	from := startOfDay(now).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	var upcoming []models.Booking
	if err := db.WithContext(ctx).
		Where("status = ? AND event_date >= ? AND event_date < ?", models.BookingConfirmed, from, to).
		Find(&upcoming).Error; err != nil {
		return nil, fmt.Errorf("find upcoming bookings: %w", err)
	}
	if len(upcoming) == 0 {
		return nil, nil
	}

	var created []models.Notification
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var out Outbox
		for _, b := range upcoming {
			bookingID := b.ID
			msg := fmt.Sprintf("Reminder: your %s is tomorrow, %s.", b.EventType, b.EventDate.Format("Monday 2 January 15:04"))

			n := newNotification(b.UserID, models.NotificationEventReminder, "Event Reminder", msg, &bookingID)
			if err := createNotification(tx, &out, &n); err != nil {
				return err
			}
			created = append(created, n)

			if b.TalentID != nil {
				n := newNotification(*b.TalentID, models.NotificationEventReminder, "Event Reminder", msg, &bookingID)
				if err := createNotification(tx, &out, &n); err != nil {
					return err
				}
				created = append(created, n)
			}
		}
		return out.Save(tx)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
