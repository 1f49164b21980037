package services

import (
	"context"

	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/notifications"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailNotifications mails each notification to its recipient. Failures are logged
// and never returned; the in-app notification is already stored.
func EmailNotifications(ctx context.Context, db *gorm.DB, mailer notifications.Mailer, log logger.Logger, notes []models.Notification) {
	if mailer == nil || len(notes) == 0 {
		return
	}

	ids := make([]uuid.UUID, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.UserID)
	}
	var users []models.User
	if err := db.WithContext(ctx).Select("id", "full_name", "email").Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.WithField("error", err.Error()).Error("🔥 Failed to load notification recipients")
		return
	}
	byID := make(map[uuid.UUID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, n := range notes {
		u, ok := byID[n.UserID]
		if !ok || u.Email == "" {
			continue
		}
		email := notifications.NotificationEmail(u.FullName, u.Email, n.Title, n.Message)
		if err := mailer.Send(ctx, email); err != nil {
			log.WithFields(map[string]interface{}{
				"notification_id": n.ID.String(),
				"error":           err.Error(),
			}).Warn("Notification email not delivered")
		}
	}
}
