package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func newNotification(userID uuid.UUID, kind, title, message string, bookingID *uuid.UUID) models.Notification {
	return models.Notification{
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		BookingID: bookingID,
	}
}

// createNotification inserts n and records it in the outbox.
func createNotification(tx *gorm.DB, out *Outbox, n *models.Notification) error {
	if err := tx.Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return out.Insert(workflow.TableNotifications, n)
}

// NotifyUser persists a single notification in its own transaction.
func NotifyUser(ctx context.Context, db *gorm.DB, n models.Notification) (*models.Notification, error) {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var out Outbox
		if err := createNotification(tx, &out, &n); err != nil {
			return err
		}
		return out.Save(tx)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func ListNotifications(ctx context.Context, db *gorm.DB, userID uuid.UUID, page, limit int) ([]models.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	var total int64
	if err := db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	var items []models.Notification
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return items, total, nil
}

func UnreadCount(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead sets read_at once; reading an already read notification is a no-op.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, userID, notificationID uuid.UUID, now time.Time) (*models.Notification, error) {
	var n models.Notification
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", notificationID, userID).
			First(&n).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotificationNotFound
			}
			return fmt.Errorf("load notification: %w", err)
		}
		if n.ReadAt != nil {
			return nil
		}

		old := n
		n.ReadAt = &now
		if err := tx.Model(&n).Update("read_at", now).Error; err != nil {
			return fmt.Errorf("mark notification read: %w", err)
		}

		var out Outbox
		if err := out.Update(workflow.TableNotifications, n, old); err != nil {
			return err
		}
		return out.Save(tx)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkAllNotificationsRead marks every unread notification of the user and returns how many changed.
func MarkAllNotificationsRead(ctx context.Context, db *gorm.DB, userID uuid.UUID, now time.Time) (int, error) {
	var marked int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var unread []models.Notification
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND read_at IS NULL", userID).
			Find(&unread).Error; err != nil {
			return fmt.Errorf("load unread notifications: %w", err)
		}
		if len(unread) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, 0, len(unread))
		var out Outbox
		for _, n := range unread {
			ids = append(ids, n.ID)
			read := n
			read.ReadAt = &now
			if err := out.Update(workflow.TableNotifications, read, n); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Notification{}).Where("id IN ?", ids).Update("read_at", now).Error; err != nil {
			return fmt.Errorf("mark notifications read: %w", err)
		}
		marked = len(ids)
		return out.Save(tx)
	})
	return marked, err
}
