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

type CreateBookingInput struct {
	TalentID  *uuid.UUID
	EventDate time.Time
	EventType string
	Location  *string
	Notes     *string
}

// BookingResult carries the row after the change plus the notifications it produced.
type BookingResult struct {
	Booking       models.Booking
	Notifications []models.Notification
}

func CreateBooking(ctx context.Context, db *gorm.DB, caller Caller, in CreateBookingInput) (*BookingResult, error) {
	booking := models.Booking{
		UserID:    caller.ID,
		TalentID:  in.TalentID,
		Status:    models.BookingPending,
		EventDate: in.EventDate,
		EventType: in.EventType,
		Location:  in.Location,
		Notes:     in.Notes,
	}

	var result BookingResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		var out Outbox
		if err := out.Insert(workflow.TableBookings, booking); err != nil {
			return err
		}
		if booking.TalentID != nil {
			bookingID := booking.ID
			n := newNotification(*booking.TalentID, models.NotificationBookingRequest, workflow.TitleNewBookingRequest,
				fmt.Sprintf("You have a new booking request for a %s on %s.", booking.EventType, booking.EventDate.Format("January 2, 2006")),
				&bookingID)
			if err := createNotification(tx, &out, &n); err != nil {
				return err
			}
			result.Notifications = append(result.Notifications, n)
		}
		return out.Save(tx)
	})
	if err != nil {
		return nil, err
	}
	result.Booking = booking
	return &result, nil
}

func ListMyBookings(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.WithContext(ctx).
		Where("user_id = ? OR talent_id = ?", userID, userID).
		Order("event_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func lockBooking(tx *gorm.DB, id uuid.UUID) (models.Booking, error) {
	var booking models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking, ErrBookingNotFound
		}
		return booking, fmt.Errorf("load booking: %w", err)
	}
	return booking, nil
}

// DeclineBooking lets the booker decline a booking. Only the booking's booker may do it.
func DeclineBooking(ctx context.Context, db *gorm.DB, caller Caller, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.UserID != caller.ID {
			return ErrForbidden
		}
		if booking.Status.IsTerminal() || !booking.Status.CanTransitionTo(models.BookingDeclined) {
			return fmt.Errorf("%s -> %s: %w", booking.Status, models.BookingDeclined, ErrInvalidTransition)
		}

		old := booking
		booking.Status = models.BookingDeclined
		if err := tx.Model(&booking).Update("status", models.BookingDeclined).Error; err != nil {
			return fmt.Errorf("decline booking: %w", err)
		}

		var out Outbox
		if err := out.Update(workflow.TableBookings, booking, old); err != nil {
			return err
		}
		return out.Save(tx)
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// NotifyTalentOfDecline tells the assigned talent that the booker declined.
// It returns nil, nil when the booking has no talent.
func NotifyTalentOfDecline(ctx context.Context, db *gorm.DB, booking models.Booking) (*models.Notification, error) {
	if booking.TalentID == nil {
		return nil, nil
	}
	bookingID := booking.ID
	n := newNotification(*booking.TalentID, models.NotificationBookingDeclined, "Booking Declined",
		fmt.Sprintf("The booker declined the %s booking.", booking.EventType), &bookingID)
	return NotifyUser(ctx, db, n)
}

// UpdateBookingStatus applies a caller-driven transition. Talents move bookings to
// pending_approval or completed; bookers confirm or reject an invoice back to pending.
func UpdateBookingStatus(ctx context.Context, db *gorm.DB, caller Caller, bookingID uuid.UUID, next models.BookingStatus) (*BookingResult, error) {
	var result BookingResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if err := authorizeBookingTransition(caller, booking, next); err != nil {
			return err
		}
		if !booking.Status.CanTransitionTo(next) {
			return fmt.Errorf("%s -> %s: %w", booking.Status, next, ErrInvalidTransition)
		}
		if booking.Status == next {
			result.Booking = booking
			return nil
		}

		old := booking
		booking.Status = next
		if err := tx.Model(&booking).Update("status", next).Error; err != nil {
			return fmt.Errorf("update booking status: %w", err)
		}

		var out Outbox
		if err := out.Update(workflow.TableBookings, booking, old); err != nil {
			return err
		}
		for _, n := range bookingNotifications(old, booking) {
			if err := createNotification(tx, &out, &n); err != nil {
				return err
			}
			result.Notifications = append(result.Notifications, n)
		}
		result.Booking = booking
		return out.Save(tx)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func authorizeBookingTransition(caller Caller, booking models.Booking, next models.BookingStatus) error {
	if caller.IsAdmin() {
		return nil
	}
	isTalent := booking.TalentID != nil && *booking.TalentID == caller.ID
	isBooker := booking.UserID == caller.ID

	switch next {
	case models.BookingPendingApproval, models.BookingCompleted:
		if isTalent {
			return nil
		}
	case models.BookingConfirmed, models.BookingPending:
		if isBooker {
			return nil
		}
	}
	return ErrForbidden
}

func bookingNotifications(old, next models.Booking) []models.Notification {
	bookingID := next.ID
	var out []models.Notification
	switch {
	case next.Status == models.BookingPendingApproval:
		out = append(out, newNotification(next.UserID, models.NotificationInvoiceReceived, workflow.TitleInvoiceReceived,
			fmt.Sprintf("You have received an invoice for your %s booking.", next.EventType), &bookingID))
	case next.Status == models.BookingConfirmed && next.TalentID != nil:
		out = append(out, newNotification(*next.TalentID, models.NotificationBookingConfirmed, workflow.TitleBookingConfirmed,
			fmt.Sprintf("Your %s booking has been confirmed.", next.EventType), &bookingID))
	case next.Status == models.BookingPending && old.Status != models.BookingPending && next.TalentID != nil:
		out = append(out, newNotification(*next.TalentID, models.NotificationInvoiceDeclined, workflow.TitleInvoiceDeclined,
			fmt.Sprintf("Your invoice for the %s booking was declined.", next.EventType), &bookingID))
	}
	return out
}
