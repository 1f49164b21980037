package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/payments"
	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRequest struct {
	BookingID              uuid.UUID
	AgreedPrice            float64
	Currency               string
	PlatformCommissionRate *float64
}

type InvoiceResult struct {
	Payment      models.Payment
	Booking      models.Booking
	Notification models.Notification
}

// CreateInvoice prices a booking, records the payment split and moves the booking to
// approved. Every write happens in one transaction; any failure leaves nothing behind.
func CreateInvoice(ctx context.Context, db *gorm.DB, caller Caller, req InvoiceRequest) (*InvoiceResult, error) {
	if req.AgreedPrice <= 0 {
		return nil, ErrInvalidPrice
	}

	var result InvoiceResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "id = ?", req.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		if booking.TalentID == nil {
			if !caller.IsAdmin() {
				return ErrForbidden
			}
			return ErrNoTalentAssigned
		}
		if *booking.TalentID != caller.ID && !caller.IsAdmin() {
			return ErrForbidden
		}
		if !booking.Status.CanTransitionTo(models.BookingApproved) {
			return fmt.Errorf("%s -> %s: %w", booking.Status, models.BookingApproved, ErrInvalidTransition)
		}

		var talent models.User
		subscribed := false
		err := tx.Select("id", "is_subscribed").First(&talent, "id = ?", *booking.TalentID).Error
		switch {
		case err == nil:
			subscribed = talent.IsSubscribed
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("load talent: %w", err)
		}

		rate := payments.ResolveCommissionRate(subscribed, caller.IsAdmin(), req.PlatformCommissionRate)
		split := payments.SplitAmount(req.AgreedPrice, rate)

		var existing models.Payment
		hadPayment := true
		if err := tx.Where("booking_id = ? AND payment_method = ?", booking.ID, models.PaymentMethodInvoice).
			First(&existing).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("load payment: %w", err)
			}
			hadPayment = false
		}
		if hadPayment && existing.PaymentStatus.IsSettled() {
			return ErrAlreadySettled
		}

		payment := models.Payment{
			BookingID:          booking.ID,
			PayerID:            booking.UserID,
			PayeeID:            *booking.TalentID,
			TotalAmount:        split.Total,
			Currency:           req.Currency,
			CommissionRate:     split.Rate,
			PlatformCommission: split.Commission,
			TalentEarnings:     split.Earnings,
			PaymentStatus:      models.PaymentPending,
			PaymentMethod:      models.PaymentMethodInvoice,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "booking_id"}, {Name: "payment_method"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"payer_id", "payee_id", "total_amount", "currency", "commission_rate",
				"platform_commission", "talent_earnings", "payment_status", "updated_at",
			}),
		}).Create(&payment).Error; err != nil {
			return fmt.Errorf("upsert payment: %w", err)
		}

		oldBooking := booking
		booking.Status = models.BookingApproved
		booking.PaymentID = &payment.ID
		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"status":     models.BookingApproved,
			"payment_id": payment.ID,
		}).Error; err != nil {
			return fmt.Errorf("approve booking: %w", err)
		}

		var out Outbox
		if hadPayment {
			payment.CreatedAt = existing.CreatedAt
			if err := out.Update(workflow.TablePayments, payment, existing); err != nil {
				return err
			}
		} else if err := out.Insert(workflow.TablePayments, payment); err != nil {
			return err
		}
		if err := out.Update(workflow.TableBookings, booking, oldBooking); err != nil {
			return err
		}

		bookingID := booking.ID
		notification := newNotification(booking.UserID, models.NotificationInvoiceReceived, workflow.TitleInvoiceReceived,
			fmt.Sprintf("You have received an invoice of %.2f %s for your %s booking.", split.Total, req.Currency, booking.EventType),
			&bookingID)
		if err := createNotification(tx, &out, &notification); err != nil {
			return err
		}
		if err := out.Save(tx); err != nil {
			return err
		}

		result = InvoiceResult{Payment: payment, Booking: booking, Notification: notification}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
