package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentResult struct {
	Payment       models.Payment
	Booking       *models.Booking
	Notifications []models.Notification
}

// UpdatePaymentStatus records a provider outcome. Settling a payment also confirms
// its booking when the booking is still approved, in the same transaction.
func UpdatePaymentStatus(ctx context.Context, db *gorm.DB, paymentID uuid.UUID, next models.PaymentStatus) (*PaymentResult, error) {
	var result PaymentResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("load payment: %w", err)
		}
		if !payment.PaymentStatus.CanTransitionTo(next) {
			return fmt.Errorf("%s -> %s: %w", payment.PaymentStatus, next, ErrInvalidTransition)
		}
		if payment.PaymentStatus == next {
			result.Payment = payment
			return nil
		}

		old := payment
		payment.PaymentStatus = next
		if err := tx.Model(&payment).Update("payment_status", next).Error; err != nil {
			return fmt.Errorf("update payment: %w", err)
		}

		var out Outbox
		if err := out.Update(workflow.TablePayments, payment, old); err != nil {
			return err
		}

		if next.IsSettled() && !old.PaymentStatus.IsSettled() {
			bookingID := payment.BookingID
			n := newNotification(payment.PayeeID, models.NotificationPaymentReceived, workflow.TitlePaymentReceived,
				fmt.Sprintf("A payment of %.2f %s has been received.", payment.TalentEarnings, payment.Currency), &bookingID)
			if err := createNotification(tx, &out, &n); err != nil {
				return err
			}
			result.Notifications = append(result.Notifications, n)

			booking, err := lockBooking(tx, payment.BookingID)
			switch {
			case errors.Is(err, ErrBookingNotFound):
			case err != nil:
				return err
			case booking.Status == models.BookingApproved:
				oldBooking := booking
				booking.Status = models.BookingConfirmed
				if err := tx.Model(&booking).Update("status", models.BookingConfirmed).Error; err != nil {
					return fmt.Errorf("confirm booking: %w", err)
				}
				if err := out.Update(workflow.TableBookings, booking, oldBooking); err != nil {
					return err
				}
				result.Booking = &booking
			}
		}

		result.Payment = payment
		return out.Save(tx)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type CommissionTotal struct {
	Currency           string  `json:"currency"`
	Payments           int64   `json:"payments"`
	TotalAmount        float64 `json:"total_amount"`
	PlatformCommission float64 `json:"platform_commission"`
	TalentEarnings     float64 `json:"talent_earnings"`
}

// CommissionTotals sums settled payments per currency.
func CommissionTotals(ctx context.Context, db *gorm.DB) ([]CommissionTotal, error) {
	var totals []CommissionTotal
	err := db.WithContext(ctx).Model(&models.Payment{}).
		Select("currency, COUNT(*) AS payments, SUM(total_amount) AS total_amount, SUM(platform_commission) AS platform_commission, SUM(talent_earnings) AS talent_earnings").
		Where("payment_status IN ?", []models.PaymentStatus{models.PaymentPaid, models.PaymentCompleted}).
		Group("currency").
		Order("currency").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("sum commissions: %w", err)
	}
	return totals, nil
}
