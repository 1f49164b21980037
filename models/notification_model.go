package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationInvoiceReceived   = "invoice_received"
	NotificationInvoiceDeclined   = "invoice_declined"
	NotificationBookingConfirmed  = "booking_confirmed"
	NotificationBookingDeclined   = "booking_declined"
	NotificationBookingRequest    = "booking_request"
	NotificationGigConfirmed      = "gig_confirmed"
	NotificationPaymentReceived   = "payment_received"
	NotificationEventReminder     = "event_reminder"
	NotificationApplicationUpdate = "application_update"
)

// Notification rows are append-only apart from ReadAt.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string     `gorm:"size:50;not null" json:"type"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	BookingID *uuid.UUID `gorm:"type:uuid" json:"booking_id"`
	ReadAt    *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}
