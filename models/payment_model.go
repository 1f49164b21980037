package models

import (
	"time"

	"github.com/google/uuid"
)

const PaymentMethodInvoice = "invoice"

// Payment amounts are frozen at invoice time; CommissionRate is a percentage.
type Payment struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID          uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_payment_booking_method" json:"booking_id"`
	PayerID            uuid.UUID     `gorm:"type:uuid;not null" json:"payer_id"`
	PayeeID            uuid.UUID     `gorm:"type:uuid;not null" json:"payee_id"`
	TotalAmount        float64       `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Currency           string        `gorm:"size:3;not null" json:"currency"`
	CommissionRate     float64       `gorm:"type:numeric(5,2);not null" json:"commission_rate"`
	PlatformCommission float64       `gorm:"type:numeric(12,2);not null" json:"platform_commission"`
	TalentEarnings     float64       `gorm:"type:numeric(12,2);not null" json:"talent_earnings"`
	PaymentStatus      PaymentStatus `gorm:"size:20;not null;default:'pending'" json:"payment_status"`
	PaymentMethod      string        `gorm:"size:30;not null;default:'invoice';uniqueIndex:idx_payment_booking_method" json:"payment_method"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
