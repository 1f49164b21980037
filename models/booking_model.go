package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	TalentID  *uuid.UUID    `gorm:"type:uuid;index" json:"talent_id"`
	Status    BookingStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	EventDate time.Time     `gorm:"not null;index" json:"event_date"`
	EventType string        `gorm:"size:100;not null" json:"event_type"`
	Location  *string       `gorm:"size:255" json:"location"`
	Notes     *string       `gorm:"type:text" json:"notes"`
	PaymentID *uuid.UUID    `gorm:"type:uuid" json:"payment_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
