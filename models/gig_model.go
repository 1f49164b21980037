package models

import (
	"time"

	"github.com/google/uuid"
)

type Gig struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"booker_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	EventType string    `gorm:"size:100;not null" json:"event_type"`
	EventDate time.Time `gorm:"not null" json:"event_date"`
	Budget    float64   `gorm:"type:numeric(12,2)" json:"budget"`
	Currency  string    `gorm:"size:3" json:"currency"`
	Status    GigStatus `gorm:"size:20;not null;default:'open'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GigApplication carries the gig owner as BookerID so row filters can match on it.
type GigApplication struct {
	ID            uuid.UUID            `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	GigID         uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_gig_application_talent" json:"gig_id"`
	BookerID      uuid.UUID            `gorm:"type:uuid;not null;index" json:"booker_id"`
	TalentID      uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_gig_application_talent" json:"talent_id"`
	Status        GigApplicationStatus `gorm:"size:20;not null;default:'interested'" json:"status"`
	ProposedPrice *float64             `gorm:"type:numeric(12,2)" json:"proposed_price"`
	Currency      *string              `gorm:"size:3" json:"currency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
