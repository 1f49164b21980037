package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleBooker = "booker"
	RoleTalent = "talent"
	RoleAdmin  = "admin"
)

const (
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// User is keyed by the auth provider's subject id.
type User struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	FullName           string     `gorm:"size:255;not null" json:"full_name"`
	Email              string     `gorm:"size:255;not null;unique" json:"email"`
	Role               string     `gorm:"size:20;not null;default:'booker'" json:"role"`
	ProfilePictureURL  *string    `gorm:"size:255" json:"profile_picture_url"`
	Bio                *string    `gorm:"type:text" json:"bio"`
	IsSubscribed       bool       `gorm:"default:false" json:"is_subscribed"`
	SubscriptionID     *string    `gorm:"size:255" json:"subscription_id"`
	SubscriptionPlanID *string    `gorm:"size:255" json:"subscription_plan_id"`
	SubscriptionPeriod *string    `gorm:"size:20" json:"subscription_period"`
	SubscriptionEnd    *time.Time `json:"subscription_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
