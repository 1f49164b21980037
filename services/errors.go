package services

import "errors"

var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrGigNotFound          = errors.New("gig not found")
	ErrApplicationNotFound  = errors.New("gig application not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrInvalidPrice         = errors.New("agreed price must be greater than zero")
	ErrNoTalentAssigned     = errors.New("booking has no talent assigned")
	ErrGigClosed            = errors.New("gig is closed")
	ErrAlreadyApplied       = errors.New("talent already applied to this gig")
	ErrAlreadySettled       = errors.New("payment already settled")
)
