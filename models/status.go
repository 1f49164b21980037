package models

import (
	"errors"
	"fmt"
)

var ErrUnknownStatus = errors.New("unknown status")

type BookingStatus string

const (
	BookingPending         BookingStatus = "pending"
	BookingPendingApproval BookingStatus = "pending_approval"
	BookingApproved        BookingStatus = "approved"
	BookingConfirmed       BookingStatus = "confirmed"
	BookingDeclined        BookingStatus = "declined"
	BookingCompleted       BookingStatus = "completed"
)

type GigApplicationStatus string

const (
	GigApplicationInterested  GigApplicationStatus = "interested"
	GigApplicationInvoiceSent GigApplicationStatus = "invoice_sent"
	GigApplicationConfirmed   GigApplicationStatus = "confirmed"
	GigApplicationDeclined    GigApplicationStatus = "declined"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

type GigStatus string

const (
	GigOpen   GigStatus = "open"
	GigClosed GigStatus = "closed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:         {BookingPendingApproval, BookingApproved, BookingDeclined},
	BookingPendingApproval: {BookingConfirmed, BookingPending, BookingApproved, BookingDeclined},
	BookingApproved:        {BookingApproved, BookingConfirmed, BookingPending, BookingDeclined},
	BookingConfirmed:       {BookingCompleted},
}

var gigApplicationTransitions = map[GigApplicationStatus][]GigApplicationStatus{
	GigApplicationInterested:  {GigApplicationInvoiceSent, GigApplicationDeclined},
	GigApplicationInvoiceSent: {GigApplicationConfirmed, GigApplicationInterested, GigApplicationDeclined},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentCompleted, PaymentFailed, PaymentCancelled},
	PaymentPaid:    {PaymentCompleted},
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch st := BookingStatus(s); st {
	case BookingPending, BookingPendingApproval, BookingApproved, BookingConfirmed, BookingDeclined, BookingCompleted:
		return st, nil
	}
	return "", fmt.Errorf("booking status %q: %w", s, ErrUnknownStatus)
}

func ParseGigApplicationStatus(s string) (GigApplicationStatus, error) {
	switch st := GigApplicationStatus(s); st {
	case GigApplicationInterested, GigApplicationInvoiceSent, GigApplicationConfirmed, GigApplicationDeclined:
		return st, nil
	}
	return "", fmt.Errorf("gig application status %q: %w", s, ErrUnknownStatus)
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(s); st {
	case PaymentPending, PaymentPaid, PaymentCompleted, PaymentFailed, PaymentCancelled:
		return st, nil
	}
	return "", fmt.Errorf("payment status %q: %w", s, ErrUnknownStatus)
}

// CanTransitionTo reports whether a booking may move from s to next.
// Writing the current status again is always allowed and is a no-op.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingDeclined || s == BookingCompleted
}

func (s GigApplicationStatus) CanTransitionTo(next GigApplicationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range gigApplicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s GigApplicationStatus) IsTerminal() bool {
	return s == GigApplicationConfirmed || s == GigApplicationDeclined
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsSettled is true once money has moved.
func (s PaymentStatus) IsSettled() bool {
	return s == PaymentPaid || s == PaymentCompleted
}

// IsPendingLike marks statuses that count as "awaiting action" for live counters.
func IsPendingLike(status string) bool {
	switch status {
	case string(BookingPending), string(BookingPendingApproval),
		string(GigApplicationInterested), string(GigApplicationInvoiceSent):
		return true
	}
	return false
}
