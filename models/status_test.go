package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingStatus(t *testing.T) {
	st, err := ParseBookingStatus("pending_approval")
	require.NoError(t, err)
	assert.Equal(t, BookingPendingApproval, st)

	_, err = ParseBookingStatus("archived")
	assert.True(t, errors.Is(err, ErrUnknownStatus))

	_, err = ParseBookingStatus("")
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestParseGigApplicationAndPaymentStatus(t *testing.T) {
	gs, err := ParseGigApplicationStatus("invoice_sent")
	require.NoError(t, err)
	assert.Equal(t, GigApplicationInvoiceSent, gs)

	_, err = ParseGigApplicationStatus("pending")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	ps, err := ParsePaymentStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, ps)

	_, err = ParsePaymentStatus("refunded")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestBookingTransitions(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{BookingPending, BookingPendingApproval, true},
		{BookingPending, BookingApproved, true},
		{BookingPending, BookingDeclined, true},
		{BookingPending, BookingConfirmed, false},
		{BookingPendingApproval, BookingPending, true},
		{BookingPendingApproval, BookingConfirmed, true},
		{BookingApproved, BookingApproved, true},
		{BookingApproved, BookingConfirmed, true},
		{BookingApproved, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingDeclined, false},
		{BookingDeclined, BookingPending, false},
		{BookingCompleted, BookingConfirmed, false},
		{BookingDeclined, BookingDeclined, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.True(t, BookingDeclined.IsTerminal())
	assert.True(t, BookingCompleted.IsTerminal())
	assert.False(t, BookingApproved.IsTerminal())
}

func TestGigApplicationTransitions(t *testing.T) {
	assert.True(t, GigApplicationInterested.CanTransitionTo(GigApplicationInvoiceSent))
	assert.True(t, GigApplicationInvoiceSent.CanTransitionTo(GigApplicationInterested))
	assert.True(t, GigApplicationInvoiceSent.CanTransitionTo(GigApplicationConfirmed))
	assert.False(t, GigApplicationInterested.CanTransitionTo(GigApplicationConfirmed))
	assert.False(t, GigApplicationConfirmed.CanTransitionTo(GigApplicationDeclined))
	assert.True(t, GigApplicationDeclined.IsTerminal())
}

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, PaymentPending.CanTransitionTo(PaymentPaid))
	assert.True(t, PaymentPaid.CanTransitionTo(PaymentCompleted))
	assert.False(t, PaymentPaid.CanTransitionTo(PaymentFailed))
	assert.False(t, PaymentFailed.CanTransitionTo(PaymentPaid))
	assert.True(t, PaymentPaid.IsSettled())
	assert.False(t, PaymentPending.IsSettled())
}

func TestIsPendingLike(t *testing.T) {
	for _, s := range []string{"pending", "pending_approval", "interested", "invoice_sent"} {
		assert.True(t, IsPendingLike(s), s)
	}
	for _, s := range []string{"approved", "confirmed", "declined", "completed", ""} {
		assert.False(t, IsPendingLike(s), s)
	}
}
