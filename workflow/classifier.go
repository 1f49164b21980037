package workflow

import (
	"github.com/anjiri1684/talent_booking/models"
	"github.com/google/uuid"
)

const (
	TitleInvoiceReceived   = "Invoice Received"
	TitleInvoiceDeclined   = "Invoice Declined"
	TitleBookingConfirmed  = "Booking Confirmed"
	TitleGigConfirmed      = "Gig Confirmed"
	TitlePaymentReceived   = "Payment Received"
	TitleNewBookingRequest = "New Booking Request"
)

// Notice is a toast for the viewer that received the change.
// RecipientID is nil when the notice goes to every listener of the stream.
type Notice struct {
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	RecipientID *uuid.UUID `json:"recipientId,omitempty"`
	BookingID   *uuid.UUID `json:"bookingId,omitempty"`
	Table       string     `json:"table"`
	Seq         int64      `json:"seq"`
}

// Classify decides which notices a decoded change produces for viewerID.
// It performs no I/O; changes that match no rule return nil.
func Classify(c Change, viewerID uuid.UUID) []Notice {
	var notices []Notice
	switch c.Table {
	case TableBookings:
		notices = classifyBooking(c, viewerID)
	case TableGigApplications:
		notices = classifyApplication(c, viewerID)
	case TablePayments:
		notices = classifyPayment(c, viewerID)
	}
	for i := range notices {
		notices[i].Table = c.Table
		notices[i].Seq = c.Seq
	}
	return notices
}

func classifyBooking(c Change, viewerID uuid.UUID) []Notice {
	next := c.Booking
	if next == nil {
		return nil
	}
	bookingID := next.ID

	if c.OldBooking == nil {
		if c.Type == models.ChangeInsert && next.Status == models.BookingPending &&
			next.TalentID != nil && *next.TalentID == viewerID {
			return []Notice{{
				Type:        models.NotificationBookingRequest,
				Title:       TitleNewBookingRequest,
				Message:     "You have a new booking request for " + describeEvent(next.EventType) + ".",
				RecipientID: &viewerID,
				BookingID:   &bookingID,
			}}
		}
		return nil
	}

	prev := c.OldBooking.Status
	if next.Status == prev {
		return nil
	}

	switch {
	case next.Status == models.BookingPendingApproval && next.UserID == viewerID:
		return []Notice{{
			Type:        models.NotificationInvoiceReceived,
			Title:       TitleInvoiceReceived,
			Message:     "You have received an invoice for " + describeEvent(next.EventType) + ".",
			RecipientID: &viewerID,
			BookingID:   &bookingID,
		}}
	case next.Status == models.BookingConfirmed:
		return []Notice{{
			Type:      models.NotificationBookingConfirmed,
			Title:     TitleBookingConfirmed,
			Message:   "The booking for " + describeEvent(next.EventType) + " has been confirmed.",
			BookingID: &bookingID,
		}}
	case next.Status == models.BookingPending && prev == models.BookingPendingApproval && next.UserID == viewerID:
		return []Notice{{
			Type:        models.NotificationInvoiceDeclined,
			Title:       TitleInvoiceDeclined,
			Message:     "The invoice for " + describeEvent(next.EventType) + " was declined.",
			RecipientID: &viewerID,
			BookingID:   &bookingID,
		}}
	}
	return nil
}

func classifyApplication(c Change, viewerID uuid.UUID) []Notice {
	next, old := c.Application, c.OldApplication
	if next == nil || old == nil || next.Status == old.Status {
		return nil
	}

	switch {
	case next.Status == models.GigApplicationInvoiceSent && next.BookerID == viewerID:
		return []Notice{{
			Type:        models.NotificationInvoiceReceived,
			Title:       TitleInvoiceReceived,
			Message:     "A talent sent you an invoice for your gig.",
			RecipientID: &viewerID,
		}}
	case next.Status == models.GigApplicationConfirmed && next.TalentID == viewerID:
		return []Notice{{
			Type:        models.NotificationGigConfirmed,
			Title:       TitleGigConfirmed,
			Message:     "Your gig application has been confirmed.",
			RecipientID: &viewerID,
		}}
	case next.Status == models.GigApplicationInterested && old.Status == models.GigApplicationInvoiceSent && next.TalentID == viewerID:
		return []Notice{{
			Type:        models.NotificationInvoiceDeclined,
			Title:       TitleInvoiceDeclined,
			Message:     "Your invoice for the gig was declined.",
			RecipientID: &viewerID,
		}}
	}
	return nil
}

func classifyPayment(c Change, viewerID uuid.UUID) []Notice {
	next := c.Payment
	if next == nil || !next.PaymentStatus.IsSettled() {
		return nil
	}
	if c.OldPayment != nil && c.OldPayment.PaymentStatus.IsSettled() {
		return nil
	}
	if next.PayeeID != viewerID {
		return nil
	}
	bookingID := next.BookingID
	return []Notice{{
		Type:        models.NotificationPaymentReceived,
		Title:       TitlePaymentReceived,
		Message:     "A payment for your booking has been received.",
		RecipientID: &viewerID,
		BookingID:   &bookingID,
	}}
}

func describeEvent(eventType string) string {
	if eventType == "" {
		return "your event"
	}
	return "your " + eventType
}
