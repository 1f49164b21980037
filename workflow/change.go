package workflow

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/google/uuid"
)

var ErrMalformedChange = errors.New("malformed change event")

const (
	TableBookings        = "bookings"
	TableGigs            = "gigs"
	TableGigApplications = "gig_applications"
	TablePayments        = "payments"
	TableNotifications   = "notifications"
)

type BookingRow struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"user_id"`
	TalentID  *uuid.UUID           `json:"talent_id"`
	Status    models.BookingStatus `json:"status"`
	EventType string               `json:"event_type"`
}

type GigRow struct {
	ID       uuid.UUID        `json:"id"`
	BookerID uuid.UUID        `json:"booker_id"`
	Title    string           `json:"title"`
	Status   models.GigStatus `json:"status"`
}

type GigApplicationRow struct {
	ID       uuid.UUID                   `json:"id"`
	GigID    uuid.UUID                   `json:"gig_id"`
	BookerID uuid.UUID                   `json:"booker_id"`
	TalentID uuid.UUID                   `json:"talent_id"`
	Status   models.GigApplicationStatus `json:"status"`
}

type PaymentRow struct {
	ID            uuid.UUID            `json:"id"`
	BookingID     uuid.UUID            `json:"booking_id"`
	PayerID       uuid.UUID            `json:"payer_id"`
	PayeeID       uuid.UUID            `json:"payee_id"`
	TotalAmount   float64              `json:"total_amount"`
	Currency      string               `json:"currency"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
}

type NotificationRow struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	BookingID *uuid.UUID `json:"booking_id"`
}

// Change is a decoded, validated change event. Exactly one pair of typed rows is set,
// matching Table. Old rows are nil for INSERT, new rows are nil for DELETE.
type Change struct {
	Seq    int64
	Table  string
	Type   string
	Schema string

	Record    map[string]interface{}
	OldRecord map[string]interface{}

	Booking, OldBooking           *BookingRow
	Gig, OldGig                   *GigRow
	Application, OldApplication   *GigApplicationRow
	Payment, OldPayment           *PaymentRow
	Notification, OldNotification *NotificationRow
}

// Status returns the new and old status of the changed row, empty when absent.
func (c Change) Status() (string, string) {
	switch c.Table {
	case TableBookings:
		return bookingStatus(c.Booking), bookingStatus(c.OldBooking)
	case TableGigApplications:
		return applicationStatus(c.Application), applicationStatus(c.OldApplication)
	case TablePayments:
		return paymentStatus(c.Payment), paymentStatus(c.OldPayment)
	case TableGigs:
		var next, prev string
		if c.Gig != nil {
			next = string(c.Gig.Status)
		}
		if c.OldGig != nil {
			prev = string(c.OldGig.Status)
		}
		return next, prev
	}
	return "", ""
}

func bookingStatus(r *BookingRow) string {
	if r == nil {
		return ""
	}
	return string(r.Status)
}

func applicationStatus(r *GigApplicationRow) string {
	if r == nil {
		return ""
	}
	return string(r.Status)
}

func paymentStatus(r *PaymentRow) string {
	if r == nil {
		return ""
	}
	return string(r.PaymentStatus)
}

// DecodeChange validates an outbox row and decodes its record payloads per table.
func DecodeChange(ev models.ChangeEvent) (Change, error) {
	c := Change{Seq: ev.Seq, Table: ev.Table, Type: ev.Type, Schema: ev.Schema}
	if c.Schema == "" {
		c.Schema = "public"
	}

	switch ev.Type {
	case models.ChangeInsert, models.ChangeUpdate:
		if isEmpty(ev.Record) {
			return Change{}, fmt.Errorf("%s on %s without record: %w", ev.Type, ev.Table, ErrMalformedChange)
		}
	case models.ChangeDelete:
		if isEmpty(ev.OldRecord) {
			return Change{}, fmt.Errorf("DELETE on %s without old_record: %w", ev.Table, ErrMalformedChange)
		}
	default:
		return Change{}, fmt.Errorf("event type %q: %w", ev.Type, ErrMalformedChange)
	}

	var err error
	if c.Record, err = decodeMap(ev.Record); err != nil {
		return Change{}, err
	}
	if c.OldRecord, err = decodeMap(ev.OldRecord); err != nil {
		return Change{}, err
	}

	switch ev.Table {
	case TableBookings:
		c.Booking, err = decodeBooking(ev.Record)
		if err == nil {
			c.OldBooking, err = decodeBooking(ev.OldRecord)
		}
	case TableGigs:
		c.Gig, err = decodeGig(ev.Record)
		if err == nil {
			c.OldGig, err = decodeGig(ev.OldRecord)
		}
	case TableGigApplications:
		c.Application, err = decodeApplication(ev.Record)
		if err == nil {
			c.OldApplication, err = decodeApplication(ev.OldRecord)
		}
	case TablePayments:
		c.Payment, err = decodePayment(ev.Record)
		if err == nil {
			c.OldPayment, err = decodePayment(ev.OldRecord)
		}
	case TableNotifications:
		c.Notification, err = decodeNotification(ev.Record)
		if err == nil {
			c.OldNotification, err = decodeNotification(ev.OldRecord)
		}
	default:
		return Change{}, fmt.Errorf("table %q: %w", ev.Table, ErrMalformedChange)
	}
	if err != nil {
		return Change{}, fmt.Errorf("%s %s: %v: %w", ev.Table, ev.Type, err, ErrMalformedChange)
	}
	return c, nil
}

func decodeMap(raw []byte) (map[string]interface{}, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("record is not an object: %v: %w", err, ErrMalformedChange)
	}
	return m, nil
}

func isEmpty(raw []byte) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func decodeBooking(raw []byte) (*BookingRow, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	var row BookingRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	if _, err := models.ParseBookingStatus(string(row.Status)); err != nil {
		return nil, err
	}
	return &row, nil
}

func decodeGig(raw []byte) (*GigRow, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	var row GigRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	if row.Status != models.GigOpen && row.Status != models.GigClosed {
		return nil, fmt.Errorf("gig status %q: %w", row.Status, models.ErrUnknownStatus)
	}
	return &row, nil
}

func decodeApplication(raw []byte) (*GigApplicationRow, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	var row GigApplicationRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	if _, err := models.ParseGigApplicationStatus(string(row.Status)); err != nil {
		return nil, err
	}
	return &row, nil
}

func decodePayment(raw []byte) (*PaymentRow, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	var row PaymentRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	if _, err := models.ParsePaymentStatus(string(row.PaymentStatus)); err != nil {
		return nil, err
	}
	return &row, nil
}

func decodeNotification(raw []byte) (*NotificationRow, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	var row NotificationRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	if row.UserID == uuid.Nil {
		return nil, errors.New("notification without user_id")
	}
	return &row, nil
}
