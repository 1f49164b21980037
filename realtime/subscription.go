package realtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/google/uuid"
)

var (
	ErrInvalidSubscription = errors.New("invalid subscription")
	ErrSubscriptionDenied  = errors.New("subscription not allowed for this user")
)

type CounterKind string

const (
	CounterNone     CounterKind = ""
	CounterSnapshot CounterKind = "snapshot"
	CounterLive     CounterKind = "live"
)

// Subscription selects the change events an inbox receives for one table.
type Subscription struct {
	Table   string
	Schema  string
	Events  []string
	Filter  Filter
	Counter CounterKind

	// CountStatuses narrows a snapshot counter to rows in these statuses.
	// Empty means every inserted row counts, which is how unread notifications work.
	CountStatuses []string
	// WindowHours limits the snapshot seed query to recently updated rows.
	WindowHours int
}

var filterColumns = map[string][]string{
	workflow.TableBookings:        {"id", "user_id", "talent_id", "status"},
	workflow.TableGigs:            {"id", "booker_id", "status"},
	workflow.TableGigApplications: {"id", "gig_id", "booker_id", "talent_id", "status"},
	workflow.TablePayments:        {"id", "booking_id", "payer_id", "payee_id", "payment_status"},
	workflow.TableNotifications:   {"user_id", "type"},
}

// ownerColumns must carry the viewer's id for non-admin subscribers.
var ownerColumns = map[string][]string{
	workflow.TableBookings:        {"user_id", "talent_id"},
	workflow.TableGigApplications: {"booker_id", "talent_id"},
	workflow.TablePayments:        {"payer_id", "payee_id"},
	workflow.TableNotifications:   {"user_id"},
}

func StatusColumn(table string) string {
	if table == workflow.TablePayments {
		return "payment_status"
	}
	return "status"
}

// Validate normalises defaults and checks table, events and filter column.
func (s *Subscription) Validate() error {
	cols, ok := filterColumns[s.Table]
	if !ok {
		return fmt.Errorf("table %q: %w", s.Table, ErrInvalidSubscription)
	}
	if s.Schema == "" {
		s.Schema = "public"
	}
	if len(s.Events) == 0 {
		s.Events = []string{models.ChangeInsert, models.ChangeUpdate}
	}
	for i, ev := range s.Events {
		ev = strings.ToUpper(ev)
		if ev != models.ChangeInsert && ev != models.ChangeUpdate {
			return fmt.Errorf("event %q: %w", ev, ErrInvalidSubscription)
		}
		s.Events[i] = ev
	}
	if !s.Filter.IsZero() && !contains(cols, s.Filter.Column) {
		return fmt.Errorf("filter column %q: %w", s.Filter.Column, ErrInvalidSubscription)
	}
	switch s.Counter {
	case CounterNone, CounterSnapshot, CounterLive:
	default:
		return fmt.Errorf("counter %q: %w", s.Counter, ErrInvalidSubscription)
	}
	if s.WindowHours < 0 {
		return fmt.Errorf("window_hours must not be negative: %w", ErrInvalidSubscription)
	}
	return nil
}

// Authorize requires owned tables to be filtered on the viewer's own id.
func (s Subscription) Authorize(viewerID uuid.UUID, isAdmin bool) error {
	if isAdmin {
		return nil
	}
	owners, owned := ownerColumns[s.Table]
	if !owned {
		return nil
	}
	if s.Filter.IsZero() || !contains(owners, s.Filter.Column) || s.Filter.Value != viewerID.String() {
		return fmt.Errorf("%s must be filtered on %s=eq.<your id>: %w", s.Table, strings.Join(owners, " or "), ErrSubscriptionDenied)
	}
	return nil
}

// Wants reports whether a decoded change falls under this subscription.
func (s Subscription) Wants(c workflow.Change) bool {
	if c.Table != s.Table || (c.Schema != "" && c.Schema != s.Schema) {
		return false
	}
	if !contains(s.Events, c.Type) {
		return false
	}
	return s.Filter.Matches(c.Record)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
