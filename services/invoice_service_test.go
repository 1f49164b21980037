package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/workflow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoiceRejectsNonPositivePrice(t *testing.T) {
	db, mock := newMockDB(t)

	for _, price := range []float64{0, -10} {
		_, err := CreateInvoice(context.Background(), db, Caller{ID: uuid.New(), Role: models.RoleTalent}, InvoiceRequest{
			BookingID: uuid.New(), AgreedPrice: price, Currency: "USD",
		})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoiceBookingNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).WillReturnRows(sqlmock.NewRows(bookingColumns))
	mock.ExpectRollback()

	_, err := CreateInvoice(context.Background(), db, Caller{ID: uuid.New(), Role: models.RoleTalent}, InvoiceRequest{
		BookingID: uuid.New(), AgreedPrice: 100, Currency: "USD",
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoiceOwnership(t *testing.T) {
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name     string
		caller   Caller
		talentID *uuid.UUID
		want     error
	}{
		{"other talent", Caller{ID: uuid.New(), Role: models.RoleTalent}, &talent, ErrForbidden},
		{"no talent, talent caller", Caller{ID: talent, Role: models.RoleTalent}, nil, ErrForbidden},
		{"no talent, admin caller", Caller{ID: uuid.New(), Role: models.RoleAdmin}, nil, ErrNoTalentAssigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
				WillReturnRows(bookingRow(bookingID, booker, tt.talentID, "pending"))
			mock.ExpectRollback()

			_, err := CreateInvoice(context.Background(), db, tt.caller, InvoiceRequest{
				BookingID: bookingID, AgreedPrice: 100, Currency: "USD",
			})
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateInvoiceRejectsTerminalBooking(t *testing.T) {
	db, mock := newMockDB(t)
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WillReturnRows(bookingRow(bookingID, booker, &talent, "completed"))
	mock.ExpectRollback()

	_, err := CreateInvoice(context.Background(), db, Caller{ID: talent, Role: models.RoleTalent}, InvoiceRequest{
		BookingID: bookingID, AgreedPrice: 100, Currency: "USD",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoiceSubscribedTalent(t *testing.T) {
	db, mock := newMockDB(t)
	bookingID, booker, talent, paymentID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	override := 5.0

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WillReturnRows(bookingRow(bookingID, booker, &talent, "pending"))
	mock.ExpectQuery(`SELECT "id","is_subscribed" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_subscribed"}).AddRow(talent.String(), true))
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE booking_id = \$1 AND payment_method = \$2`).
		WillReturnRows(sqlmock.NewRows(paymentColumns))
	mock.ExpectQuery(`INSERT INTO "payments" .* ON CONFLICT \("booking_id","payment_method"\) DO UPDATE SET`).
		WillReturnRows(returningID(paymentID))
	mock.ExpectExec(`UPDATE "bookings" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).WillReturnRows(returningID(uuid.New()))
	expectOutbox(mock, 3)
	mock.ExpectCommit()

	// A talent cannot apply its own commission override.
	res, err := CreateInvoice(context.Background(), db, Caller{ID: talent, Role: models.RoleTalent}, InvoiceRequest{
		BookingID: bookingID, AgreedPrice: 1000, Currency: "USD", PlatformCommissionRate: &override,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, paymentID, res.Payment.ID)
	assert.Equal(t, 15.0, res.Payment.CommissionRate)
	assert.Equal(t, 150.0, res.Payment.PlatformCommission)
	assert.Equal(t, 850.0, res.Payment.TalentEarnings)
	assert.Equal(t, models.BookingApproved, res.Booking.Status)
	require.NotNil(t, res.Booking.PaymentID)
	assert.Equal(t, paymentID, *res.Booking.PaymentID)
	assert.Equal(t, booker, res.Notification.UserID)
	assert.Equal(t, workflow.TitleInvoiceReceived, res.Notification.Title)
}

func TestCreateInvoiceAdminOverrideAndMissingTalentRow(t *testing.T) {
	db, mock := newMockDB(t)
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()
	override := 5.0

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WillReturnRows(bookingRow(bookingID, booker, &talent, "pending"))
	mock.ExpectQuery(`SELECT "id","is_subscribed" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_subscribed"}))
	mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnRows(sqlmock.NewRows(paymentColumns))
	mock.ExpectQuery(`INSERT INTO "payments"`).WillReturnRows(returningID(uuid.New()))
	mock.ExpectExec(`UPDATE "bookings" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).WillReturnRows(returningID(uuid.New()))
	expectOutbox(mock, 3)
	mock.ExpectCommit()

	res, err := CreateInvoice(context.Background(), db, Caller{ID: uuid.New(), Role: models.RoleAdmin}, InvoiceRequest{
		BookingID: bookingID, AgreedPrice: 99.99, Currency: "KES", PlatformCommissionRate: &override,
	})
	require.NoError(t, err)

	// Unknown talent counts as unsubscribed, so the override does not apply.
	assert.Equal(t, 20.0, res.Payment.CommissionRate)
	assert.Equal(t, 20.0, res.Payment.PlatformCommission)
	assert.Equal(t, 79.99, res.Payment.TalentEarnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoiceRejectsSettledPayment(t *testing.T) {
	db, mock := newMockDB(t)
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WillReturnRows(bookingRow(bookingID, booker, &talent, "pending"))
	mock.ExpectQuery(`SELECT "id","is_subscribed" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_subscribed"}).AddRow(talent.String(), false))
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows(paymentColumns).AddRow(uuid.New().String(), bookingID.String(), booker.String(), talent.String(),
			100.0, "USD", 20.0, 20.0, 80.0, "paid", "invoice", testNow, testNow))
	mock.ExpectRollback()

	_, err := CreateInvoice(context.Background(), db, Caller{ID: talent, Role: models.RoleTalent}, InvoiceRequest{
		BookingID: bookingID, AgreedPrice: 100, Currency: "USD",
	})
	assert.ErrorIs(t, err, ErrAlreadySettled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoiceRollsBackOnNotificationFailure(t *testing.T) {
	db, mock := newMockDB(t)
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WillReturnRows(bookingRow(bookingID, booker, &talent, "pending"))
	mock.ExpectQuery(`SELECT "id","is_subscribed" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_subscribed"}).AddRow(talent.String(), false))
	mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnRows(sqlmock.NewRows(paymentColumns))
	mock.ExpectQuery(`INSERT INTO "payments"`).WillReturnRows(returningID(uuid.New()))
	mock.ExpectExec(`UPDATE "bookings" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := CreateInvoice(context.Background(), db, Caller{ID: talent, Role: models.RoleTalent}, InvoiceRequest{
		BookingID: bookingID, AgreedPrice: 100, Currency: "USD",
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
