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

func paymentRow(id, bookingID, payer, payee uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows(paymentColumns).
		AddRow(id.String(), bookingID.String(), payer.String(), payee.String(), 1000.0, "USD", 20.0, 200.0, 800.0, status, "invoice", testNow, testNow)
}

func TestUpdatePaymentStatusSettlesAndConfirms(t *testing.T) {
	db, mock := newMockDB(t)
	paymentID, bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE id = \$1`).WillReturnRows(paymentRow(paymentID, bookingID, booker, talent, "pending"))
	mock.ExpectExec(`UPDATE "payments" SET "payment_status"=\$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).WillReturnRows(returningID(uuid.New()))
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).WillReturnRows(bookingRow(bookingID, booker, &talent, "approved"))
	mock.ExpectExec(`UPDATE "bookings" SET "status"=\$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectOutbox(mock, 3)
	mock.ExpectCommit()

	res, err := UpdatePaymentStatus(context.Background(), db, paymentID, models.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, res.Payment.PaymentStatus)
	require.NotNil(t, res.Booking)
	assert.Equal(t, models.BookingConfirmed, res.Booking.Status)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, talent, res.Notifications[0].UserID)
	assert.Equal(t, workflow.TitlePaymentReceived, res.Notifications[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentStatusPaidToCompletedDoesNotNotify(t *testing.T) {
	db, mock := newMockDB(t)
	paymentID, bookingID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnRows(paymentRow(paymentID, bookingID, uuid.New(), uuid.New(), "paid"))
	mock.ExpectExec(`UPDATE "payments" SET "payment_status"=\$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectOutbox(mock, 1)
	mock.ExpectCommit()

	res, err := UpdatePaymentStatus(context.Background(), db, paymentID, models.PaymentCompleted)
	require.NoError(t, err)
	assert.Empty(t, res.Notifications)
	assert.Nil(t, res.Booking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentStatusErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnRows(sqlmock.NewRows(paymentColumns))
		mock.ExpectRollback()

		_, err := UpdatePaymentStatus(context.Background(), db, uuid.New(), models.PaymentPaid)
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})

	t.Run("failed is terminal", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnRows(paymentRow(uuid.New(), uuid.New(), uuid.New(), uuid.New(), "failed"))
		mock.ExpectRollback()

		_, err := UpdatePaymentStatus(context.Background(), db, uuid.New(), models.PaymentPaid)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestCommissionTotals(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT currency, COUNT\(\*\) AS payments`).
		WillReturnRows(sqlmock.NewRows([]string{"currency", "payments", "total_amount", "platform_commission", "talent_earnings"}).
			AddRow("KES", 2, 20000.0, 3500.0, 16500.0).
			AddRow("USD", 1, 1000.0, 150.0, 850.0))

	totals, err := CommissionTotals(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "KES", totals[0].Currency)
	assert.Equal(t, int64(2), totals[0].Payments)
	assert.Equal(t, 150.0, totals[1].PlatformCommission)
}
