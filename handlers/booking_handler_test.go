package handlers

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclineBookingSwallowsTalentNotificationFailure(t *testing.T) {
	app, mock, waker := setup(t, nil)
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(bookingRow(bookingID, booker, &talent, models.BookingPendingApproval))
	mock.ExpectExec(`UPDATE "bookings" SET "status"=\$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectOutbox(mock, 1)
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	code, body := do(t, app, "POST", "/api/v1/bookings/decline", token(t, booker, models.RoleBooker),
		map[string]string{"booking_id": bookingID.String()})

	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, int32(1), waker.n.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclineBookingErrors(t *testing.T) {
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name   string
		caller uuid.UUID
		rows   *sqlmock.Rows
		want   int
	}{
		{"missing", booker, sqlmock.NewRows(bookingColumns), fiber.StatusNotFound},
		{"not the booker", talent, bookingRow(bookingID, booker, &talent, models.BookingPendingApproval), fiber.StatusForbidden},
		{"already declined", booker, bookingRow(bookingID, booker, &talent, models.BookingDeclined), fiber.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, mock, _ := setup(t, nil)
			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(tt.rows)
			mock.ExpectRollback()

			code, body := do(t, app, "POST", "/api/v1/bookings/decline", token(t, tt.caller, models.RoleBooker),
				map[string]string{"booking_id": bookingID.String()})
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, body["error"])
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeclineBookingRequiresBookingID(t *testing.T) {
	app, mock, _ := setup(t, nil)
	code, body := do(t, app, "POST", "/api/v1/bookings/decline", token(t, uuid.New(), models.RoleBooker), map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "booking_id is required", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeclineBookingRequiresToken(t *testing.T) {
	app, _, _ := setup(t, nil)
	code, _ := do(t, app, "POST", "/api/v1/bookings/decline", "", map[string]string{"booking_id": uuid.NewString()})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestCreateBookingValidation(t *testing.T) {
	app, mock, _ := setup(t, nil)
	code, _ := do(t, app, "POST", "/api/v1/bookings", token(t, uuid.New(), models.RoleBooker), map[string]interface{}{
		"event_type": "   ",
		"event_date": testNow.AddDate(0, 1, 0),
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatusRejectsUnknownStatus(t *testing.T) {
	app, mock, _ := setup(t, nil)
	code, body := do(t, app, "PATCH", "/api/v1/bookings/"+uuid.NewString()+"/status", token(t, uuid.New(), models.RoleTalent),
		map[string]string{"status": "lost"})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, body["error"], "unknown status")
	assert.NoError(t, mock.ExpectationsWereMet())
}
