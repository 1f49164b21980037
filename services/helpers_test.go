package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

var (
	bookingColumns = []string{"id", "user_id", "talent_id", "status", "event_date", "event_type", "location", "notes", "payment_id", "created_at", "updated_at"}
	paymentColumns = []string{"id", "booking_id", "payer_id", "payee_id", "total_amount", "currency", "commission_rate",
		"platform_commission", "talent_earnings", "payment_status", "payment_method", "created_at", "updated_at"}
	notificationColumns = []string{"id", "user_id", "type", "title", "message", "booking_id", "read_at", "created_at"}
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func bookingRow(id, userID uuid.UUID, talentID *uuid.UUID, status string) *sqlmock.Rows {
	var talent interface{}
	if talentID != nil {
		talent = talentID.String()
	}
	return sqlmock.NewRows(bookingColumns).
		AddRow(id.String(), userID.String(), talent, status, testNow.AddDate(0, 0, 7), "Wedding", nil, nil, nil, testNow, testNow)
}

func returningID(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id.String())
}

// expectOutbox matches the batched change_events insert of one transaction.
func expectOutbox(mock sqlmock.Sqlmock, events int) {
	rows := sqlmock.NewRows([]string{"seq"})
	for i := 0; i < events; i++ {
		rows.AddRow(int64(i + 1))
	}
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "change_events"`).WillReturnRows(rows)
}
