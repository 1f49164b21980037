package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	config "github.com/anjiri1684/talent_booking/configs"
	"github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/middleware"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const testSecret = "handler-test-secret"

var (
	testNow        = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	bookingColumns = []string{"id", "user_id", "talent_id", "status", "event_date", "event_type", "location", "notes", "payment_id", "created_at", "updated_at"}
	paymentColumns = []string{"id", "booking_id", "payer_id", "payee_id", "total_amount", "currency", "commission_rate",
		"platform_commission", "talent_earnings", "payment_status", "payment_method", "created_at", "updated_at"}
)

type countingWaker struct {
	n atomic.Int32
}

func (w *countingWaker) Wake() { w.n.Add(1) }

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

// setup wires the handlers to a mocked database and returns an app carrying the
// same routes main serves.
func setup(t *testing.T, mutate func(*Dependencies)) (*fiber.App, sqlmock.Sqlmock, *countingWaker) {
	t.Helper()
	db, mock := newMockDB(t)
	waker := &countingWaker{}
	d := Dependencies{
		DB:     db,
		Log:    logger.NewTestLogger(t),
		Config: &config.AppConfig{Auth: config.AuthConfig{JWTSecret: testSecret}},
		Relay:  waker,
		Now:    func() time.Time { return testNow },
	}
	if mutate != nil {
		mutate(&d)
	}
	Init(d)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/webhooks/changes", ReceiveChangeWebhook)

	auth := api.Group("", middleware.Protected(testSecret))
	auth.Post("/invoices", CreateInvoice)
	auth.Get("/bookings/me", GetMyBookings)
	auth.Post("/bookings", CreateBooking)
	auth.Post("/bookings/decline", DeclineBooking)
	auth.Patch("/bookings/:bookingId/status", UpdateBookingStatus)
	auth.Get("/bookings/:bookingId/invoice", GetBookingInvoice)
	auth.Post("/subscriptions/activate", ActivateSubscription)
	auth.Get("/notifications/unread-count", GetUnreadCount)
	auth.Patch("/notifications/:id/read", MarkNotificationRead)
	auth.Get("/chat/:channel/messages", GetChannelMessages)
	auth.Get("/uploads/signature", GenerateUploadSignature)
	auth.Get("/profile/me", GetMyProfile)
	auth.Get("/admin/reports/commission", GetCommissionReport)
	auth.Patch("/admin/payments/:paymentId/status", UpdatePaymentStatus)
	auth.Post("/admin/jobs/cleanup", TriggerCleanup)
	return app, mock, waker
}

func token(t *testing.T, id uuid.UUID, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  id.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func do(t *testing.T, app *fiber.App, method, path, bearer string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func bookingRow(id, userID uuid.UUID, talentID *uuid.UUID, status models.BookingStatus) *sqlmock.Rows {
	var talent interface{}
	if talentID != nil {
		talent = talentID.String()
	}
	return sqlmock.NewRows(bookingColumns).
		AddRow(id.String(), userID.String(), talent, string(status), testNow.AddDate(0, 0, 7), "Wedding", nil, nil, nil, testNow, testNow)
}

func returningID(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id.String())
}

func expectOutbox(mock sqlmock.Sqlmock, events int) {
	rows := sqlmock.NewRows([]string{"seq"})
	for i := 0; i < events; i++ {
		rows.AddRow(int64(i + 1))
	}
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "change_events"`).WillReturnRows(rows)
}
