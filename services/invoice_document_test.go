package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrinter struct {
	html string
	err  error
}

func (p *fakePrinter) PrintPDF(_ context.Context, html string) ([]byte, error) {
	p.html = html
	return []byte("%PDF-1.4"), p.err
}

type fakeUploader struct {
	publicID string
	data     []byte
}

func (u *fakeUploader) UploadDocument(_ context.Context, data []byte, publicID string) (string, error) {
	u.data, u.publicID = data, publicID
	return "https://res.cloudinary.com/demo/raw/upload/" + publicID, nil
}

func TestRenderInvoiceHTML(t *testing.T) {
	html, err := RenderInvoiceHTML(InvoiceView{
		Number: "ab12cd34", BookerName: "Amina <script>", TalentName: "DJ Kato", EventType: "Wedding",
		Currency: "USD", Total: 1000, CommissionRate: 15, Commission: 150, Earnings: 850, Status: "pending",
	})
	require.NoError(t, err)
	assert.Contains(t, html, "ab12cd34")
	assert.Contains(t, html, "Amina &lt;script&gt;")
	assert.Contains(t, html, "1000.00")
	assert.Contains(t, html, "150.00")
	assert.Contains(t, html, "850.00")
}

func expectInvoiceView(mock sqlmock.Sqlmock, bookingID, booker, talent uuid.UUID) {
	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).WillReturnRows(bookingRow(bookingID, booker, &talent, "approved"))
	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE booking_id = \$1`).
		WillReturnRows(paymentRow(uuid.New(), bookingID, booker, talent, "pending"))
	mock.ExpectQuery(`SELECT "id","full_name" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).AddRow(booker.String(), "Amina Otieno"))
	mock.ExpectQuery(`SELECT "id","full_name" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}))
}

func TestInvoiceDocument(t *testing.T) {
	db, mock := newMockDB(t)
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()
	expectInvoiceView(mock, bookingID, booker, talent)

	printer, store := &fakePrinter{}, &fakeUploader{}
	url, err := InvoiceDocument(context.Background(), db, Caller{ID: booker, Role: models.RoleBooker}, bookingID, printer, store)
	require.NoError(t, err)

	assert.Contains(t, url, "invoices/"+bookingID.String())
	assert.Contains(t, printer.html, "Amina Otieno")
	// Talent without a profile row falls back to the id.
	assert.Contains(t, printer.html, talent.String())
	assert.Equal(t, []byte("%PDF-1.4"), store.data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceDocumentForbiddenForStrangers(t *testing.T) {
	db, mock := newMockDB(t)
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(bookingRow(bookingID, booker, &talent, "approved"))

	_, err := InvoiceDocument(context.Background(), db, Caller{ID: uuid.New(), Role: models.RoleTalent}, bookingID, &fakePrinter{}, &fakeUploader{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestInvoiceDocumentWithoutPayment(t *testing.T) {
	db, mock := newMockDB(t)
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnRows(bookingRow(bookingID, booker, &talent, "pending"))
	mock.ExpectQuery(`SELECT \* FROM "payments"`).WillReturnRows(sqlmock.NewRows(paymentColumns))

	_, err := InvoiceDocument(context.Background(), db, Caller{ID: talent, Role: models.RoleTalent}, bookingID, &fakePrinter{}, &fakeUploader{})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestInvoiceDocumentPrintFailure(t *testing.T) {
	db, mock := newMockDB(t)
	bookingID, booker, talent := uuid.New(), uuid.New(), uuid.New()
	expectInvoiceView(mock, bookingID, booker, talent)

	store := &fakeUploader{}
	_, err := InvoiceDocument(context.Background(), db, Caller{ID: uuid.New(), Role: models.RoleAdmin}, bookingID,
		&fakePrinter{err: errors.New("chrome not found")}, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "print invoice")
	assert.Nil(t, store.data)
}
