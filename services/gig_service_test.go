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

var (
	gigColumns         = []string{"id", "booker_id", "title", "event_type", "event_date", "budget", "currency", "status", "created_at", "updated_at"}
	applicationColumns = []string{"id", "gig_id", "booker_id", "talent_id", "status", "proposed_price", "currency", "created_at", "updated_at"}
)

func gigRow(id, booker uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows(gigColumns).
		AddRow(id.String(), booker.String(), "Jazz trio", "Wedding", testNow.AddDate(0, 1, 0), 500.0, "USD", status, testNow, testNow)
}

func applicationRow(id, gig, booker, talent uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows(applicationColumns).
		AddRow(id.String(), gig.String(), booker.String(), talent.String(), status, nil, nil, testNow, testNow)
}

func TestCreateGig(t *testing.T) {
	db, mock := newMockDB(t)
	booker, gigID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "gigs"`).WillReturnRows(returningID(gigID))
	expectOutbox(mock, 1)
	mock.ExpectCommit()

	gig, err := CreateGig(context.Background(), db, Caller{ID: booker, Role: models.RoleBooker}, CreateGigInput{
		Title: "Jazz trio", EventType: "Wedding", EventDate: testNow, Budget: 500, Currency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, gigID, gig.ID)
	assert.Equal(t, booker, gig.BookerID)
	assert.Equal(t, models.GigOpen, gig.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyToGig(t *testing.T) {
	gigID, booker, talent := uuid.New(), uuid.New(), uuid.New()
	caller := Caller{ID: talent, Role: models.RoleTalent}

	t.Run("missing gig", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "gigs"`).WillReturnRows(sqlmock.NewRows(gigColumns))
		mock.ExpectRollback()

		_, err := ApplyToGig(context.Background(), db, caller, gigID)
		assert.ErrorIs(t, err, ErrGigNotFound)
	})

	t.Run("closed gig", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "gigs"`).WillReturnRows(gigRow(gigID, booker, "closed"))
		mock.ExpectRollback()

		_, err := ApplyToGig(context.Background(), db, caller, gigID)
		assert.ErrorIs(t, err, ErrGigClosed)
	})

	t.Run("already applied", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "gigs"`).WillReturnRows(gigRow(gigID, booker, "open"))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "gig_applications"`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		_, err := ApplyToGig(context.Background(), db, caller, gigID)
		assert.ErrorIs(t, err, ErrAlreadyApplied)
	})

	t.Run("applied", func(t *testing.T) {
		db, mock := newMockDB(t)
		appID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "gigs"`).WillReturnRows(gigRow(gigID, booker, "open"))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "gig_applications"`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO "gig_applications"`).WillReturnRows(returningID(appID))
		expectOutbox(mock, 1)
		mock.ExpectCommit()

		app, err := ApplyToGig(context.Background(), db, caller, gigID)
		require.NoError(t, err)
		assert.Equal(t, appID, app.ID)
		assert.Equal(t, booker, app.BookerID)
		assert.Equal(t, models.GigApplicationInterested, app.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateApplicationStatusInvoiceNeedsPrice(t *testing.T) {
	db, mock := newMockDB(t)
	appID, gigID, booker, talent := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "gig_applications"`).WillReturnRows(applicationRow(appID, gigID, booker, talent, "interested"))
	mock.ExpectRollback()

	_, err := UpdateApplicationStatus(context.Background(), db, Caller{ID: talent, Role: models.RoleTalent}, appID,
		ApplicationUpdate{Status: models.GigApplicationInvoiceSent})
	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplicationStatusTalentSendsInvoice(t *testing.T) {
	db, mock := newMockDB(t)
	appID, gigID, booker, talent := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	price, currency := 750.0, "EUR"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "gig_applications"`).WillReturnRows(applicationRow(appID, gigID, booker, talent, "interested"))
	mock.ExpectExec(`UPDATE "gig_applications" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).WillReturnRows(returningID(uuid.New()))
	expectOutbox(mock, 2)
	mock.ExpectCommit()

	res, err := UpdateApplicationStatus(context.Background(), db, Caller{ID: talent, Role: models.RoleTalent}, appID,
		ApplicationUpdate{Status: models.GigApplicationInvoiceSent, ProposedPrice: &price, Currency: &currency})
	require.NoError(t, err)
	assert.Equal(t, models.GigApplicationInvoiceSent, res.Application.Status)
	require.NotNil(t, res.Application.ProposedPrice)
	assert.Equal(t, 750.0, *res.Application.ProposedPrice)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, booker, res.Notifications[0].UserID)
	assert.Equal(t, workflow.TitleInvoiceReceived, res.Notifications[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplicationStatusConfirmClosesGig(t *testing.T) {
	db, mock := newMockDB(t)
	appID, gigID, booker, talent := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "gig_applications"`).WillReturnRows(applicationRow(appID, gigID, booker, talent, "invoice_sent"))
	mock.ExpectExec(`UPDATE "gig_applications" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "gigs"`).WillReturnRows(gigRow(gigID, booker, "open"))
	mock.ExpectExec(`UPDATE "gigs" SET "status"=\$1`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).WillReturnRows(returningID(uuid.New()))
	expectOutbox(mock, 3)
	mock.ExpectCommit()

	res, err := UpdateApplicationStatus(context.Background(), db, Caller{ID: booker, Role: models.RoleBooker}, appID,
		ApplicationUpdate{Status: models.GigApplicationConfirmed})
	require.NoError(t, err)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, talent, res.Notifications[0].UserID)
	assert.Equal(t, workflow.TitleGigConfirmed, res.Notifications[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplicationStatusForbidden(t *testing.T) {
	db, mock := newMockDB(t)
	appID, gigID, booker, talent := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "gig_applications"`).WillReturnRows(applicationRow(appID, gigID, booker, talent, "invoice_sent"))
	mock.ExpectRollback()

	// Only the gig's booker may confirm.
	_, err := UpdateApplicationStatus(context.Background(), db, Caller{ID: talent, Role: models.RoleTalent}, appID,
		ApplicationUpdate{Status: models.GigApplicationConfirmed})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationNotificationsDeclinedInvoice(t *testing.T) {
	talent := uuid.New()
	old := models.GigApplication{TalentID: talent, Status: models.GigApplicationInvoiceSent}
	next := old
	next.Status = models.GigApplicationInterested

	notes := applicationNotifications(old, next)
	require.Len(t, notes, 1)
	assert.Equal(t, talent, notes[0].UserID)
	assert.Equal(t, workflow.TitleInvoiceDeclined, notes[0].Title)
}
