package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/anjiri1684/talent_booking/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
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

func TestSeedAdminSkipsWithoutConfig(t *testing.T) {
	db, mock := newMockDB(t)
	require.NoError(t, SeedAdmin(db, AdminSeed{}, logger.NewTestLogger(t)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedAdminRejectsBadID(t *testing.T) {
	db, _ := newMockDB(t)
	assert.Error(t, SeedAdmin(db, AdminSeed{ID: "admin", Email: "ops@example.com"}, logger.NewTestLogger(t)))
}

func TestSeedAdminCreatesProfile(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, SeedAdmin(db, AdminSeed{ID: id.String(), Email: "ops@example.com"}, logger.NewTestLogger(t)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedAdminPromotesExistingUser(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "role"}).AddRow(id.String(), "Ops", "ops@example.com", "booker"))
	mock.ExpectExec(`UPDATE "users" SET "role"=\$1`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, SeedAdmin(db, AdminSeed{ID: id.String(), Email: "ops@example.com"}, logger.NewTestLogger(t)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
