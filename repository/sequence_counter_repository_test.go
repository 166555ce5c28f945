package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirphl/helper-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestSequenceCounterNext(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsAllocatedValue", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`INSERT INTO sequence_counters .* ON CONFLICT \(name\) DO UPDATE .* RETURNING last_value`).
			WithArgs("helper_employee_id", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(42)))

		next, err := NewSequenceCounterRepository(db).Next(ctx, "helper_employee_id")
		require.NoError(t, err)
		assert.Equal(t, int64(42), next)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DriverError", func(t *testing.T) {
		db, mock := newMockDB(t)
		boom := errors.New("connection reset by peer")
		mock.ExpectQuery(`INSERT INTO sequence_counters`).WillReturnError(boom)

		_, err := NewSequenceCounterRepository(db).Next(ctx, "helper_employee_id")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("NoRowReturned", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`INSERT INTO sequence_counters`).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}))

		_, err := NewSequenceCounterRepository(db).Next(ctx, "helper_employee_id")
		assert.ErrorContains(t, err, "no value returned")
	})
}

func TestEmployeeSummaryUpsertKeepsNewerVersion(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "employee_summaries" .* ON CONFLICT \("employee_id"\) DO UPDATE SET .* WHERE employee_summaries.source_version <= EXCLUDED.source_version RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	err := NewEmployeeSummaryRepository(db).Upsert(context.Background(), &models.EmployeeSummary{
		EmployeeID:    "EMP10001",
		FullName:      "Asha",
		SourceVersion: 2,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeSummaryRepair(t *testing.T) {
	ctx := context.Background()

	t.Run("RepairFromHelpers", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO employee_summaries .* SELECT DISTINCT ON \(h.employee_id\) .* ORDER BY h.employee_id, h.id ON CONFLICT \(employee_id\) DO UPDATE .* WHERE employee_summaries.source_version <= EXCLUDED.source_version AND .* IS DISTINCT FROM`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := NewEmployeeSummaryRepository(db).RepairFromHelpers(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteOrphans", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`DELETE FROM employee_summaries s WHERE NOT EXISTS \(SELECT 1 FROM helpers h WHERE h.employee_id = s.employee_id\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		n, err := NewEmployeeSummaryRepository(db).DeleteOrphans(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DriverError", func(t *testing.T) {
		db, mock := newMockDB(t)
		boom := errors.New("connection refused")
		mock.ExpectExec(`DELETE FROM employee_summaries`).WillReturnError(boom)

		_, err := NewEmployeeSummaryRepository(db).DeleteOrphans(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestHelperSearchQuery(t *testing.T) {
	db, _ := newMockDB(t)
	repo := &HelperRepositoryImpl{BaseRepository: NewBaseRepository[models.Helper, models.HelperFilter](db)}

	pattern := `\+1\(555\)\*123`
	filter := models.HelperFilter{
		SearchPattern: &pattern,
		AnyServices:   []string{"cleaning", "driving"},
		Organizations: []string{"AcmeCo"},
	}

	var rows []*models.Helper
	stmt := repo.searchQuery(db.Session(&gorm.Session{DryRun: true}), filter, "organization ASC, id ASC").Find(&rows).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `SELECT "id","employee_id","full_name","services","organization","photo","phone_number" FROM "helpers"`)
	assert.Contains(t, sql, "employee_id ~* $1 OR full_name ~* $2 OR phone_number ~* $3")
	assert.Contains(t, sql, "services && $4")
	assert.Contains(t, sql, "organization IN ($5)")
	assert.Contains(t, sql, "ORDER BY organization ASC, id ASC")
	assert.Equal(t, pattern, stmt.Vars[0])
}

func TestHelperSearchQueryWithoutPredicates(t *testing.T) {
	db, _ := newMockDB(t)
	repo := &HelperRepositoryImpl{BaseRepository: NewBaseRepository[models.Helper, models.HelperFilter](db)}

	var rows []*models.Helper
	sql := repo.searchQuery(db.Session(&gorm.Session{DryRun: true}), models.HelperFilter{}, "").Find(&rows).Statement.SQL.String()

	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "ORDER BY id ASC")
}
