package repository_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	businessflow "github.com/amirphl/helper-registry/business_flow"
	"github.com/amirphl/helper-registry/models"
	"github.com/amirphl/helper-registry/repository"
	testingutil "github.com/amirphl/helper-registry/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceCounterConcurrentAllocation(t *testing.T) {
	testingutil.RunWithDB(t, func(tdb *testingutil.TestDB) error {
		repo := repository.NewSequenceCounterRepository(tdb.DB)
		ctx := testingutil.CreateTestContext()

		const n = 40
		values := make([]int64, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, err := repo.Next(ctx, "helper_employee_id")
				assert.NoError(t, err)
				values[i] = v
			}(i)
		}
		wg.Wait()

		sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
		for i, v := range values {
			assert.Equal(t, int64(i+1), v)
		}

		following, err := repo.Next(ctx, "helper_employee_id")
		require.NoError(t, err)
		assert.Equal(t, int64(n+1), following)

		other, err := repo.Next(ctx, "another_counter")
		require.NoError(t, err)
		assert.Equal(t, int64(1), other)
		return nil
	})
}

func TestHelperRepository(t *testing.T) {
	testingutil.RunWithDB(t, func(tdb *testingutil.TestDB) error {
		ctx := context.Background()
		fixtures := testingutil.NewTestFixtures(tdb)
		repo := repository.NewHelperRepository(tdb.DB)

		a, err := fixtures.CreateTestHelper("EMP10001", "Asha", "AcmeCo", "cleaning")
		require.NoError(t, err)
		_, err = fixtures.CreateTestHelper("EMP10002", "Ben", "Beta", "driving")
		require.NoError(t, err)

		t.Run("SearchByServiceOverlap", func(t *testing.T) {
			rows, err := repo.Search(ctx, models.HelperFilter{AnyServices: []string{"cleaning", "laundry"}}, "")
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "EMP10001", rows[0].EmployeeID)
		})

		t.Run("SearchByOrganization", func(t *testing.T) {
			rows, err := repo.Search(ctx, models.HelperFilter{Organizations: []string{"Beta"}}, "")
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "EMP10002", rows[0].EmployeeID)
		})

		t.Run("SearchPatternIsCaseInsensitive", func(t *testing.T) {
			pattern := "asha"
			rows, err := repo.Search(ctx, models.HelperFilter{SearchPattern: &pattern}, "employee_id ASC")
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "Asha", rows[0].FullName)
			assert.Empty(t, rows[0].Email, "listing columns only")
		})

		t.Run("ReplaceClearsOmittedValues", func(t *testing.T) {
			values := testingutil.TestHelper("EMP10001", "Asha Updated", "AcmeCo", "cooking")
			values.Photo = ""
			n, err := repo.ReplaceByEmployeeID(ctx, "EMP10001", values)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			rows, err := repo.ByEmployeeID(ctx, "EMP10001")
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, a.ID, rows[0].ID)
			assert.Equal(t, "Asha Updated", rows[0].FullName)
			assert.Equal(t, []string{"cooking"}, []string(rows[0].Services))
			assert.Empty(t, rows[0].Photo)
		})

		t.Run("DuplicateEmployeeIDsAreKept", func(t *testing.T) {
			_, err := fixtures.CreateTestHelperWithoutSummary("EMP10002", "Ben Twin", "Beta", "driving")
			require.NoError(t, err)

			rows, err := repo.ByEmployeeID(ctx, "EMP10002")
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Less(t, rows[0].ID, rows[1].ID)

			// update rewrites every row sharing the id, not only the first
			n, err := repo.ReplaceByEmployeeID(ctx, "EMP10002", testingutil.TestHelper("EMP10002", "Ben Merged", "Beta"))
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)
			rows, err = repo.ByEmployeeID(ctx, "EMP10002")
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, "Ben Merged", rows[0].FullName)
			assert.Equal(t, "Ben Merged", rows[1].FullName)

			n, err = repo.DeleteByEmployeeID(ctx, "EMP10002")
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)
		})

		t.Run("ReplaceBumpsVersion", func(t *testing.T) {
			before, err := repo.ByEmployeeID(ctx, "EMP10001")
			require.NoError(t, err)
			require.Len(t, before, 1)

			_, err = repo.ReplaceByEmployeeID(ctx, "EMP10001", testingutil.TestHelper("EMP10001", "Asha", "AcmeCo"))
			require.NoError(t, err)

			after, err := repo.ByEmployeeID(ctx, "EMP10001")
			require.NoError(t, err)
			require.Len(t, after, 1)
			assert.Equal(t, before[0].Version+1, after[0].Version)
		})

		t.Run("EscapedSearchStringMatchesLiterally", func(t *testing.T) {
			literal := testingutil.TestHelper("EMP10010", "Literal Phone", "Gamma", "gardening")
			literal.PhoneNumber = "+1(555)*123"
			decoy := testingutil.TestHelper("EMP10011", "Decoy Phone", "Gamma", "gardening")
			decoy.PhoneNumber = "1555123"
			require.NoError(t, tdb.DB.Create(literal).Error)
			require.NoError(t, tdb.DB.Create(decoy).Error)

			pattern := businessflow.EscapeSearchString("+1(555)*123")
			rows, err := repo.Search(ctx, models.HelperFilter{SearchPattern: &pattern}, "")
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "EMP10010", rows[0].EmployeeID)
		})

		return nil
	})
}

func TestEmployeeSummaryRepository(t *testing.T) {
	testingutil.RunWithDB(t, func(tdb *testingutil.TestDB) error {
		ctx := context.Background()
		repo := repository.NewEmployeeSummaryRepository(tdb.DB)

		h := testingutil.TestHelper("EMP10001", "Asha", "AcmeCo", "cleaning")
		require.NoError(t, repo.Upsert(ctx, h.Summary()))

		h.FullName = "Asha Renamed"
		require.NoError(t, repo.Upsert(ctx, h.Summary()))

		count, err := repo.Count(ctx, models.EmployeeSummaryFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		rows, err := repo.ByFilter(ctx, models.EmployeeSummaryFilter{}, "", 0, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Asha Renamed", rows[0].FullName)

		t.Run("DeleteInsideTransactionRollsBack", func(t *testing.T) {
			err := repository.WithTransaction(ctx, tdb.DB, func(txCtx context.Context) error {
				n, err := repo.DeleteByEmployeeID(txCtx, "EMP10001")
				require.NoError(t, err)
				assert.Equal(t, int64(1), n)
				return assert.AnError
			})
			assert.ErrorIs(t, err, assert.AnError)

			count, err := repo.Count(ctx, models.EmployeeSummaryFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("OlderVersionDoesNotReplaceNewer", func(t *testing.T) {
			newer := h.Summary()
			newer.FullName = "Asha v3"
			newer.SourceVersion = 3
			require.NoError(t, repo.Upsert(ctx, newer))

			older := h.Summary()
			older.FullName = "Asha v2"
			older.SourceVersion = 2
			require.NoError(t, repo.Upsert(ctx, older))

			rows, err := repo.ByFilter(ctx, models.EmployeeSummaryFilter{EmployeeID: &h.EmployeeID}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "Asha v3", rows[0].FullName)
			assert.Equal(t, int64(3), rows[0].SourceVersion)
		})

		n, err := repo.DeleteByEmployeeID(ctx, "EMP10001")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return nil
	})
}
