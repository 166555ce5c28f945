package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/helper-registry/models"
	"github.com/amirphl/helper-registry/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeSummaryRepositoryImpl implements EmployeeSummaryRepository interface
type EmployeeSummaryRepositoryImpl struct {
	*BaseRepository[models.EmployeeSummary, models.EmployeeSummaryFilter]
}

// NewEmployeeSummaryRepository creates a new employee summary repository
func NewEmployeeSummaryRepository(db *gorm.DB) EmployeeSummaryRepository {
	return &EmployeeSummaryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.EmployeeSummary, models.EmployeeSummaryFilter](db),
	}
}

// summaryUpsertClause keeps a summary built from a newer helper version when
// an older write arrives late
var summaryUpsertClause = clause.OnConflict{
	Columns: []clause.Column{{Name: "employee_id"}},
	DoUpdates: clause.Assignments(map[string]any{
		"full_name":      clause.Expr{SQL: "EXCLUDED.full_name"},
		"services":       clause.Expr{SQL: "EXCLUDED.services"},
		"organization":   clause.Expr{SQL: "EXCLUDED.organization"},
		"photo":          clause.Expr{SQL: "EXCLUDED.photo"},
		"phone_number":   clause.Expr{SQL: "EXCLUDED.phone_number"},
		"source_version": clause.Expr{SQL: "EXCLUDED.source_version"},
		"updated_at":     clause.Expr{SQL: "EXCLUDED.updated_at"},
	}),
	Where: clause.Where{Exprs: []clause.Expression{
		clause.Expr{SQL: "employee_summaries.source_version <= EXCLUDED.source_version"},
	}},
}

// repairSummariesSQL projects the first helper row (lowest id) of every
// employee id. Rows already built from a newer version or already equal are
// left alone, so only written rows are counted.
const repairSummariesSQL = `INSERT INTO employee_summaries
	(employee_id, full_name, services, organization, photo, phone_number, source_version, created_at, updated_at)
SELECT DISTINCT ON (h.employee_id)
	h.employee_id, h.full_name, h.services, h.organization, h.photo, h.phone_number, h.version, ?, ?
FROM helpers h
ORDER BY h.employee_id, h.id
ON CONFLICT (employee_id) DO UPDATE
SET full_name = EXCLUDED.full_name,
	services = EXCLUDED.services,
	organization = EXCLUDED.organization,
	photo = EXCLUDED.photo,
	phone_number = EXCLUDED.phone_number,
	source_version = EXCLUDED.source_version,
	updated_at = EXCLUDED.updated_at
WHERE employee_summaries.source_version <= EXCLUDED.source_version
	AND (employee_summaries.full_name, employee_summaries.services, employee_summaries.organization,
		employee_summaries.photo, employee_summaries.phone_number, employee_summaries.source_version)
	IS DISTINCT FROM
	(EXCLUDED.full_name, EXCLUDED.services, EXCLUDED.organization,
		EXCLUDED.photo, EXCLUDED.phone_number, EXCLUDED.source_version)`

const deleteOrphanSummariesSQL = `DELETE FROM employee_summaries s
WHERE NOT EXISTS (SELECT 1 FROM helpers h WHERE h.employee_id = s.employee_id)`

// Upsert writes the summary keyed by employee id
func (r *EmployeeSummaryRepositoryImpl) Upsert(ctx context.Context, summary *models.EmployeeSummary) error {
	summary.UpdatedAt = utils.UTCNow()

	db := r.getDB(ctx)
	if err := db.Clauses(summaryUpsertClause).Create(summary).Error; err != nil {
		return fmt.Errorf("failed to upsert employee summary %s: %w", summary.EmployeeID, err)
	}
	return nil
}

// DeleteByEmployeeID removes the summary of an employee id
func (r *EmployeeSummaryRepositoryImpl) DeleteByEmployeeID(ctx context.Context, employeeID string) (int64, error) {
	db := r.getDB(ctx)
	res := db.Where("employee_id = ?", employeeID).Delete(&models.EmployeeSummary{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete employee summary %s: %w", employeeID, res.Error)
	}
	return res.RowsAffected, nil
}

// RepairFromHelpers rewrites missing or drifted summaries in one statement
func (r *EmployeeSummaryRepositoryImpl) RepairFromHelpers(ctx context.Context) (int64, error) {
	db := r.getDB(ctx)
	now := utils.UTCNow()
	res := db.Exec(repairSummariesSQL, now, now)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to repair employee summaries: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteOrphans removes summaries without a helper row
func (r *EmployeeSummaryRepositoryImpl) DeleteOrphans(ctx context.Context) (int64, error) {
	db := r.getDB(ctx)
	res := db.Exec(deleteOrphanSummariesSQL)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete orphaned employee summaries: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *EmployeeSummaryRepositoryImpl) applyFilter(query *gorm.DB, filter models.EmployeeSummaryFilter) *gorm.DB {
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	return query
}

// ByFilter retrieves summaries based on filter criteria
func (r *EmployeeSummaryRepositoryImpl) ByFilter(ctx context.Context, filter models.EmployeeSummaryFilter, orderBy string, limit, offset int) ([]*models.EmployeeSummary, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.EmployeeSummary{}), filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.EmployeeSummary
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find employee summaries: %w", err)
	}
	return rows, nil
}

// Count returns number of summaries matching filter
func (r *EmployeeSummaryRepositoryImpl) Count(ctx context.Context, filter models.EmployeeSummaryFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.EmployeeSummary{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count employee summaries: %w", err)
	}
	return count, nil
}
