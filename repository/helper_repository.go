package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/helper-registry/models"
	"github.com/amirphl/helper-registry/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// helperListingColumns are the columns returned by Search
var helperListingColumns = []string{"id", "employee_id", "full_name", "services", "organization", "photo", "phone_number"}

// HelperRepositoryImpl implements HelperRepository interface
type HelperRepositoryImpl struct {
	*BaseRepository[models.Helper, models.HelperFilter]
}

// NewHelperRepository creates a new helper repository
func NewHelperRepository(db *gorm.DB) HelperRepository {
	return &HelperRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Helper, models.HelperFilter](db),
	}
}

// ByEmployeeID lists every helper row carrying the employee id
func (r *HelperRepositoryImpl) ByEmployeeID(ctx context.Context, employeeID string) ([]*models.Helper, error) {
	return r.ByFilter(ctx, models.HelperFilter{EmployeeID: &employeeID}, "id ASC", 0, 0)
}

// Search lists the listing columns of helpers matching filter
func (r *HelperRepositoryImpl) Search(ctx context.Context, filter models.HelperFilter, orderBy string) ([]*models.Helper, error) {
	query := r.searchQuery(r.getDB(ctx), filter, orderBy)

	var rows []*models.Helper
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search helpers: %w", err)
	}
	return rows, nil
}

func (r *HelperRepositoryImpl) searchQuery(db *gorm.DB, filter models.HelperFilter, orderBy string) *gorm.DB {
	query := db.Model(&models.Helper{}).Select(helperListingColumns)
	query = r.applyFilter(query, filter)
	if orderBy == "" {
		orderBy = "id ASC"
	}
	return query.Order(orderBy)
}

// ReplaceByEmployeeID overwrites all mutable columns, empty values included
func (r *HelperRepositoryImpl) ReplaceByEmployeeID(ctx context.Context, employeeID string, values *models.Helper) (int64, error) {
	db := r.getDB(ctx)

	services := values.Services
	if services == nil {
		services = pq.StringArray{}
	}
	languages := values.Languages
	if languages == nil {
		languages = pq.StringArray{}
	}

	res := db.Model(&models.Helper{}).
		Where("employee_id = ?", employeeID).
		Updates(map[string]any{
			"full_name":      values.FullName,
			"email":          values.Email,
			"services":       services,
			"organization":   values.Organization,
			"languages":      languages,
			"gender":         values.Gender,
			"phone_prefix":   values.PhonePrefix,
			"phone_number":   values.PhoneNumber,
			"vehicle_type":   values.VehicleType,
			"vehicle_number": values.VehicleNumber,
			"photo":          values.Photo,
			"kyc_document":   values.KYCDocument,
			"kyc_doc_type":   values.KYCDocType,
			"other_document": values.OtherDocument,
			"other_doc_type": values.OtherDocType,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     utils.UTCNow(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update helpers %s: %w", employeeID, res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteByEmployeeID removes every helper row with the employee id
func (r *HelperRepositoryImpl) DeleteByEmployeeID(ctx context.Context, employeeID string) (int64, error) {
	db := r.getDB(ctx)
	res := db.Where("employee_id = ?", employeeID).Delete(&models.Helper{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete helpers %s: %w", employeeID, res.Error)
	}
	return res.RowsAffected, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *HelperRepositoryImpl) applyFilter(query *gorm.DB, filter models.HelperFilter) *gorm.DB {
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.SearchPattern != nil && *filter.SearchPattern != "" {
		p := *filter.SearchPattern
		query = query.Where("(employee_id ~* ? OR full_name ~* ? OR phone_number ~* ?)", p, p, p)
	}
	if len(filter.AnyServices) > 0 {
		query = query.Where("services && ?", pq.StringArray(filter.AnyServices))
	}
	if len(filter.Organizations) > 0 {
		query = query.Where("organization IN ?", filter.Organizations)
	}
	return query
}

// ByFilter retrieves helpers based on filter criteria
func (r *HelperRepositoryImpl) ByFilter(ctx context.Context, filter models.HelperFilter, orderBy string, limit, offset int) ([]*models.Helper, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Helper{})

	query = r.applyFilter(query, filter)

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

	var rows []*models.Helper
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find helpers: %w", err)
	}
	return rows, nil
}

// Count returns number of helpers matching filter
func (r *HelperRepositoryImpl) Count(ctx context.Context, filter models.HelperFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Helper{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count helpers: %w", err)
	}
	return count, nil
}
