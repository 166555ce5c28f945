// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/helper-registry/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
}

// SequenceCounterRepository allocates values from named monotonic counters
type SequenceCounterRepository interface {
	// Next atomically increments the named counter and returns the new value.
	// An unseen name starts at 1.
	Next(ctx context.Context, name string) (int64, error)
}

// HelperRepository defines operations for helper records
type HelperRepository interface {
	Repository[models.Helper, models.HelperFilter]
	Count(ctx context.Context, filter models.HelperFilter) (int64, error)
	ByEmployeeID(ctx context.Context, employeeID string) ([]*models.Helper, error)
	// Search returns only the listing columns of matching helpers.
	Search(ctx context.Context, filter models.HelperFilter, orderBy string) ([]*models.Helper, error)
	// ReplaceByEmployeeID overwrites every mutable column of all rows with the
	// given id and bumps their version.
	ReplaceByEmployeeID(ctx context.Context, employeeID string, values *models.Helper) (int64, error)
	DeleteByEmployeeID(ctx context.Context, employeeID string) (int64, error)
}

// EmployeeSummaryRepository defines operations for the helper listing projection
type EmployeeSummaryRepository interface {
	ByFilter(ctx context.Context, filter models.EmployeeSummaryFilter, orderBy string, limit, offset int) ([]*models.EmployeeSummary, error)
	Count(ctx context.Context, filter models.EmployeeSummaryFilter) (int64, error)
	// Upsert inserts the summary or overwrites the row with the same employee
	// id unless that row was built from a newer helper version.
	Upsert(ctx context.Context, summary *models.EmployeeSummary) error
	DeleteByEmployeeID(ctx context.Context, employeeID string) (int64, error)
	// RepairFromHelpers rebuilds missing or drifted summaries from the first
	// helper row of each employee id, deciding against the rows current when
	// the statement runs. It returns the number of rows written.
	RepairFromHelpers(ctx context.Context) (int64, error)
	// DeleteOrphans removes summaries whose employee id has no helper row.
	DeleteOrphans(ctx context.Context) (int64, error)
}

// AuditLogRepository stores the registry audit trail
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
}
