package models

import (
	"time"

	"github.com/amirphl/helper-registry/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// EmployeeSummary is the denormalized listing row of a helper.
// Table: employee_summaries
// Indices: employee_id (unique)
type EmployeeSummary struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	EmployeeID   string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"employeeId"`
	FullName     string         `gorm:"type:varchar(255);not null;default:''" json:"fullName"`
	Services     pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"services"`
	Organization string         `gorm:"type:varchar(255);not null;default:''" json:"organization"`
	Photo        string         `gorm:"type:text;not null;default:''" json:"photo"`
	PhoneNumber  string         `gorm:"type:varchar(32);not null;default:''" json:"phoneNumber"`
	// SourceVersion is the Helper.Version the row was built from. A summary
	// is never replaced by one built from an older version.
	SourceVersion int64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (EmployeeSummary) TableName() string { return "employee_summaries" }

func (s *EmployeeSummary) BeforeCreate(tx *gorm.DB) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = utils.UTCNow()
	}
	if s.Services == nil {
		s.Services = pq.StringArray{}
	}
	return nil
}

// EmployeeSummaryFilter represents filter criteria for summary queries
type EmployeeSummaryFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
}
