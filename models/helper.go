package models

import (
	"time"

	"github.com/amirphl/helper-registry/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Helper is a registered field employee.
// Table: helpers
// Indices: employee_id (non-unique), organization
// Services and Languages stored as TEXT[]
// File references (photo, documents) are opaque blob store paths
type Helper struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	EmployeeID    string         `gorm:"type:varchar(32);index;not null" json:"employeeId"`
	FullName      string         `gorm:"type:varchar(255);not null;default:''" json:"fullName"`
	Email         string         `gorm:"type:varchar(255);not null;default:''" json:"email"`
	Services      pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"services"`
	Organization  string         `gorm:"type:varchar(255);index;not null;default:''" json:"organization"`
	Languages     pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"languages"`
	Gender        string         `gorm:"type:varchar(32);not null;default:''" json:"gender"`
	PhonePrefix   string         `gorm:"type:varchar(16);not null;default:''" json:"phonePrefix"`
	PhoneNumber   string         `gorm:"type:varchar(32);not null;default:''" json:"phoneNumber"`
	VehicleType   string         `gorm:"type:varchar(64);not null;default:''" json:"vehicleType"`
	VehicleNumber string         `gorm:"type:varchar(64);not null;default:''" json:"vehicleNumber"`
	Photo         string         `gorm:"type:text;not null;default:''" json:"photo"`
	KYCDocument   string         `gorm:"column:kyc_document;type:text;not null;default:''" json:"kycDocument"`
	KYCDocType    string         `gorm:"column:kyc_doc_type;type:varchar(64);not null;default:''" json:"kycDocType"`
	OtherDocument string         `gorm:"type:text;not null;default:''" json:"otherDocument"`
	OtherDocType  string         `gorm:"type:varchar(64);not null;default:''" json:"otherDocType"`
	JoinedDate    time.Time      `gorm:"not null" json:"joinedDate"`
	// Version grows by one on every update of the row
	Version int64 `gorm:"not null;default:1" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Helper) TableName() string { return "helpers" }

// BeforeCreate normalizes timestamps and nil arrays
func (h *Helper) BeforeCreate(tx *gorm.DB) error {
	now := utils.UTCNow()
	if h.JoinedDate.IsZero() {
		h.JoinedDate = now
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = now
	}
	if h.Version == 0 {
		h.Version = 1
	}
	if h.Services == nil {
		h.Services = pq.StringArray{}
	}
	if h.Languages == nil {
		h.Languages = pq.StringArray{}
	}
	return nil
}

// Summary projects the helper onto its listing row.
func (h *Helper) Summary() *EmployeeSummary {
	services := make(pq.StringArray, len(h.Services))
	copy(services, h.Services)
	return &EmployeeSummary{
		EmployeeID:    h.EmployeeID,
		FullName:      h.FullName,
		Services:      services,
		Organization:  h.Organization,
		Photo:         h.Photo,
		PhoneNumber:   h.PhoneNumber,
		SourceVersion: h.Version,
	}
}

// HelperFilter represents filter criteria for helper queries.
// Non-nil predicates are AND-ed; nil ones are ignored.
type HelperFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	// SearchPattern is a case-insensitive regular expression matched against
	// employee_id, full_name or phone_number.
	SearchPattern *string  `json:"search_pattern,omitempty"`
	AnyServices   []string `json:"any_services,omitempty"`
	Organizations []string `json:"organizations,omitempty"`
}
