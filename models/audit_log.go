package models

import (
	"encoding/json"
	"time"
)

// AuditLog records a write against the registry and the client that made it.
// Table: audit_log
type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	EmployeeID   string          `gorm:"type:varchar(32);not null;default:'';index:idx_audit_employee_id" json:"employeeId"`
	Action       string          `gorm:"type:varchar(64);not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:varchar(64)" json:"ipAddress,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"userAgent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"requestId,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionHelperCreated      = "helper_created"
	AuditActionHelperUpdated      = "helper_updated"
	AuditActionHelperDeleted      = "helper_deleted"
	AuditActionSummaryWriteFailed = "summary_write_failed"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	EmployeeID *string
	Action     *string
	Success    *bool
	RequestID  *string
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}
