package models

import "time"

// EmployeeSequenceName is the counter that backs employee identifiers.
const EmployeeSequenceName = "employee"

// SequenceCounter stores the last value handed out for a named monotonic counter.
// Rows are created lazily by the first allocation and never deleted.
type SequenceCounter struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (SequenceCounter) TableName() string { return "sequence_counters" }
