// Package domain contains persistence models for the time entry ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BilledState tracks whether an entry was consumed by an issued invoice.
type BilledState string

const (
	BilledStateUnbilled        BilledState = "unbilled"
	BilledStateBilled          BilledState = "billed"
	BilledStatePartiallyBilled BilledState = "partially_billed"
)

// TimeEntry records work performed on a task by one lawyer. Start and end
// are stored in the practice timezone; Duration is derived and always
// strictly positive.
type TimeEntry struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TaskID   snowflake.ID `gorm:"not null;index"`
	LawyerID snowflake.ID `gorm:"not null;index"`

	StartTime time.Time `gorm:"not null;index"`
	EndTime   time.Time `gorm:"not null"`
	// Duration is (end - start) in hours.
	Duration    float64 `gorm:"not null"`
	Description string  `gorm:"type:text"`

	BilledState BilledState `gorm:"type:text;not null;default:'unbilled'"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (TimeEntry) TableName() string { return "time_entries" }
