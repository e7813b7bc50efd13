// Package domain contains persistence models for lawyers and their billing
// rates.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Lawyer holds the firm-side data the billing engine needs: the client-facing
// hourly rate (always in the base currency) plus the cost fields the
// profitability reports read.
type Lawyer struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null"`

	// HourlyRate is the rate billed to clients, in the base currency.
	HourlyRate float64 `gorm:"not null"`
	// CostPerHour is what an hour costs the firm.
	CostPerHour float64 `gorm:"not null;default:0"`
	Salary      float64 `gorm:"not null;default:0"`
	// WeeklyHours is the contracted weekly workload.
	WeeklyHours float64 `gorm:"not null;default:0"`

	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Lawyer) TableName() string { return "lawyers" }
