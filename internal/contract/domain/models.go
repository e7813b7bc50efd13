// Package domain contains persistence models for percentage-billing
// contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Contract is the reference value for percentage billing. Running totals of
// what has already been invoiced live here; once the total value is fully
// billed the contract goes inactive.
type Contract struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	ClientID snowflake.ID `gorm:"not null;index"`

	Description string  `gorm:"type:text"`
	TotalValue  float64 `gorm:"not null"`

	CumulativeBilledAmount     float64 `gorm:"not null;default:0"`
	CumulativeBilledPercentage float64 `gorm:"not null;default:0"`

	StartDate time.Time  `gorm:"not null"`
	EndDate   *time.Time `gorm:""`

	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Contract) TableName() string { return "contracts" }
