// Package domain contains persistence models for billable tasks.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BillingModel is the pricing strategy assigned to a task.
type BillingModel string

const (
	BillingModelHourly              BillingModel = "hourly"
	BillingModelFixedRate           BillingModel = "fixed_rate"
	BillingModelMonthlySubscription BillingModel = "monthly_subscription"
	BillingModelPercentage          BillingModel = "percentage"
)

// Task is the unit of billable work; it carries exactly one billing model.
type Task struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	ClientID snowflake.ID `gorm:"not null;index"`

	Title string `gorm:"type:text;not null"`
	Area  string `gorm:"type:text"`

	BillingModel BillingModel `gorm:"type:text;not null"`
	// Currency the task is invoiced in; empty means the base currency.
	Currency string `gorm:"type:text"`

	// FixedValue is the configured price for fixed_rate tasks and the
	// fallback reference total for percentage tasks without a contract.
	FixedValue float64 `gorm:"not null;default:0"`
	// SubscriptionFee is the flat monthly fee for subscription tasks.
	SubscriptionFee float64 `gorm:"not null;default:0"`
	// MonthlyLimitHours is the hour allowance the subscription fee covers;
	// zero means every hour is billable overage.
	MonthlyLimitHours float64 `gorm:"not null;default:0"`

	CumulativeBilledAmount     float64 `gorm:"not null;default:0"`
	CumulativeBilledPercentage float64 `gorm:"not null;default:0"`

	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Task) TableName() string { return "tasks" }
