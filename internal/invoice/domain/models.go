// Package domain contains persistence models for issued invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
)

// Invoice is an immutable billing document. Once written it is never edited;
// corrections are issued as new invoices.
type Invoice struct {
	ID       snowflake.ID `gorm:"primaryKey"`
	TaskID   snowflake.ID `gorm:"not null;index"`
	ClientID snowflake.ID `gorm:"not null;index"`
	// ContractID is set only for percentage invoices billed against a
	// contract.
	ContractID *snowflake.ID `gorm:"index"`

	BillingModel taskdomain.BillingModel `gorm:"type:text;not null"`

	Currency string `gorm:"type:text;not null"`
	// ExchangeRate is the divisor applied to base-currency amounts; zero when
	// the invoice is in the base currency.
	ExchangeRate float64 `gorm:"not null;default:0"`

	PeriodStart *time.Time `gorm:""`
	PeriodEnd   *time.Time `gorm:""`

	Subtotal float64 `gorm:"not null"`
	Tax      float64 `gorm:"not null"`
	Total    float64 `gorm:"not null"`
	WithTax  bool    `gorm:"not null;default:false"`

	// ModelFields carries the per-model breakdown: total hours for hourly,
	// flat fee and overage for subscriptions, percentage and reference total
	// for percentage billing.
	ModelFields datatypes.JSONMap `gorm:"type:jsonb"`

	IssuedAt  time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is one priced line of an invoice, in the invoice currency.
type InvoiceItem struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	InvoiceID snowflake.ID `gorm:"not null;index"`

	// TimeEntryID links back to the consumed entry; zero for lines that do
	// not come from the ledger.
	TimeEntryID snowflake.ID `gorm:"index"`
	LawyerID    snowflake.ID `gorm:"index"`

	Description string  `gorm:"type:text"`
	Hours       float64 `gorm:"not null;default:0"`
	Rate        float64 `gorm:"not null;default:0"`
	Amount      float64 `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }
