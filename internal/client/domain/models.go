// Package domain contains persistence models for firm clients.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Client is the billed party. Only the fields the billing engine consumes
// live here; contact data stays opaque to the engine.
type Client struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Name string       `gorm:"type:text;not null;uniqueIndex"`

	NIT   string `gorm:"type:text"`
	Email string `gorm:"type:text"`
	City  string `gorm:"type:text"`

	// Permanent marks retainer clients (monthly subscription candidates).
	Permanent bool `gorm:"not null;default:false"`
	Active    bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }
