package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// RateResolver returns a lawyer's hourly billing rate in the base currency.
// It is the only rate source the billing engine consults.
type RateResolver interface {
	HourlyRate(ctx context.Context, lawyerID snowflake.ID) (float64, error)
	// HourlyRates resolves a batch in one call; missing lawyers fail with
	// ErrNotFound.
	HourlyRates(ctx context.Context, lawyerIDs []snowflake.ID) (map[snowflake.ID]float64, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Lawyer, error)
	List(ctx context.Context) ([]*Lawyer, error)
	GetByID(ctx context.Context, id string) (*Lawyer, error)
	Update(ctx context.Context, req UpdateRequest) (*Lawyer, error)
}

type CreateRequest struct {
	Name        string  `json:"name"`
	HourlyRate  float64 `json:"hourly_rate"`
	CostPerHour float64 `json:"cost_per_hour"`
	Salary      float64 `json:"salary"`
	WeeklyHours float64 `json:"weekly_hours"`
}

type UpdateRequest struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty"`
	CostPerHour *float64 `json:"cost_per_hour,omitempty"`
	Salary      *float64 `json:"salary,omitempty"`
	WeeklyHours *float64 `json:"weekly_hours,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

var (
	ErrNotFound    = errors.New("lawyer_not_found")
	ErrInvalidID   = errors.New("invalid_lawyer_id")
	ErrInvalidName = errors.New("invalid_lawyer_name")
	ErrInvalidRate = errors.New("invalid_hourly_rate")
)
