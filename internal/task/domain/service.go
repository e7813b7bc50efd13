package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	ClientID          string       `json:"client_id"`
	Title             string       `json:"title"`
	Area              string       `json:"area"`
	BillingModel      BillingModel `json:"billing_model"`
	Currency          string       `json:"currency"`
	FixedValue        float64      `json:"fixed_value"`
	SubscriptionFee   float64      `json:"subscription_fee"`
	MonthlyLimitHours float64      `json:"monthly_limit_hours"`
}

type UpdateRequest struct {
	ID                string   `json:"id"`
	Title             *string  `json:"title,omitempty"`
	Area              *string  `json:"area,omitempty"`
	FixedValue        *float64 `json:"fixed_value,omitempty"`
	SubscriptionFee   *float64 `json:"subscription_fee,omitempty"`
	MonthlyLimitHours *float64 `json:"monthly_limit_hours,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Task, error)
	List(ctx context.Context, clientID string) ([]*Task, error)
	GetByID(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, req UpdateRequest) (*Task, error)
	// Delete deactivates the task and cascades deletion of its time
	// entries.
	Delete(ctx context.Context, id string) error
	DeactivateByClient(ctx context.Context, clientID snowflake.ID) error
}

var (
	ErrNotFound            = errors.New("task_not_found")
	ErrInvalidID           = errors.New("invalid_task_id")
	ErrInvalidClient       = errors.New("invalid_client_id")
	ErrInvalidTitle        = errors.New("invalid_task_title")
	ErrUnknownBillingModel = errors.New("unknown_billing_model")
	ErrInvalidLimit        = errors.New("invalid_monthly_limit_hours")
)

// ParseBillingModel maps raw input to a known billing model; it never
// defaults silently.
func ParseBillingModel(raw string) (BillingModel, error) {
	switch BillingModel(strings.ToLower(strings.TrimSpace(raw))) {
	case BillingModelHourly:
		return BillingModelHourly, nil
	case BillingModelFixedRate:
		return BillingModelFixedRate, nil
	case BillingModelMonthlySubscription:
		return BillingModelMonthlySubscription, nil
	case BillingModelPercentage:
		return BillingModelPercentage, nil
	default:
		return "", ErrUnknownBillingModel
	}
}
