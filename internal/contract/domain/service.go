package domain

import (
	"context"
	"errors"
	"time"
)

type CreateRequest struct {
	ClientID    string     `json:"client_id"`
	Description string     `json:"description"`
	TotalValue  float64    `json:"total_value"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type UpdateRequest struct {
	ID          string     `json:"id"`
	Description *string    `json:"description,omitempty"`
	TotalValue  *float64   `json:"total_value,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Contract, error)
	ListByClient(ctx context.Context, clientID string) ([]*Contract, error)
	GetByID(ctx context.Context, id string) (*Contract, error)
	Update(ctx context.Context, req UpdateRequest) (*Contract, error)
}

var (
	ErrNotFound     = errors.New("contract_not_found")
	ErrInvalidID    = errors.New("invalid_contract_id")
	ErrInvalidValue = errors.New("invalid_total_value")
	ErrOverBilled   = errors.New("over_billed")
	ErrInactive     = errors.New("contract_inactive")
)
