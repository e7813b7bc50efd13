package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Client, error)
	List(ctx context.Context) ([]*Client, error)
	GetByID(ctx context.Context, id string) (*Client, error)
	// Deactivate marks the client inactive and removes its tasks together
	// with their time entries.
	Deactivate(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name      string `json:"name"`
	NIT       string `json:"nit"`
	Email     string `json:"email"`
	City      string `json:"city"`
	Permanent bool   `json:"permanent"`
}

var (
	ErrNotFound      = errors.New("client_not_found")
	ErrInvalidID     = errors.New("invalid_client_id")
	ErrInvalidName   = errors.New("invalid_client_name")
	ErrAlreadyExists = errors.New("client_already_exists")
)
