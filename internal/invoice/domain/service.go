package domain

import (
	"context"
	"errors"
	"time"

	"github.com/praxisjuris/praxis/pkg/db/pagination"
)

// GenerateRequest asks the billing engine to issue one invoice for a task.
// The task's billing model decides which fields matter.
type GenerateRequest struct {
	TaskID string `json:"task_id"`

	// Currency overrides the task's billing currency when set.
	Currency string `json:"currency"`
	// ExchangeRate divides base-currency amounts into Currency. Required
	// whenever the billing currency differs from the base.
	ExchangeRate float64 `json:"exchange_rate"`
	WithTax      bool    `json:"with_tax"`

	// PeriodStart and PeriodEnd bound the entries consumed by hourly and
	// subscription invoices. When both are zero the subscription model
	// defaults to the current calendar month.
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	// Percentage is the slice of the reference total to bill now; used only
	// by the percentage model.
	Percentage float64 `json:"percentage"`
	// ContractID selects the contract whose total value anchors a
	// percentage invoice. Without it the task's fixed value is the anchor.
	ContractID string `json:"contract_id"`
}

type ListRequest struct {
	TaskID   string    `json:"task_id"`
	ClientID string    `json:"client_id"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	pagination.Pagination
}

type ListResponse struct {
	Invoices []*Invoice `json:"invoices"`
	pagination.PageInfo
}

// Service issues and reads invoices. Generation is serialized per task: a
// second request for a task with an invoice in flight fails with ErrLocked
// rather than waiting.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*Invoice, error)
	GetByID(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	ListItems(ctx context.Context, invoiceID string) ([]*InvoiceItem, error)
}

var (
	ErrNotFound      = errors.New("invoice_not_found")
	ErrInvalidID     = errors.New("invalid_invoice_id")
	ErrInvalidPeriod = errors.New("invalid_billing_period")
	ErrTaskInactive  = errors.New("task_inactive")
	ErrNothingToBill = errors.New("nothing_to_bill")
	ErrLocked        = errors.New("invoice_in_progress")
	// ErrExternalService wraps data-store failures that survived the retry
	// budget.
	ErrExternalService = errors.New("external_service_unavailable")
)
