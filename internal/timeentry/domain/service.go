package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	TaskID      string    `json:"task_id"`
	LawyerID    string    `json:"lawyer_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Description string    `json:"description"`
}

// CreateByDurationRequest registers work as start + N hours.
type CreateByDurationRequest struct {
	TaskID      string    `json:"task_id"`
	LawyerID    string    `json:"lawyer_id"`
	StartTime   time.Time `json:"start_time"`
	Hours       float64   `json:"hours"`
	Description string    `json:"description"`
}

// UpdateRequest changes only the supplied fields. When either endpoint of
// the interval changes, duration is recomputed from the final pair.
type UpdateRequest struct {
	ID          string     `json:"id"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Description *string    `json:"description,omitempty"`
}

type ListRequest struct {
	TaskID      string    `json:"task_id"`
	LawyerID    string    `json:"lawyer_id"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

// Ledger owns time entry lifecycle. Billed state is never mutated here;
// that belongs to the invoice service.
type Ledger interface {
	Create(ctx context.Context, req CreateRequest) (*TimeEntry, error)
	CreateByDuration(ctx context.Context, req CreateByDurationRequest) (*TimeEntry, error)
	Update(ctx context.Context, req UpdateRequest) (*TimeEntry, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*TimeEntry, error)
	List(ctx context.Context, req ListRequest) ([]*TimeEntry, error)
	// CascadeDeleteByTask removes every entry of a task being deactivated.
	// Entries are not re-validated individually.
	CascadeDeleteByTask(ctx context.Context, taskID snowflake.ID) error
}

var (
	ErrInvalidInterval = errors.New("invalid_interval")
	ErrInvalidDuration = errors.New("invalid_duration")
	ErrNotFound        = errors.New("time_entry_not_found")
	ErrInvalidID       = errors.New("invalid_time_entry_id")
	ErrInvalidTask     = errors.New("invalid_task")
	ErrInvalidLawyer   = errors.New("invalid_lawyer")
	// ErrEntryBilled rejects deletion of an entry already consumed by an
	// issued invoice.
	ErrEntryBilled = errors.New("time_entry_billed")
)
