// Package domain defines the management reporting surface: profitability,
// workload and client contribution aggregates derived from the time ledger.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Period is a half-open reporting window [From, To). A zero Period lets each
// report pick its natural default: calendar month for financial reports,
// calendar week for workload.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (p Period) IsZero() bool { return p.From.IsZero() && p.To.IsZero() }

// LawyerProfitability compares what a lawyer's booked hours earn against
// their salary for the period.
type LawyerProfitability struct {
	LawyerID    snowflake.ID `json:"lawyer_id"`
	Name        string       `json:"name"`
	WorkedHours float64      `json:"worked_hours"`
	Salary      float64      `json:"salary"`
	Revenue     float64      `json:"revenue"`
	Profit      float64      `json:"profit"`
}

// LawyerCostVsHours breaks profitability down to the hour: the firm's cost
// per hour against the rate charged to clients.
type LawyerCostVsHours struct {
	LawyerID          snowflake.ID `json:"lawyer_id"`
	Name              string       `json:"name"`
	Salary            float64      `json:"salary"`
	WorkedHours       float64      `json:"worked_hours"`
	CostPerHourFirm   float64      `json:"cost_per_hour_firm"`
	CostPerHourClient float64      `json:"cost_per_hour_client"`
	Revenue           float64      `json:"revenue"`
	ProfitPerHour     float64      `json:"profit_per_hour"`
}

// LawyerWorkload compares hours booked this week against the contracted
// weekly hours.
type LawyerWorkload struct {
	LawyerID      snowflake.ID `json:"lawyer_id"`
	Name          string       `json:"name"`
	WorkedHours   float64      `json:"worked_hours"`
	ExpectedHours float64      `json:"expected_hours"`
}

// Contribution is one lawyer's share of a client's booked hours.
type Contribution struct {
	LawyerID snowflake.ID `json:"lawyer_id"`
	Name     string       `json:"name"`
	Hours    float64      `json:"hours"`
	Percent  float64      `json:"percent"`
}

type ClientContribution struct {
	ClientID      snowflake.ID   `json:"client_id"`
	Name          string         `json:"name"`
	TotalHours    float64        `json:"total_hours"`
	Contributions []Contribution `json:"contributions"`
}

type TaskHours struct {
	TaskID snowflake.ID `json:"task_id"`
	Title  string       `json:"title"`
	Hours  float64      `json:"hours"`
}

type ClientHours struct {
	ClientID   snowflake.ID `json:"client_id"`
	Name       string       `json:"name"`
	TotalHours float64      `json:"total_hours"`
	Tasks      []TaskHours  `json:"tasks"`
}

// OfficeSummary is the firm-wide rollup for a period.
type OfficeSummary struct {
	TotalSalaries float64 `json:"total_salaries"`
	TotalHours    float64 `json:"total_hours"`
	TotalRevenue  float64 `json:"total_revenue"`
	Profit        float64 `json:"profit"`
}

type Service interface {
	LawyerProfitability(ctx context.Context, period Period) ([]*LawyerProfitability, error)
	LawyerCostVsHours(ctx context.Context, period Period) ([]*LawyerCostVsHours, error)
	LawyerWorkload(ctx context.Context) ([]*LawyerWorkload, error)
	ClientContributions(ctx context.Context, period Period) ([]*ClientContribution, error)
	HoursByClient(ctx context.Context, period Period) ([]*ClientHours, error)
	OfficeSummary(ctx context.Context, period Period) (*OfficeSummary, error)
}

var ErrInvalidPeriod = errors.New("invalid_report_period")
