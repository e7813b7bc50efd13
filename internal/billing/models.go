// Package billing holds the pure pricing core: the billing model dispatch,
// the monthly overage allocator and the per-model pricers. Nothing in this
// package touches storage; the invoice service owns all side effects.
package billing

import (
	"math"

	"github.com/bwmarrin/snowflake"
	"github.com/praxisjuris/praxis/internal/currency"
	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
)

// Rates maps a lawyer to their hourly rate in the base currency.
type Rates map[snowflake.ID]float64

// OverageFragment is the billable-overage share of one time entry.
type OverageFragment struct {
	EntryID  snowflake.ID
	LawyerID snowflake.ID
	Hours    float64
	// Partial marks a boundary-split entry: part covered, part overage.
	Partial bool
}

// Allocation is the outcome of splitting one period's entries against the
// subscription hour allowance.
type Allocation struct {
	CoveredHours float64
	OverageHours float64
	Fragments    []OverageFragment
}

// Line is one priced row of a quote, already in the billing currency.
type Line struct {
	EntryID     snowflake.ID
	LawyerID    snowflake.ID
	Description string
	Hours       float64
	Rate        float64
	Amount      float64
}

// Quote is a fully priced billing document before any side effect. Amounts
// are in the requested billing currency.
type Quote struct {
	Model    taskdomain.BillingModel
	Currency currency.Code

	Subtotal float64
	Tax      float64
	Total    float64

	Lines []Line

	// Hourly
	TotalHours float64

	// MonthlySubscription
	FlatFee       float64
	OverageCharge float64
	CoveredHours  float64
	OverageHours  float64

	// Percentage
	Percentage     float64
	ReferenceTotal float64

	// Entries the invoice service must mark billed / partially billed.
	BilledEntryIDs  []snowflake.ID
	PartialEntryIDs []snowflake.ID
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// applyTax computes tax and total on a subtotal. Tax is zero when not
// requested.
func applyTax(subtotal, taxRate float64, withTax bool) (tax, total float64) {
	if withTax {
		tax = round2(subtotal * taxRate)
	}
	return tax, round2(subtotal + tax)
}
