package billing

import (
	"errors"
	"fmt"

	"github.com/praxisjuris/praxis/internal/currency"
	taskdomain "github.com/praxisjuris/praxis/internal/task/domain"
	tedomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
)

var (
	// ErrMissingRate is returned when a priced entry references a lawyer the
	// rate resolver did not supply.
	ErrMissingRate = errors.New("missing_hourly_rate")
	// ErrInvalidPercentage is returned for percentage requests outside (0, 100].
	ErrInvalidPercentage = errors.New("invalid_percentage")
	// ErrNoReferenceTotal is returned when a percentage task has neither a
	// contract nor a configured fixed value to take the percentage of.
	ErrNoReferenceTotal = errors.New("missing_reference_total")
)

// PriceParams are the knobs shared by every pricer: billing currency,
// exchange rate quoted against the base currency, and tax treatment.
type PriceParams struct {
	Converter currency.Converter
	Currency  currency.Code
	// ExchangeRate divides base-currency amounts into Currency. Ignored when
	// Currency is the base currency.
	ExchangeRate float64
	TaxRate      float64
	WithTax      bool
}

func (p PriceParams) convert(amount float64) (float64, error) {
	return p.Converter.Convert(amount, p.Currency, p.ExchangeRate)
}

func (p PriceParams) billingCurrency() currency.Code {
	c := currency.Normalize(string(p.Currency))
	if c == "" {
		return p.Converter.Base()
	}
	return c
}

// PriceHourly charges every given entry at its lawyer's hourly rate. All
// entries are consumed: the caller marks each one billed once the invoice is
// issued.
func PriceHourly(entries []*tedomain.TimeEntry, rates Rates, p PriceParams) (*Quote, error) {
	q := &Quote{
		Model:    taskdomain.BillingModelHourly,
		Currency: p.billingCurrency(),
	}
	for _, entry := range entries {
		if entry.Duration <= 0 {
			continue
		}
		rate, ok := rates[entry.LawyerID]
		if !ok || rate <= 0 {
			return nil, fmt.Errorf("%w: lawyer %s", ErrMissingRate, entry.LawyerID)
		}
		amount, err := p.convert(entry.Duration * rate)
		if err != nil {
			return nil, err
		}
		lineRate, err := p.convert(rate)
		if err != nil {
			return nil, err
		}
		q.Lines = append(q.Lines, Line{
			EntryID:     entry.ID,
			LawyerID:    entry.LawyerID,
			Description: entry.Description,
			Hours:       entry.Duration,
			Rate:        lineRate,
			Amount:      round2(amount),
		})
		q.TotalHours += entry.Duration
		q.Subtotal += amount
		q.BilledEntryIDs = append(q.BilledEntryIDs, entry.ID)
	}
	q.Subtotal = round2(q.Subtotal)
	q.Tax, q.Total = applyTax(q.Subtotal, p.TaxRate, p.WithTax)
	return q, nil
}

// PriceFixed charges the task's configured fixed value. Time entries are
// informational under this model and are never consumed.
func PriceFixed(task *taskdomain.Task, p PriceParams) (*Quote, error) {
	subtotal, err := p.convert(task.FixedValue)
	if err != nil {
		return nil, err
	}
	q := &Quote{
		Model:    taskdomain.BillingModelFixedRate,
		Currency: p.billingCurrency(),
		Subtotal: round2(subtotal),
	}
	q.Tax, q.Total = applyTax(q.Subtotal, p.TaxRate, p.WithTax)
	return q, nil
}

// PriceSubscription charges the flat monthly fee plus any hours beyond the
// allowance, allocated chronologically by AllocateOverage. Only entries that
// contributed overage are consumed; the boundary entry is consumed partially.
func PriceSubscription(task *taskdomain.Task, entries []*tedomain.TimeEntry, rates Rates, p PriceParams) (*Quote, error) {
	alloc, err := AllocateOverage(entries, task.MonthlyLimitHours)
	if err != nil {
		return nil, err
	}

	flat, err := p.convert(task.SubscriptionFee)
	if err != nil {
		return nil, err
	}
	q := &Quote{
		Model:        taskdomain.BillingModelMonthlySubscription,
		Currency:     p.billingCurrency(),
		FlatFee:      round2(flat),
		CoveredHours: alloc.CoveredHours,
		OverageHours: alloc.OverageHours,
	}

	var overage float64
	for _, frag := range alloc.Fragments {
		rate, ok := rates[frag.LawyerID]
		if !ok || rate <= 0 {
			return nil, fmt.Errorf("%w: lawyer %s", ErrMissingRate, frag.LawyerID)
		}
		amount, err := p.convert(frag.Hours * rate)
		if err != nil {
			return nil, err
		}
		lineRate, err := p.convert(rate)
		if err != nil {
			return nil, err
		}
		q.Lines = append(q.Lines, Line{
			EntryID:     frag.EntryID,
			LawyerID:    frag.LawyerID,
			Description: "overage hours",
			Hours:       frag.Hours,
			Rate:        lineRate,
			Amount:      round2(amount),
		})
		overage += amount
		if frag.Partial {
			q.PartialEntryIDs = append(q.PartialEntryIDs, frag.EntryID)
		} else {
			q.BilledEntryIDs = append(q.BilledEntryIDs, frag.EntryID)
		}
	}
	q.OverageCharge = round2(overage)
	q.Subtotal = round2(q.FlatFee + q.OverageCharge)
	q.Tax, q.Total = applyTax(q.Subtotal, p.TaxRate, p.WithTax)
	return q, nil
}

// PricePercentage charges pct percent of the reference total. The caller is
// responsible for enforcing the contract's running-total invariant before
// persisting.
func PricePercentage(pct, referenceTotal float64, p PriceParams) (*Quote, error) {
	if pct <= 0 || pct > 100 {
		return nil, ErrInvalidPercentage
	}
	if referenceTotal <= 0 {
		return nil, ErrNoReferenceTotal
	}
	subtotal, err := p.convert(referenceTotal * pct / 100)
	if err != nil {
		return nil, err
	}
	q := &Quote{
		Model:          taskdomain.BillingModelPercentage,
		Currency:       p.billingCurrency(),
		Percentage:     pct,
		ReferenceTotal: referenceTotal,
		Subtotal:       round2(subtotal),
	}
	q.Tax, q.Total = applyTax(q.Subtotal, p.TaxRate, p.WithTax)
	return q, nil
}
