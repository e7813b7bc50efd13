package domain

// billedEpsilon absorbs float accumulation noise when comparing running
// totals against the contract ceiling.
const billedEpsilon = 1e-6

// ApplyBilling records an invoiced slice of the contract. It fails with
// ErrOverBilled when the request would push the running percentage past 100
// or the running amount past the total value, and deactivates the contract
// once it is fully billed. Callers persist the mutated fields inside the
// same transaction that writes the invoice.
func (c *Contract) ApplyBilling(amount, percentage float64) error {
	if !c.Active {
		return ErrInactive
	}
	if percentage <= 0 || amount < 0 {
		return ErrInvalidValue
	}
	if c.CumulativeBilledPercentage+percentage > 100+billedEpsilon {
		return ErrOverBilled
	}
	if c.CumulativeBilledAmount+amount > c.TotalValue+billedEpsilon {
		return ErrOverBilled
	}

	c.CumulativeBilledAmount += amount
	c.CumulativeBilledPercentage += percentage

	if c.CumulativeBilledPercentage >= 100-billedEpsilon ||
		c.CumulativeBilledAmount >= c.TotalValue-billedEpsilon {
		c.Active = false
	}
	return nil
}
