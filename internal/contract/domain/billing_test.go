package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBilling_AccumulatesRunningTotals(t *testing.T) {
	c := &Contract{TotalValue: 10000000, Active: true}

	require.NoError(t, c.ApplyBilling(3000000, 30))
	assert.InDelta(t, 3000000.0, c.CumulativeBilledAmount, 1e-6)
	assert.InDelta(t, 30.0, c.CumulativeBilledPercentage, 1e-9)
	assert.True(t, c.Active)
}

func TestApplyBilling_RejectsOverBilling(t *testing.T) {
	c := &Contract{TotalValue: 10000000, Active: true}
	require.NoError(t, c.ApplyBilling(3000000, 30))

	err := c.ApplyBilling(8000000, 80)
	assert.ErrorIs(t, err, ErrOverBilled)

	// A rejected request must not touch the running totals.
	assert.InDelta(t, 3000000.0, c.CumulativeBilledAmount, 1e-6)
	assert.InDelta(t, 30.0, c.CumulativeBilledPercentage, 1e-9)
}

func TestApplyBilling_DeactivatesWhenFullyBilled(t *testing.T) {
	c := &Contract{TotalValue: 10000000, Active: true}

	require.NoError(t, c.ApplyBilling(3000000, 30))
	require.NoError(t, c.ApplyBilling(7000000, 70))
	assert.False(t, c.Active)

	assert.ErrorIs(t, c.ApplyBilling(1, 1), ErrInactive)
}

func TestApplyBilling_FloatAccumulationReachesExactly100(t *testing.T) {
	c := &Contract{TotalValue: 9000000, Active: true}

	// Ten times 10% must land on 100 despite float noise.
	for i := 0; i < 10; i++ {
		require.NoError(t, c.ApplyBilling(900000, 10))
	}
	assert.False(t, c.Active)
}

func TestApplyBilling_RejectsInvalidInput(t *testing.T) {
	c := &Contract{TotalValue: 10000000, Active: true}

	assert.ErrorIs(t, c.ApplyBilling(100, 0), ErrInvalidValue)
	assert.ErrorIs(t, c.ApplyBilling(-1, 10), ErrInvalidValue)
}
