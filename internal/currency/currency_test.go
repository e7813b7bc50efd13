package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_BaseCurrencyPassThrough(t *testing.T) {
	c := NewConverter("COP")

	got, err := c.Convert(340000, "COP", 0)
	require.NoError(t, err)
	assert.Equal(t, 340000.0, got)

	// lowercase and padded codes normalize to the base
	got, err = c.Convert(100, " cop ", 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)
}

func TestConvert_DividesBaseByRate(t *testing.T) {
	c := NewConverter("COP")

	got, err := c.Convert(400000, "USD", 4000)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got, 1e-9)
}

func TestConvert_MissingRate(t *testing.T) {
	c := NewConverter("COP")

	_, err := c.Convert(1000, "USD", 0)
	assert.ErrorIs(t, err, ErrMissingExchangeRate)

	_, err = c.Convert(1000, "USD", -1)
	assert.ErrorIs(t, err, ErrMissingExchangeRate)
}

func TestConvert_NegativeAmount(t *testing.T) {
	c := NewConverter("COP")

	_, err := c.Convert(-1, "USD", 4000)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
