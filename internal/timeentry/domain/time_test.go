package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp_ZoneNaiveReadsInPracticeZone(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	got, err := ParseTimestamp("2025-03-03T09:30:00", bogota)
	require.NoError(t, err)

	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, bogota, got.Location())
}

func TestParseTimestamp_ZoneQualifiedKeepsInstant(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	got, err := ParseTimestamp("2025-03-03T09:30:00Z", bogota)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC), got.UTC())

	got, err = ParseTimestamp("2025-03-03T09:30:00-05:00", bogota)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 3, 14, 30, 0, 0, time.UTC), got.UTC())
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := ParseTimestamp("03/03/2025", time.UTC)
	assert.Error(t, err)
}

func TestDurationHours(t *testing.T) {
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	assert.InDelta(t, 1.5, DurationHours(start, start.Add(90*time.Minute)), 1e-9)
	assert.InDelta(t, 0.25, DurationHours(start, start.Add(15*time.Minute)), 1e-9)
}
