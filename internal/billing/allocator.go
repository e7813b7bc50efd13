package billing

import (
	"errors"
	"sort"

	tedomain "github.com/praxisjuris/praxis/internal/timeentry/domain"
)

// ErrNegativeLimit is returned when a subscription allowance is below zero.
var ErrNegativeLimit = errors.New("negative_hour_limit")

const hoursEpsilon = 1e-9

// AllocateOverage walks a period's entries in chronological order and splits
// them against the monthly hour allowance. The entry that crosses the
// allowance boundary is split in two: the hours up to the limit stay covered,
// the remainder becomes an overage fragment attributed to the same lawyer.
// Every entry after the boundary is entirely overage.
//
// Covered hours plus overage hours always equal the sum of the entry
// durations.
func AllocateOverage(entries []*tedomain.TimeEntry, limitHours float64) (Allocation, error) {
	if limitHours < 0 {
		return Allocation{}, ErrNegativeLimit
	}

	sorted := make([]*tedomain.TimeEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var alloc Allocation
	consumed := 0.0
	for _, entry := range sorted {
		d := entry.Duration
		if d <= 0 {
			continue
		}

		remaining := limitHours - consumed
		switch {
		case remaining >= d-hoursEpsilon:
			// Fully covered.
			consumed += d
			alloc.CoveredHours += d
		case remaining > hoursEpsilon:
			// Boundary entry: covered up to the limit, the rest billable.
			over := d - remaining
			alloc.CoveredHours += remaining
			alloc.OverageHours += over
			alloc.Fragments = append(alloc.Fragments, OverageFragment{
				EntryID:  entry.ID,
				LawyerID: entry.LawyerID,
				Hours:    over,
				Partial:  true,
			})
			consumed = limitHours
		default:
			// Allowance exhausted, entry is entirely overage.
			alloc.OverageHours += d
			alloc.Fragments = append(alloc.Fragments, OverageFragment{
				EntryID:  entry.ID,
				LawyerID: entry.LawyerID,
				Hours:    d,
			})
		}
	}
	return alloc, nil
}
