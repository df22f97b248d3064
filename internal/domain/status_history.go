package domain

import (
	"errors"
	"sort"
	"time"
)

// ErrNoStatusHistory is returned when a calculation needs at least one
// status history entry and none exist.
var ErrNoStatusHistory = errors.New("application has no status history")

const day = 24 * time.Hour

// StatusHistory is one immutable entry in an application's status ledger.
// Seq records insertion order and breaks ties between equal Created values.
type StatusHistory struct {
	ID            string
	ApplicationID string
	Status        FellingLicenceStatus
	Created       time.Time
	CreatedByID   *string
	Seq           int
}

// StatusDuration is the whole number of days an application spent in a
// status, summed across every occurrence of that status.
type StatusDuration struct {
	Status FellingLicenceStatus
	Days   int
}

// SortStatusHistories returns a copy of entries ordered by Created, then Seq.
func SortStatusHistories(entries []StatusHistory) []StatusHistory {
	sorted := make([]StatusHistory, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Created.Equal(sorted[j].Created) {
			return sorted[i].Created.Before(sorted[j].Created)
		}
		return sorted[i].Seq < sorted[j].Seq
	})
	return sorted
}

// LatestStatus returns the most recent entry in the ledger.
func LatestStatus(entries []StatusHistory) (StatusHistory, bool) {
	if len(entries) == 0 {
		return StatusHistory{}, false
	}
	sorted := SortStatusHistories(entries)
	return sorted[len(sorted)-1], true
}

// WholeDays truncates an elapsed duration to completed 24 hour periods.
// Negative durations count as zero.
func WholeDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / day)
}

// CalculateStatusDurations derives the days spent in each status. Every entry
// spans until the next entry's Created time; the last entry spans until now.
// Results are ordered by the first occurrence of each status.
func CalculateStatusDurations(entries []StatusHistory, now time.Time) ([]StatusDuration, error) {
	if len(entries) == 0 {
		return nil, ErrNoStatusHistory
	}

	sorted := SortStatusHistories(entries)
	totals := make(map[FellingLicenceStatus]int, len(sorted))
	var order []FellingLicenceStatus

	for i, entry := range sorted {
		end := now
		if i < len(sorted)-1 {
			end = sorted[i+1].Created
		}
		if _, seen := totals[entry.Status]; !seen {
			order = append(order, entry.Status)
		}
		totals[entry.Status] += WholeDays(end.Sub(entry.Created))
	}

	durations := make([]StatusDuration, 0, len(order))
	for _, status := range order {
		durations = append(durations, StatusDuration{Status: status, Days: totals[status]})
	}
	return durations, nil
}

// DurationByStatus indexes durations by status for lookups.
func DurationByStatus(durations []StatusDuration) map[FellingLicenceStatus]int {
	m := make(map[FellingLicenceStatus]int, len(durations))
	for _, d := range durations {
		m[d.Status] = d.Days
	}
	return m
}
