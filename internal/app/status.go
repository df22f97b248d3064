package app

import (
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

type StatusDurationsResponse struct {
	ApplicationID string
	CurrentStatus domain.FellingLicenceStatus
	Durations     []domain.StatusDuration
	CalculatedAt  time.Time
}

// TotalDays sums the whole days across every status.
func (r StatusDurationsResponse) TotalDays() int {
	total := 0
	for _, d := range r.Durations {
		total += d.Days
	}
	return total
}

type AddStatusRequest struct {
	ApplicationID string
	ActorID       *string
	Status        domain.FellingLicenceStatus
}
