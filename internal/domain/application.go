package domain

import "time"

// FellingLicenceApplication is the aggregate root. Its status is derived
// from StatusHistories rather than stored.
type FellingLicenceApplication struct {
	ID                      string
	ApplicationReference    string
	WoodlandOwnerID         string
	CreatedByID             string
	FinalActionDate         *time.Time
	FinalActionDateExtended bool
	ExtensionLength         *time.Duration
	CreatedAt               time.Time
	UpdatedAt               time.Time

	StatusHistories          []StatusHistory
	AssigneeHistories        []AssigneeHistory
	WoodlandOfficerReview    *WoodlandOfficerReview
	LinkedPropertyProfile    *LinkedPropertyProfile
	SubmittedPropertyProfile *SubmittedPropertyProfile
}

// CurrentStatus returns the status of the latest ledger entry. An
// application with no entries has not left Draft.
func (a *FellingLicenceApplication) CurrentStatus() FellingLicenceStatus {
	latest, ok := LatestStatus(a.StatusHistories)
	if !ok {
		return StatusDraft
	}
	return latest.Status
}

// ReextensionPolicy decides what happens when the extension job meets an
// application whose final action date was already extended.
type ReextensionPolicy string

const (
	ReapplyExtension    ReextensionPolicy = "reapply"
	SkipAlreadyExtended ReextensionPolicy = "skip"
)

// ValidReextensionPolicies lists accepted policy values.
var ValidReextensionPolicies = map[ReextensionPolicy]bool{
	ReapplyExtension:    true,
	SkipAlreadyExtended: true,
}

// ExtendFinalActionDate pushes the final action date out by length and
// records the extension. It reports false when nothing changed.
func (a *FellingLicenceApplication) ExtendFinalActionDate(length time.Duration, policy ReextensionPolicy, now time.Time) bool {
	if a.FinalActionDate == nil {
		return false
	}
	if a.FinalActionDateExtended && policy == SkipAlreadyExtended {
		return false
	}
	extended := a.FinalActionDate.Add(length)
	a.FinalActionDate = &extended
	a.ExtensionLength = &length
	a.FinalActionDateExtended = true
	a.UpdatedAt = now
	return true
}
