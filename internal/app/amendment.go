package app

import "time"

type CreateAmendmentReviewRequest struct {
	ApplicationID     string
	OfficerID         string
	Reason            *string
	ResponseDeadline  time.Time
	BypassStatusCheck bool
}

type ApplicantResponseRequest struct {
	ApplicationID      string
	Agreed             bool
	DisagreementReason *string
}

// AmendedProperties lists the fields of one confirmed felling that differ
// from its originating proposal. Restocking is keyed by confirmed
// restocking id and only holds records with changes.
type AmendedProperties struct {
	ConfirmedFellingDetailID string
	ProposedFellingDetailID  *string
	Felling                  map[string]string
	Restocking               map[string]map[string]string
}

// HasChanges reports whether any felling or restocking field was amended.
func (a AmendedProperties) HasChanges() bool {
	return len(a.Felling) > 0 || len(a.Restocking) > 0
}
