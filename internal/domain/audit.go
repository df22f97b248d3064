package domain

import "time"

type AuditEventName string

const (
	AuditStatusAdded                  AuditEventName = "StatusAdded"
	AuditAmendmentReviewCreated       AuditEventName = "AmendmentReviewCreated"
	AuditAmendmentResponseReceived    AuditEventName = "AmendmentResponseReceived"
	AuditAmendmentReviewCompleted     AuditEventName = "AmendmentReviewCompleted"
	AuditAmendmentReminderSent        AuditEventName = "AmendmentReminderSent"
	AuditLateAmendmentWithdrawn       AuditEventName = "LateAmendmentWithdrawn"
	AuditConvertedProposedToConfirmed AuditEventName = "ConvertedProposedToConfirmed"
	AuditConfirmedFellingUpdated      AuditEventName = "ConfirmedFellingUpdated"
	AuditConfirmedFellingReverted     AuditEventName = "ConfirmedFellingReverted"
	AuditFinalActionDateExtended      AuditEventName = "FinalActionDateExtended"
)

type AuditSource string

const (
	SourceInternalUser      AuditSource = "InternalFcUser"
	SourceExternalApplicant AuditSource = "ExternalApplicant"
	SourceSystem            AuditSource = "System"
)

// SourceFor picks the audit source for a caller.
func SourceFor(user UserAccessModel) AuditSource {
	if user.IsFcUser() {
		return SourceInternalUser
	}
	return SourceExternalApplicant
}

// AuditEvent records a lifecycle action. ActorID is empty for system jobs.
type AuditEvent struct {
	ID            string
	ApplicationID string
	ActorID       string
	Name          AuditEventName
	Source        AuditSource
	OccurredAt    time.Time
	Detail        map[string]string
}
