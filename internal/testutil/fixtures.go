package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/google/uuid"
)

// Now is the fixed reference instant used by fixtures and fake clocks.
var Now = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

var testReferenceCounter atomic.Int64

// DaysAgo returns Now shifted back by n days.
func DaysAgo(n int) time.Time {
	return Now.AddDate(0, 0, -n)
}

// DaysAhead returns Now shifted forward by n days.
func DaysAhead(n int) time.Time {
	return Now.AddDate(0, 0, n)
}

// Application options
type ApplicationOption func(*domain.FellingLicenceApplication)

func WithWoodlandOwner(id string) ApplicationOption {
	return func(a *domain.FellingLicenceApplication) {
		a.WoodlandOwnerID = id
	}
}

func WithFinalActionDate(d time.Time) ApplicationOption {
	return func(a *domain.FellingLicenceApplication) {
		a.FinalActionDate = &d
	}
}

func WithAlreadyExtended(length time.Duration) ApplicationOption {
	return func(a *domain.FellingLicenceApplication) {
		a.FinalActionDateExtended = true
		a.ExtensionLength = &length
	}
}

func WithReference(ref string) ApplicationOption {
	return func(a *domain.FellingLicenceApplication) {
		a.ApplicationReference = ref
	}
}

func NewTestApplication(opts ...ApplicationOption) *domain.FellingLicenceApplication {
	n := testReferenceCounter.Add(1)
	a := &domain.FellingLicenceApplication{
		ID:                   uuid.New().String(),
		ApplicationReference: fmt.Sprintf("TEST/%03d/2025", n),
		WoodlandOwnerID:      "owner-1",
		CreatedByID:          "applicant-1",
		CreatedAt:            DaysAgo(30),
		UpdatedAt:            DaysAgo(30),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func NewTestStatusHistory(applicationID string, status domain.FellingLicenceStatus, created time.Time) *domain.StatusHistory {
	return &domain.StatusHistory{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		Status:        status,
		Created:       created,
	}
}

// Assignee options
type AssigneeOption func(*domain.AssigneeHistory)

func WithAssignedAt(t time.Time) AssigneeOption {
	return func(h *domain.AssigneeHistory) {
		h.TimestampAssigned = t
	}
}

func WithUnassignedAt(t time.Time) AssigneeOption {
	return func(h *domain.AssigneeHistory) {
		h.TimestampUnassigned = &t
	}
}

func NewTestAssignee(applicationID, userID string, role domain.AssignedUserRole, opts ...AssigneeOption) *domain.AssigneeHistory {
	h := &domain.AssigneeHistory{
		ID:                uuid.New().String(),
		ApplicationID:     applicationID,
		AssignedUserID:    userID,
		Role:              role,
		TimestampAssigned: DaysAgo(20),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func NewTestWoodlandOfficerReview(applicationID string) *domain.WoodlandOfficerReview {
	return &domain.WoodlandOfficerReview{
		ID:              uuid.New().String(),
		ApplicationID:   applicationID,
		LastUpdatedByID: "officer-1",
		LastUpdatedDate: DaysAgo(10),
	}
}

// AmendmentReview options
type AmendmentReviewOption func(*domain.FellingAndRestockingAmendmentReview)

func WithReminderSent(t time.Time) AmendmentReviewOption {
	return func(r *domain.FellingAndRestockingAmendmentReview) {
		r.ReminderNotificationSentDate = &t
	}
}

func WithCompleted() AmendmentReviewOption {
	return func(r *domain.FellingAndRestockingAmendmentReview) {
		completed := true
		r.AmendmentReviewCompleted = &completed
	}
}

func WithResponse(userID string, agreed bool, at time.Time) AmendmentReviewOption {
	return func(r *domain.FellingAndRestockingAmendmentReview) {
		r.RespondingUserID = &userID
		r.ApplicantAgreed = &agreed
		r.ResponseReceivedDate = &at
		if !agreed {
			reason := "not acceptable"
			r.ApplicantDisagreementReason = &reason
		}
	}
}

func NewTestAmendmentReview(reviewID string, sent, deadline time.Time, opts ...AmendmentReviewOption) *domain.FellingAndRestockingAmendmentReview {
	reason := "reduced felling area"
	r := &domain.FellingAndRestockingAmendmentReview{
		ID:                        uuid.New().String(),
		WoodlandOfficerReviewID:   reviewID,
		AmendingWoodlandOfficerID: "officer-1",
		AmendmentsSentDate:        sent,
		AmendmentsReason:          &reason,
		ResponseDeadline:          deadline,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewTestPropertyTrees builds a linked proposal with one felling record on
// compartment "cpt-1" restocking onto "cpt-2", and the matching submitted
// profile with both compartments.
func NewTestPropertyTrees(applicationID string) (*domain.LinkedPropertyProfile, *domain.SubmittedPropertyProfile) {
	trees := 80
	tpoRef := "TPO/12"
	restocking := true
	density := 1600.0
	profileID := uuid.New().String()
	fellingID := uuid.New().String()

	linked := &domain.LinkedPropertyProfile{
		ID:                profileID,
		ApplicationID:     applicationID,
		PropertyProfileID: "pp-1",
		ProposedFellingDetails: []domain.ProposedFellingDetail{{
			ID:                             fellingID,
			LinkedPropertyProfileID:        profileID,
			PropertyProfileCompartmentID:   "cpt-1",
			OperationType:                  domain.OperationClearFelling,
			AreaToBeFelled:                 2.5,
			NumberOfTrees:                  &trees,
			IsPartOfTreePreservationOrder:  true,
			TreePreservationOrderReference: &tpoRef,
			EstimatedTotalFellingVolume:    140,
			IsRestocking:                   &restocking,
			FellingSpecies: []domain.FellingSpecies{
				{ID: uuid.New().String(), Species: "SP"},
				{ID: uuid.New().String(), Species: "OK"},
			},
			ProposedRestockingDetails: []domain.ProposedRestockingDetail{{
				ID:                           uuid.New().String(),
				ProposedFellingDetailID:      fellingID,
				PropertyProfileCompartmentID: "cpt-2",
				RestockingProposal:           domain.RestockingPlantAnAlternativeArea,
				Area:                         2,
				RestockingDensity:            &density,
				RestockingSpecies: []domain.RestockingSpecies{
					{ID: uuid.New().String(), Species: "OK", Percentage: 70},
					{ID: uuid.New().String(), Species: "BI", Percentage: 30},
				},
			}},
		}},
	}

	submittedID := uuid.New().String()
	submitted := &domain.SubmittedPropertyProfile{
		ID:            submittedID,
		ApplicationID: applicationID,
		Compartments: []domain.SubmittedCompartment{
			{ID: uuid.New().String(), SubmittedPropertyProfileID: submittedID, CompartmentID: "cpt-1", CompartmentNumber: "1"},
			{ID: uuid.New().String(), SubmittedPropertyProfileID: submittedID, CompartmentID: "cpt-2", CompartmentNumber: "2"},
		},
	}
	return linked, submitted
}

// FcUser returns an internal caller.
func FcUser(userID string) domain.UserAccessModel {
	return domain.UserAccessModel{UserID: userID, AccountType: domain.AccountFcUser}
}

// ExternalUser returns an applicant-side caller scoped to the given owners.
func ExternalUser(userID string, woodlandOwnerIDs ...string) domain.UserAccessModel {
	return domain.UserAccessModel{UserID: userID, AccountType: domain.AccountExternal, WoodlandOwnerIDs: woodlandOwnerIDs}
}
