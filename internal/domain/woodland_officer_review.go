package domain

import (
	"fmt"
	"strings"
	"time"
)

// WoodlandOfficerReview holds the woodland officer's progress on an
// application. There is at most one per application.
type WoodlandOfficerReview struct {
	ID                                    string
	ApplicationID                         string
	ConfirmedFellingAndRestockingComplete bool
	SiteVisitComplete                     bool
	ConditionsComplete                    bool
	LastUpdatedByID                       string
	LastUpdatedDate                       time.Time

	AmendmentReviews []FellingAndRestockingAmendmentReview
}

// FellingAndRestockingAmendmentReview is a single round of the officer
// asking the applicant to accept amendments to confirmed felling and
// restocking, with a response deadline.
type FellingAndRestockingAmendmentReview struct {
	ID                           string
	WoodlandOfficerReviewID      string
	AmendingWoodlandOfficerID    string
	AmendmentsSentDate           time.Time
	AmendmentsReason             *string
	ResponseDeadline             time.Time
	ReminderNotificationSentDate *time.Time
	RespondingUserID             *string
	ResponseReceivedDate         *time.Time
	ApplicantAgreed              *bool
	ApplicantDisagreementReason  *string
	AmendmentReviewCompleted     *bool
}

// IsCompleted treats a nil completion flag as not completed.
func (r FellingAndRestockingAmendmentReview) IsCompleted() bool {
	return r.AmendmentReviewCompleted != nil && *r.AmendmentReviewCompleted
}

// HasResponse reports whether the applicant has already answered.
func (r FellingAndRestockingAmendmentReview) HasResponse() bool {
	return r.ResponseReceivedDate != nil
}

// State derives the negotiation state from the stored fields.
func (r FellingAndRestockingAmendmentReview) State() AmendmentReviewState {
	switch {
	case r.IsCompleted() && !r.HasResponse():
		return AmendmentWithdrawnOnTimeout
	case r.IsCompleted():
		return AmendmentCompleted
	case !r.HasResponse():
		return AmendmentAwaitingResponse
	case r.ApplicantAgreed != nil && *r.ApplicantAgreed:
		return AmendmentAgreed
	default:
		return AmendmentDisagreed
	}
}

// IsOverdue reports whether the deadline passed without the review completing.
func (r FellingAndRestockingAmendmentReview) IsOverdue(now time.Time) bool {
	return !r.IsCompleted() && r.ResponseDeadline.Before(now)
}

// RecordResponse stores the applicant's answer. A disagreement must carry a
// reason and a review can be answered only once.
func (r *FellingAndRestockingAmendmentReview) RecordResponse(userID string, agreed bool, reason *string, now time.Time) error {
	if r.HasResponse() {
		return fmt.Errorf("amendment review %s already has a response", r.ID)
	}
	if !agreed && (reason == nil || strings.TrimSpace(*reason) == "") {
		return fmt.Errorf("a reason is required when disagreeing with amendments")
	}
	r.RespondingUserID = &userID
	r.ResponseReceivedDate = &now
	r.ApplicantAgreed = &agreed
	if agreed {
		r.ApplicantDisagreementReason = nil
	} else {
		trimmed := strings.TrimSpace(*reason)
		r.ApplicantDisagreementReason = &trimmed
	}
	return nil
}

// MarkReminderSent sets the reminder time. It returns false when a reminder
// was already recorded, leaving the original time in place.
func (r *FellingAndRestockingAmendmentReview) MarkReminderSent(now time.Time) bool {
	if r.ReminderNotificationSentDate != nil {
		return false
	}
	r.ReminderNotificationSentDate = &now
	return true
}

// MarkCompleted sets the completion flag. It returns false when already set.
func (r *FellingAndRestockingAmendmentReview) MarkCompleted() bool {
	if r.IsCompleted() {
		return false
	}
	completed := true
	r.AmendmentReviewCompleted = &completed
	return true
}

// CurrentAmendmentReview returns the review with the latest sent date.
func CurrentAmendmentReview(reviews []FellingAndRestockingAmendmentReview) (FellingAndRestockingAmendmentReview, bool) {
	var found bool
	var latest FellingAndRestockingAmendmentReview
	for _, r := range reviews {
		if !found || r.AmendmentsSentDate.After(latest.AmendmentsSentDate) {
			latest = r
			found = true
		}
	}
	return latest, found
}

// AmendmentCandidate pairs an amendment review with its application.
type AmendmentCandidate struct {
	ApplicationID        string
	ApplicationReference string
	WoodlandOwnerID      string
	Review               FellingAndRestockingAmendmentReview
}

// SelectForReminder keeps one candidate per application: the latest-sent
// review whose deadline is within window of now, that is not completed and
// has not had a reminder. Input order of applications is preserved.
func SelectForReminder(candidates []AmendmentCandidate, now time.Time, window time.Duration) []AmendmentCandidate {
	limit := now.Add(window)
	return selectPerApplication(candidates, func(r FellingAndRestockingAmendmentReview) bool {
		return !r.IsCompleted() &&
			r.ReminderNotificationSentDate == nil &&
			!r.ResponseDeadline.Before(now) &&
			!r.ResponseDeadline.After(limit)
	})
}

// SelectForWithdrawal keeps one candidate per application: the latest-sent
// review whose deadline has passed and that is not completed.
func SelectForWithdrawal(candidates []AmendmentCandidate, now time.Time) []AmendmentCandidate {
	return selectPerApplication(candidates, func(r FellingAndRestockingAmendmentReview) bool {
		return r.IsOverdue(now)
	})
}

func selectPerApplication(candidates []AmendmentCandidate, eligible func(FellingAndRestockingAmendmentReview) bool) []AmendmentCandidate {
	var order []string
	best := make(map[string]AmendmentCandidate)
	for _, c := range candidates {
		if !eligible(c.Review) {
			continue
		}
		current, ok := best[c.ApplicationID]
		if !ok {
			order = append(order, c.ApplicationID)
			best[c.ApplicationID] = c
			continue
		}
		if c.Review.AmendmentsSentDate.After(current.Review.AmendmentsSentDate) {
			best[c.ApplicationID] = c
		}
	}
	selected := make([]AmendmentCandidate, 0, len(order))
	for _, id := range order {
		selected = append(selected, best[id])
	}
	return selected
}
