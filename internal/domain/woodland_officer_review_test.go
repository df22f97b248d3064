package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func review(id string, sentDaysAgo int, deadline time.Time) FellingAndRestockingAmendmentReview {
	return FellingAndRestockingAmendmentReview{
		ID:                        id,
		WoodlandOfficerReviewID:   "wor-1",
		AmendingWoodlandOfficerID: "wo",
		AmendmentsSentDate:        daysAgo(sentDaysAgo),
		ResponseDeadline:          deadline,
	}
}

func candidate(appID string, r FellingAndRestockingAmendmentReview) AmendmentCandidate {
	return AmendmentCandidate{ApplicationID: appID, ApplicationReference: "REF-" + appID, Review: r}
}

func TestAmendmentReview_State(t *testing.T) {
	r := review("r1", 1, testNow.AddDate(0, 0, 7))
	assert.Equal(t, AmendmentAwaitingResponse, r.State())

	require.NoError(t, r.RecordResponse("applicant", true, nil, testNow))
	assert.Equal(t, AmendmentAgreed, r.State())

	r.MarkCompleted()
	assert.Equal(t, AmendmentCompleted, r.State())

	timedOut := review("r2", 10, daysAgo(1))
	timedOut.MarkCompleted()
	assert.Equal(t, AmendmentWithdrawnOnTimeout, timedOut.State())
}

func TestAmendmentReview_RecordDisagreement(t *testing.T) {
	r := review("r1", 1, testNow.AddDate(0, 0, 7))

	err := r.RecordResponse("applicant", false, nil, testNow)
	require.Error(t, err)
	err = r.RecordResponse("applicant", false, ptr("   "), testNow)
	require.Error(t, err)
	assert.False(t, r.HasResponse(), "failed response must not be recorded")

	require.NoError(t, r.RecordResponse("applicant", false, ptr("  wrong species  "), testNow))
	assert.Equal(t, AmendmentDisagreed, r.State())
	assert.Equal(t, "wrong species", *r.ApplicantDisagreementReason)
	assert.Equal(t, "applicant", *r.RespondingUserID)
	assert.Equal(t, testNow, *r.ResponseReceivedDate)
}

func TestAmendmentReview_DoubleResponse(t *testing.T) {
	r := review("r1", 1, testNow.AddDate(0, 0, 7))
	require.NoError(t, r.RecordResponse("applicant", true, nil, testNow))

	err := r.RecordResponse("applicant", false, ptr("changed my mind"), testNow.Add(time.Hour))
	require.Error(t, err)
	assert.True(t, *r.ApplicantAgreed)
}

func TestAmendmentReview_MarkReminderSentIdempotent(t *testing.T) {
	r := review("r1", 1, testNow.AddDate(0, 0, 7))
	assert.True(t, r.MarkReminderSent(testNow))
	assert.False(t, r.MarkReminderSent(testNow.Add(time.Hour)))
	assert.Equal(t, testNow, *r.ReminderNotificationSentDate)
}

func TestCurrentAmendmentReview(t *testing.T) {
	_, ok := CurrentAmendmentReview(nil)
	assert.False(t, ok)

	current, ok := CurrentAmendmentReview([]FellingAndRestockingAmendmentReview{
		review("older", 10, testNow),
		review("newest", 2, daysAgo(30)),
		review("middle", 5, testNow.AddDate(0, 0, 30)),
	})
	require.True(t, ok)
	assert.Equal(t, "newest", current.ID, "latest sent wins regardless of deadline")
}

func TestSelectForReminder_LatestSentEligibleWins(t *testing.T) {
	window := 7 * 24 * time.Hour
	reminded := review("reminded", 1, testNow.AddDate(0, 0, 6))
	reminded.ReminderNotificationSentDate = ptr(daysAgo(1))
	completed := review("completed", 3, testNow.AddDate(0, 0, 2))
	completed.AmendmentReviewCompleted = ptr(true)

	candidates := []AmendmentCandidate{
		candidate("app-1", review("sent-20", 20, testNow.AddDate(0, 0, 3))),
		candidate("app-1", review("sent-5", 5, testNow.AddDate(0, 0, 5))),
		candidate("app-1", reminded),
		candidate("app-1", review("outside", 2, testNow.AddDate(0, 0, 30))),
		candidate("app-2", completed),
		candidate("app-3", review("past", 9, daysAgo(1))),
	}

	selected := SelectForReminder(candidates, testNow, window)
	require.Len(t, selected, 1)
	assert.Equal(t, "app-1", selected[0].ApplicationID)
	assert.Equal(t, "sent-5", selected[0].Review.ID)
}

func TestSelectForReminder_WindowBoundaryInclusive(t *testing.T) {
	window := 7 * 24 * time.Hour
	selected := SelectForReminder([]AmendmentCandidate{
		candidate("app-1", review("edge", 1, testNow.Add(window))),
		candidate("app-2", review("now", 1, testNow)),
	}, testNow, window)
	require.Len(t, selected, 2)
	assert.Equal(t, "app-1", selected[0].ApplicationID)
	assert.Equal(t, "app-2", selected[1].ApplicationID)
}

func TestSelectForWithdrawal(t *testing.T) {
	completedLate := review("completed-late", 1, daysAgo(1))
	completedLate.AmendmentReviewCompleted = ptr(true)
	answered := review("answered", 3, daysAgo(2))
	answered.AmendmentReviewCompleted = ptr(true)

	candidates := []AmendmentCandidate{
		candidate("app-1", review("sent-20", 20, daysAgo(2))),
		candidate("app-1", review("sent-10", 10, daysAgo(1))),
		candidate("app-1", completedLate),
		candidate("app-2", answered),
		candidate("app-3", review("future", 2, testNow.AddDate(0, 0, 3))),
	}

	selected := SelectForWithdrawal(candidates, testNow)
	require.Len(t, selected, 1)
	assert.Equal(t, "sent-10", selected[0].Review.ID)
}

func TestSelectForWithdrawal_DeadlineAtNowNotOverdue(t *testing.T) {
	selected := SelectForWithdrawal([]AmendmentCandidate{
		candidate("app-1", review("due-now", 3, testNow)),
	}, testNow)
	assert.Empty(t, selected)
}
