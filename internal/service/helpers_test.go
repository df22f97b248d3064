package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/clock"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/repository"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/testutil"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

// fixture bundles a migrated in-memory database with recording
// collaborators pinned to testutil.Now.
type fixture struct {
	t        *testing.T
	db       *sql.DB
	repos    repository.Set
	uow      db.UnitOfWork
	clock    *clock.FakeClock
	notifier *testutil.RecordingNotifier
	audit    *testutil.RecordingPublisher
	events   *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &fixture{
		t:        t,
		db:       database,
		repos:    repository.NewSQLiteSet(database),
		uow:      testutil.NewTestUoW(database),
		clock:    clock.Fixed(testutil.Now),
		notifier: &testutil.RecordingNotifier{},
		audit:    &testutil.RecordingPublisher{},
		events:   &recordingObserver{},
	}
}

func (f *fixture) opts() []Option {
	return []Option{
		WithClock(f.clock),
		WithNotifier(f.notifier),
		WithAuditPublisher(f.audit),
		WithObservers(f.events),
	}
}

func (f *fixture) seedApplication(opts ...testutil.ApplicationOption) *domain.FellingLicenceApplication {
	f.t.Helper()
	a := testutil.NewTestApplication(opts...)
	require.NoError(f.t, f.repos.Applications.Create(context.Background(), a))
	return a
}

func (f *fixture) seedStatus(applicationID string, status domain.FellingLicenceStatus, created time.Time) {
	f.t.Helper()
	h := testutil.NewTestStatusHistory(applicationID, status, created)
	require.NoError(f.t, f.repos.StatusHistories.Append(context.Background(), h))
}

func (f *fixture) seedAssignee(applicationID, userID string, role domain.AssignedUserRole, opts ...testutil.AssigneeOption) *domain.AssigneeHistory {
	f.t.Helper()
	h := testutil.NewTestAssignee(applicationID, userID, role, opts...)
	require.NoError(f.t, f.repos.AssigneeHistories.Create(context.Background(), h))
	return h
}

// seedInWoodlandOfficerReview puts an application in WoodlandOfficerReview
// with "officer-1" as its woodland officer.
func (f *fixture) seedInWoodlandOfficerReview(opts ...testutil.ApplicationOption) *domain.FellingLicenceApplication {
	f.t.Helper()
	a := f.seedApplication(opts...)
	f.seedStatus(a.ID, domain.StatusSubmitted, testutil.DaysAgo(20))
	f.seedStatus(a.ID, domain.StatusWoodlandOfficerReview, testutil.DaysAgo(15))
	f.seedAssignee(a.ID, "officer-1", domain.RoleWoodlandOfficer)
	f.seedAssignee(a.ID, "applicant-1", domain.RoleApplicant)
	return a
}

func (f *fixture) seedAmendment(applicationID string, sent, deadline time.Time, opts ...testutil.AmendmentReviewOption) *domain.FellingAndRestockingAmendmentReview {
	f.t.Helper()
	ctx := context.Background()
	wor, err := f.repos.WoodlandOfficerReviews.GetByApplicationID(ctx, applicationID)
	if isNotFound(err) {
		wor = testutil.NewTestWoodlandOfficerReview(applicationID)
		require.NoError(f.t, f.repos.WoodlandOfficerReviews.Create(ctx, wor))
	} else {
		require.NoError(f.t, err)
	}
	r := testutil.NewTestAmendmentReview(wor.ID, sent, deadline, opts...)
	require.NoError(f.t, f.repos.AmendmentReviews.Create(ctx, r))
	return r
}

func (f *fixture) seedPropertyTrees(applicationID string) (*domain.LinkedPropertyProfile, *domain.SubmittedPropertyProfile) {
	f.t.Helper()
	ctx := context.Background()
	linked, submitted := testutil.NewTestPropertyTrees(applicationID)
	require.NoError(f.t, f.repos.ProposedFelling.Create(ctx, linked))
	require.NoError(f.t, f.repos.SubmittedProperties.Create(ctx, submitted))
	return linked, submitted
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.events = append(o.events, event)
}

func (o *recordingObserver) last() UseCaseEvent {
	if len(o.events) == 0 {
		return UseCaseEvent{}
	}
	return o.events[len(o.events)-1]
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
