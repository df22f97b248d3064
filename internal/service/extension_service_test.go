package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/notify"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var extendTwoWeeks = app.ExtensionRequest{ExtensionLength: 14 * day, Threshold: 7 * day}

type extensionSeed struct {
	due, extended, later, undated *domain.FellingLicenceApplication
}

func seedExtensionCandidates(f *fixture) extensionSeed {
	s := extensionSeed{
		due:      f.seedApplication(testutil.WithFinalActionDate(testutil.DaysAhead(2))),
		extended: f.seedApplication(testutil.WithFinalActionDate(testutil.DaysAgo(3)), testutil.WithAlreadyExtended(14*day)),
		later:    f.seedApplication(testutil.WithFinalActionDate(testutil.DaysAhead(30))),
		undated:  f.seedApplication(),
	}
	f.seedAssignee(s.due.ID, "wo-1", domain.RoleWoodlandOfficer)
	f.seedAssignee(s.due.ID, "applicant-1", domain.RoleApplicant)
	return s
}

func TestExtensionService_ReapplyPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := seedExtensionCandidates(f)
	svc := NewExtensionService(f.repos, f.uow, domain.ReapplyExtension, f.opts()...)

	result, err := svc.ExtendApplicationFinalActionDates(ctx, extendTwoWeeks)
	require.NoError(t, err)
	require.Len(t, result.Extended, 2)
	assert.Equal(t, seed.extended.ID, result.Extended[0].ApplicationID, "ordered by final action date")
	assert.Equal(t, testutil.DaysAgo(3).Add(14*day), result.Extended[0].FinalActionDate)
	assert.Equal(t, seed.due.ID, result.Extended[1].ApplicationID)
	assert.Empty(t, result.Skipped)

	stored, err := f.repos.Applications.GetByID(ctx, seed.due.ID)
	require.NoError(t, err)
	assert.True(t, stored.FinalActionDateExtended)
	assert.Equal(t, testutil.DaysAhead(16), *stored.FinalActionDate)
	assert.Equal(t, 14*day, *stored.ExtensionLength)
	assert.Equal(t, testutil.Now, stored.UpdatedAt)

	untouched, err := f.repos.Applications.GetByID(ctx, seed.later.ID)
	require.NoError(t, err)
	assert.False(t, untouched.FinalActionDateExtended)
	assert.Equal(t, testutil.DaysAhead(30), *untouched.FinalActionDate)

	sent := f.notifier.ForApplication(seed.due.ID)
	require.Len(t, sent, 1)
	assert.Equal(t, notify.KindFinalActionDateExtended, sent[0].Kind)
	assert.Equal(t, []string{"wo-1"}, sent[0].RecipientIDs, "applicant-side assignees are not notified")
	assert.Empty(t, f.notifier.ForApplication(seed.extended.ID), "no internal assignees")

	assert.Equal(t, []domain.AuditEventName{domain.AuditFinalActionDateExtended, domain.AuditFinalActionDateExtended}, f.audit.Names())
	assert.Equal(t, 2, f.events.last().Fields["extended"])
}

func TestExtensionService_SkipPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := seedExtensionCandidates(f)
	svc := NewExtensionService(f.repos, f.uow, domain.SkipAlreadyExtended, f.opts()...)

	result, err := svc.ExtendApplicationFinalActionDates(ctx, extendTwoWeeks)
	require.NoError(t, err)
	require.Len(t, result.Extended, 1)
	assert.Equal(t, seed.due.ID, result.Extended[0].ApplicationID)
	assert.Equal(t, []string{seed.extended.ID}, result.Skipped)

	stored, err := f.repos.Applications.GetByID(ctx, seed.extended.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.DaysAgo(3), *stored.FinalActionDate)
}

func TestExtensionService_FailedSaveReportsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := seedExtensionCandidates(f)

	uow := &testutil.FailOnNthExecUoW{DB: f.db, FailOn: 2, Err: errors.New("database is locked")}
	svc := NewExtensionService(f.repos, uow, domain.ReapplyExtension, f.opts()...)

	result, err := svc.ExtendApplicationFinalActionDates(ctx, extendTwoWeeks)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, app.IsCode(err, app.ErrPersistence))

	stored, err := f.repos.Applications.GetByID(ctx, seed.extended.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.DaysAgo(3), *stored.FinalActionDate, "first update rolled back")
	stored, err = f.repos.Applications.GetByID(ctx, seed.due.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.DaysAhead(2), *stored.FinalActionDate)
	assert.False(t, stored.FinalActionDateExtended)

	assert.Empty(t, f.notifier.Messages)
	assert.Empty(t, f.audit.Events)
}

func TestExtensionService_NotificationFailureDoesNotUndoExtension(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := seedExtensionCandidates(f)
	f.notifier.Err = errors.New("smtp unavailable")
	svc := NewExtensionService(f.repos, f.uow, domain.ReapplyExtension, f.opts()...)

	result, err := svc.ExtendApplicationFinalActionDates(ctx, extendTwoWeeks)
	require.NoError(t, err)
	assert.Len(t, result.Extended, 2)
	assert.Equal(t, []string{seed.due.ID}, result.NotifyFailed)

	stored, err := f.repos.Applications.GetByID(ctx, seed.due.ID)
	require.NoError(t, err)
	assert.True(t, stored.FinalActionDateExtended)
}

func TestExtensionService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	svc := NewExtensionService(f.repos, f.uow, domain.ReapplyExtension, f.opts()...)
	_, err := svc.ExtendApplicationFinalActionDates(ctx, app.ExtensionRequest{Threshold: day})
	assert.True(t, app.IsCode(err, app.ErrValidation))
	_, err = svc.ExtendApplicationFinalActionDates(ctx, app.ExtensionRequest{ExtensionLength: day, Threshold: -day})
	assert.True(t, app.IsCode(err, app.ErrValidation))

	svc = NewExtensionService(f.repos, f.uow, "sometimes", f.opts()...)
	_, err = svc.ExtendApplicationFinalActionDates(ctx, extendTwoWeeks)
	assert.True(t, app.IsCode(err, app.ErrValidation))
}
