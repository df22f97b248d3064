package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusHistoryService_GetStatusDurations_RevisitedStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedApplication()
	f.seedStatus(a.ID, domain.StatusDraft, testutil.DaysAgo(25))
	f.seedStatus(a.ID, domain.StatusSubmitted, testutil.DaysAgo(15))
	f.seedStatus(a.ID, domain.StatusReceived, testutil.DaysAgo(13))
	f.seedStatus(a.ID, domain.StatusWithApplicant, testutil.DaysAgo(10))
	f.seedStatus(a.ID, domain.StatusSubmitted, testutil.DaysAgo(8))

	svc := NewStatusHistoryService(f.repos, f.uow, f.opts()...)
	resp, err := svc.GetStatusDurations(ctx, a.ID)
	require.NoError(t, err)

	byStatus := domain.DurationByStatus(resp.Durations)
	assert.Equal(t, 10, byStatus[domain.StatusDraft])
	assert.Equal(t, 10, byStatus[domain.StatusSubmitted], "2 days then 8 days")
	assert.Equal(t, 3, byStatus[domain.StatusReceived])
	assert.Equal(t, 2, byStatus[domain.StatusWithApplicant])
	assert.Len(t, resp.Durations, 4)
	assert.Equal(t, domain.StatusSubmitted, resp.CurrentStatus)
	assert.Equal(t, 25, resp.TotalDays())
	assert.Equal(t, testutil.Now, resp.CalculatedAt)

	event := f.events.last()
	assert.Equal(t, UseCaseGetStatusDurations, event.Name)
	assert.True(t, event.Success)
}

func TestStatusHistoryService_GetStatusDurations_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewStatusHistoryService(f.repos, f.uow, f.opts()...)

	_, err := svc.GetStatusDurations(ctx, "missing")
	assert.True(t, app.IsCode(err, app.ErrNotFound))

	a := f.seedApplication()
	_, err = svc.GetStatusDurations(ctx, a.ID)
	assert.True(t, app.IsCode(err, app.ErrInvalidState), "no history yet")

	_, err = svc.GetStatusDurations(ctx, "")
	assert.True(t, app.IsCode(err, app.ErrValidation))
}

func TestStatusHistoryService_AddStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedApplication()
	f.seedStatus(a.ID, domain.StatusSubmitted, testutil.DaysAgo(3))
	svc := NewStatusHistoryService(f.repos, f.uow, f.opts()...)

	actor := "admin-1"
	entry, err := svc.AddStatus(ctx, app.AddStatusRequest{ApplicationID: a.ID, ActorID: &actor, Status: domain.StatusAdminOfficerReview})
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Seq)
	assert.Equal(t, testutil.Now, entry.Created)

	current, err := svc.GetCurrentStatus(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAdminOfficerReview, current)

	stored, err := f.repos.Applications.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.Now, stored.UpdatedAt)

	require.Len(t, f.audit.Events, 1)
	assert.Equal(t, domain.AuditStatusAdded, f.audit.Events[0].Name)
	assert.Equal(t, domain.SourceInternalUser, f.audit.Events[0].Source)
	assert.Equal(t, "admin-1", f.audit.Events[0].ActorID)
}

func TestStatusHistoryService_AddStatus_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedApplication()
	svc := NewStatusHistoryService(f.repos, f.uow, f.opts()...)

	_, err := svc.AddStatus(ctx, app.AddStatusRequest{ApplicationID: a.ID, Status: "Archived"})
	assert.True(t, app.IsCode(err, app.ErrValidation))

	_, err = svc.AddStatus(ctx, app.AddStatusRequest{ApplicationID: "missing", Status: domain.StatusSubmitted})
	assert.True(t, app.IsCode(err, app.ErrNotFound))
	assert.Empty(t, f.audit.Events)
}

func TestStatusHistoryService_AddStatus_RollsBackOnFailedSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedApplication()

	// Exec 1 inserts the entry, exec 2 touches the application.
	uow := &testutil.FailOnNthExecUoW{DB: f.db, FailOn: 2, Err: errors.New("disk I/O error")}
	svc := NewStatusHistoryService(f.repos, uow, f.opts()...)

	_, err := svc.AddStatus(ctx, app.AddStatusRequest{ApplicationID: a.ID, Status: domain.StatusSubmitted})
	require.Error(t, err)
	assert.True(t, app.IsCode(err, app.ErrPersistence))
	assert.Contains(t, err.Error(), "disk I/O error")

	histories, err := f.repos.StatusHistories.ListByApplication(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, histories, "insert rolled back with the failed update")
	assert.Empty(t, f.audit.Events)
	assert.False(t, f.events.last().Success)
}

func TestStatusHistoryService_AddStatus_PanicBecomesUnexpected(t *testing.T) {
	f := newFixture(t)
	svc := NewStatusHistoryService(f.repos, testutil.PanicUoW{Value: "collaborator blew up"}, f.opts()...)

	_, err := svc.AddStatus(context.Background(), app.AddStatusRequest{ApplicationID: "app-1", Status: domain.StatusSubmitted})
	require.Error(t, err)
	assert.True(t, app.IsCode(err, app.ErrUnexpected))
	assert.Contains(t, err.Error(), "collaborator blew up")
}
