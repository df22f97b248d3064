package service

import (
	"context"
	"testing"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var officer = testutil.FcUser("officer-1")

func TestConfirmedFellingService_ConvertThenAmendDetection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedInWoodlandOfficerReview()
	linked, submitted := f.seedPropertyTrees(a.ID)
	svc := NewConfirmedFellingAndRestockingService(f.repos, f.uow, f.opts()...)

	confirmed, err := svc.ConvertProposedToConfirmed(ctx, officer, a.ID)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	c := confirmed[0]
	proposed := linked.ProposedFellingDetails[0]
	assert.Equal(t, submitted.Compartments[0].ID, c.SubmittedCompartmentID)
	assert.Equal(t, proposed.ID, *c.ProposedFellingDetailID)
	assert.Equal(t, 2.5, c.AreaToBeFelled)
	require.Len(t, c.ConfirmedRestockingDetails, 1)
	assert.Equal(t, submitted.Compartments[1].ID, c.ConfirmedRestockingDetails[0].SubmittedCompartmentID)

	amended, err := svc.GetAmendedProperties(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, amended, 1)
	assert.False(t, amended[0].HasChanges(), "fresh conversion has no amendments: %v", amended[0].Felling)

	stored, err := svc.ListConfirmed(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	edit := stored[0]
	edit.AreaToBeFelled = 1.75
	result, err := svc.UpdateConfirmedFellingDetail(ctx, officer, a.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"AreaToBeFelled": "1.75"}, result.Felling)
	assert.Empty(t, result.Restocking)

	amended, err = svc.GetAmendedProperties(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, amended, 1)
	assert.Equal(t, map[string]string{"AreaToBeFelled": "1.75"}, amended[0].Felling)

	assert.Equal(t, []domain.AuditEventName{
		domain.AuditConvertedProposedToConfirmed,
		domain.AuditConfirmedFellingUpdated,
	}, f.audit.Names())
}

func TestConfirmedFellingService_Convert_ReplacesPreviousConversion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedInWoodlandOfficerReview()
	f.seedPropertyTrees(a.ID)
	svc := NewConfirmedFellingAndRestockingService(f.repos, f.uow, f.opts()...)

	_, err := svc.ConvertProposedToConfirmed(ctx, officer, a.ID)
	require.NoError(t, err)
	_, err = svc.ConvertProposedToConfirmed(ctx, officer, a.ID)
	require.NoError(t, err)

	stored, err := svc.ListConfirmed(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestConfirmedFellingService_Convert_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewConfirmedFellingAndRestockingService(f.repos, f.uow, f.opts()...)

	bare := f.seedInWoodlandOfficerReview()
	_, err := svc.ConvertProposedToConfirmed(ctx, officer, bare.ID)
	assert.True(t, app.IsCode(err, app.ErrNotFound), "no proposed felling")

	foreign := f.seedInWoodlandOfficerReview()
	f.seedPropertyTrees(foreign.ID)
	_, err = svc.ConvertProposedToConfirmed(ctx, testutil.ExternalUser("agent-9", "owner-9"), foreign.ID)
	assert.True(t, app.IsCode(err, app.ErrUnauthorized))

	orphan := f.seedInWoodlandOfficerReview()
	linked, submitted := testutil.NewTestPropertyTrees(orphan.ID)
	linked.ProposedFellingDetails[0].PropertyProfileCompartmentID = "cpt-unknown"
	require.NoError(t, f.repos.ProposedFelling.Create(ctx, linked))
	require.NoError(t, f.repos.SubmittedProperties.Create(ctx, submitted))
	_, err = svc.ConvertProposedToConfirmed(ctx, officer, orphan.ID)
	assert.True(t, app.IsCode(err, app.ErrNotFound), "compartment missing from submitted profile")

	stored, err := svc.ListConfirmed(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	unsubmitted := f.seedInWoodlandOfficerReview()
	linked, _ = testutil.NewTestPropertyTrees(unsubmitted.ID)
	require.NoError(t, f.repos.ProposedFelling.Create(ctx, linked))
	_, err = svc.ConvertProposedToConfirmed(ctx, officer, unsubmitted.ID)
	assert.True(t, app.IsCode(err, app.ErrNotFound), "no submitted property profile")

	empty := f.seedInWoodlandOfficerReview()
	linked, submitted = testutil.NewTestPropertyTrees(empty.ID)
	submitted.Compartments = nil
	require.NoError(t, f.repos.ProposedFelling.Create(ctx, linked))
	require.NoError(t, f.repos.SubmittedProperties.Create(ctx, submitted))
	_, err = svc.ConvertProposedToConfirmed(ctx, officer, empty.ID)
	assert.True(t, app.IsCode(err, app.ErrNotFound), "submitted profile without compartments")

	_, err = svc.ConvertProposedToConfirmed(ctx, officer, "nope")
	assert.True(t, app.IsCode(err, app.ErrNotFound), "unknown application")
}

func TestConfirmedFellingService_Revert_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewConfirmedFellingAndRestockingService(f.repos, f.uow, f.opts()...)

	_, err := svc.RevertConfirmedFellingDetailAmendments(ctx, officer, "nope", "pfd-1")
	assert.True(t, app.IsCode(err, app.ErrNotFound), "unknown application")

	a := f.seedInWoodlandOfficerReview()
	linked, submitted := testutil.NewTestPropertyTrees(a.ID)
	linked.ProposedFellingDetails[0].ProposedRestockingDetails[0].PropertyProfileCompartmentID = "cpt-gone"
	require.NoError(t, f.repos.ProposedFelling.Create(ctx, linked))
	require.NoError(t, f.repos.SubmittedProperties.Create(ctx, submitted))
	proposedID := linked.ProposedFellingDetails[0].ID

	_, err = svc.RevertConfirmedFellingDetailAmendments(ctx, officer, a.ID, proposedID)
	assert.True(t, app.IsCode(err, app.ErrNotFound), "restocking compartment missing on recreate")
	stored, err := svc.ListConfirmed(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, stored, "nothing written when the record cannot be recreated")

	existing := domain.ConfirmedFellingDetail{
		ID:                      "cf-existing",
		SubmittedCompartmentID:  submitted.Compartments[0].ID,
		ProposedFellingDetailID: &proposedID,
		OperationType:           domain.OperationThinning,
		AreaToBeFelled:          9,
	}
	require.NoError(t, f.repos.ConfirmedFelling.Create(ctx, &existing))

	_, err = svc.RevertConfirmedFellingDetailAmendments(ctx, officer, a.ID, proposedID)
	assert.True(t, app.IsCode(err, app.ErrNotFound), "restocking compartment missing on overwrite")
	stored, err = svc.ListConfirmed(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "cf-existing", stored[0].ID)
	assert.Equal(t, 9.0, stored[0].AreaToBeFelled, "existing record left untouched")
	assert.Empty(t, stored[0].ConfirmedRestockingDetails)
}

func TestConfirmedFellingService_RevertIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedInWoodlandOfficerReview()
	linked, _ := f.seedPropertyTrees(a.ID)
	proposedID := linked.ProposedFellingDetails[0].ID
	svc := NewConfirmedFellingAndRestockingService(f.repos, f.uow, f.opts()...)

	first, err := svc.RevertConfirmedFellingDetailAmendments(ctx, officer, a.ID, proposedID)
	require.NoError(t, err)
	assert.Equal(t, true, f.events.last().Fields["recreated"], "missing record is recreated")

	second, err := svc.RevertConfirmedFellingDetailAmendments(ctx, officer, a.ID, proposedID)
	require.NoError(t, err)
	assert.Equal(t, false, f.events.last().Fields["recreated"])
	assert.Equal(t, first.ID, second.ID, "existing record is overwritten in place")
	require.Len(t, second.ConfirmedRestockingDetails, 1)
	assert.Equal(t, first.ConfirmedRestockingDetails[0].ID, second.ConfirmedRestockingDetails[0].ID, "restocking ids are stable across reverts")
	assertSameConfirmedValues(t, *first, *second)

	stored, err := svc.ListConfirmed(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assertSameConfirmedValues(t, *second, stored[0])
}

func TestConfirmedFellingService_RevertUndoesAmendments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedInWoodlandOfficerReview()
	linked, _ := f.seedPropertyTrees(a.ID)
	svc := NewConfirmedFellingAndRestockingService(f.repos, f.uow, f.opts()...)

	confirmed, err := svc.ConvertProposedToConfirmed(ctx, officer, a.ID)
	require.NoError(t, err)
	edit := confirmed[0]
	edit.ConfirmedFellingSpecies = []domain.ConfirmedFellingSpecies{{Species: "BE"}}
	edit.ConfirmedRestockingDetails[0].Area = 4
	result, err := svc.UpdateConfirmedFellingDetail(ctx, officer, a.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "BE", result.Felling["Species"])
	require.Len(t, result.Restocking, 1)

	_, err = svc.RevertConfirmedFellingDetailAmendments(ctx, officer, a.ID, linked.ProposedFellingDetails[0].ID)
	require.NoError(t, err)

	amended, err := svc.GetAmendedProperties(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, amended, 1)
	assert.False(t, amended[0].HasChanges())
}

func TestConfirmedFellingService_AmendRequiresActiveOfficer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedInWoodlandOfficerReview()
	linked, _ := f.seedPropertyTrees(a.ID)
	f.seedAssignee(a.ID, "fm-1", domain.RoleFieldManager)
	svc := NewConfirmedFellingAndRestockingService(f.repos, f.uow, f.opts()...)

	_, err := svc.RevertConfirmedFellingDetailAmendments(ctx, testutil.FcUser("ao-7"), a.ID, linked.ProposedFellingDetails[0].ID)
	assert.True(t, app.IsCode(err, app.ErrUnauthorized))

	_, err = svc.RevertConfirmedFellingDetailAmendments(ctx, testutil.FcUser("fm-1"), a.ID, linked.ProposedFellingDetails[0].ID)
	require.NoError(t, err, "field managers may amend")

	_, err = svc.RevertConfirmedFellingDetailAmendments(ctx, officer, a.ID, "missing")
	assert.True(t, app.IsCode(err, app.ErrNotFound))
}

func TestConfirmedFellingService_Update_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedInWoodlandOfficerReview()
	f.seedPropertyTrees(a.ID)
	svc := NewConfirmedFellingAndRestockingService(f.repos, f.uow, f.opts()...)
	confirmed, err := svc.ConvertProposedToConfirmed(ctx, officer, a.ID)
	require.NoError(t, err)
	base := confirmed[0]

	negative := base
	negative.AreaToBeFelled = -1
	_, err = svc.UpdateConfirmedFellingDetail(ctx, officer, a.ID, negative)
	assert.True(t, app.IsCode(err, app.ErrValidation))

	unknown := base
	unknown.ID = "not-there"
	_, err = svc.UpdateConfirmedFellingDetail(ctx, officer, a.ID, unknown)
	assert.True(t, app.IsCode(err, app.ErrNotFound))

	moved := base
	moved.SubmittedCompartmentID = "nowhere"
	_, err = svc.UpdateConfirmedFellingDetail(ctx, officer, a.ID, moved)
	assert.True(t, app.IsCode(err, app.ErrNotFound))

	stored, err := svc.ListConfirmed(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 2.5, stored[0].AreaToBeFelled, "rejected updates leave the record untouched")
}

func assertSameConfirmedValues(t *testing.T, want, got domain.ConfirmedFellingDetail) {
	t.Helper()
	assert.Equal(t, want.SubmittedCompartmentID, got.SubmittedCompartmentID)
	assert.Equal(t, want.ProposedFellingDetailID, got.ProposedFellingDetailID)
	assert.Equal(t, want.OperationType, got.OperationType)
	assert.Equal(t, want.AreaToBeFelled, got.AreaToBeFelled)
	assert.Equal(t, want.NumberOfTrees, got.NumberOfTrees)
	assert.Equal(t, want.TreePreservationOrderReference, got.TreePreservationOrderReference)
	assert.Equal(t, want.EstimatedTotalFellingVolume, got.EstimatedTotalFellingVolume)
	assert.Equal(t, want.IsRestocking, got.IsRestocking)
	assert.Equal(t, speciesCodes(want), speciesCodes(got))
	require.Len(t, got.ConfirmedRestockingDetails, len(want.ConfirmedRestockingDetails))
	for i := range want.ConfirmedRestockingDetails {
		w, g := want.ConfirmedRestockingDetails[i], got.ConfirmedRestockingDetails[i]
		assert.Equal(t, w.SubmittedCompartmentID, g.SubmittedCompartmentID)
		assert.Equal(t, w.RestockingProposal, g.RestockingProposal)
		assert.Equal(t, w.Area, g.Area)
		assert.Equal(t, w.RestockingDensity, g.RestockingDensity)
		assert.Len(t, g.ConfirmedRestockingSpecies, len(w.ConfirmedRestockingSpecies))
	}
}

func speciesCodes(d domain.ConfirmedFellingDetail) []string {
	codes := make([]string, 0, len(d.ConfirmedFellingSpecies))
	for _, s := range d.ConfirmedFellingSpecies {
		codes = append(codes, s.Species)
	}
	return codes
}
