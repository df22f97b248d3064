package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentStatus(t *testing.T) {
	app := &FellingLicenceApplication{ID: "app-1"}
	assert.Equal(t, StatusDraft, app.CurrentStatus())

	app.StatusHistories = []StatusHistory{
		entry(StatusWoodlandOfficerReview, daysAgo(2), 3),
		entry(StatusSubmitted, daysAgo(9), 1),
		entry(StatusAdminOfficerReview, daysAgo(6), 2),
	}
	assert.Equal(t, StatusWoodlandOfficerReview, app.CurrentStatus())
}

func TestExtendFinalActionDate(t *testing.T) {
	fad := testNow.AddDate(0, 0, 3)
	extension := 14 * 24 * time.Hour
	app := &FellingLicenceApplication{ID: "app-1", FinalActionDate: &fad}

	require.True(t, app.ExtendFinalActionDate(extension, ReapplyExtension, testNow))
	assert.Equal(t, fad.Add(extension), *app.FinalActionDate)
	assert.Equal(t, extension, *app.ExtensionLength)
	assert.True(t, app.FinalActionDateExtended)
	assert.Equal(t, testNow, app.UpdatedAt)

	require.True(t, app.ExtendFinalActionDate(extension, ReapplyExtension, testNow), "reapply extends again")
	assert.Equal(t, fad.Add(2*extension), *app.FinalActionDate)

	assert.False(t, app.ExtendFinalActionDate(extension, SkipAlreadyExtended, testNow))
	assert.Equal(t, fad.Add(2*extension), *app.FinalActionDate)
}

func TestExtendFinalActionDate_NoDate(t *testing.T) {
	app := &FellingLicenceApplication{ID: "app-1"}
	assert.False(t, app.ExtendFinalActionDate(time.Hour, ReapplyExtension, testNow))
	assert.False(t, app.FinalActionDateExtended)
}

func TestUserAccessModel_CanAccessWoodlandOwner(t *testing.T) {
	cases := []struct {
		name  string
		user  UserAccessModel
		owner string
		want  bool
	}{
		{"fc user", UserAccessModel{UserID: "u", AccountType: AccountFcUser}, "wo-1", true},
		{"owner in scope", UserAccessModel{UserID: "u", AccountType: AccountExternal, WoodlandOwnerIDs: []string{"wo-1"}}, "wo-1", true},
		{"owner out of scope", UserAccessModel{UserID: "u", AccountType: AccountExternal, WoodlandOwnerIDs: []string{"wo-2"}}, "wo-1", false},
		{"agent managing all", UserAccessModel{UserID: "u", AccountType: AccountAgent, CanManageAllOwners: true}, "wo-1", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.CanAccessWoodlandOwner(tc.owner))
		})
	}
}

func TestSourceFor(t *testing.T) {
	assert.Equal(t, SourceInternalUser, SourceFor(UserAccessModel{AccountType: AccountFcUser}))
	assert.Equal(t, SourceExternalApplicant, SourceFor(UserAccessModel{AccountType: AccountAgent}))
}
