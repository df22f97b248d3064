package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testProposed() ProposedFellingDetail {
	return ProposedFellingDetail{
		ID:                             "pfd-1",
		LinkedPropertyProfileID:        "lpp-1",
		PropertyProfileCompartmentID:   "cpt-felled",
		OperationType:                  OperationClearFelling,
		AreaToBeFelled:                 4.5,
		NumberOfTrees:                  ptr(120),
		TreeMarking:                    ptr("blue paint"),
		IsPartOfTreePreservationOrder:  true,
		TreePreservationOrderReference: ptr("TPO-9"),
		EstimatedTotalFellingVolume:    310.25,
		IsRestocking:                   ptr(true),
		FellingSpecies: []FellingSpecies{
			{ID: "fs-1", Species: "OK"},
			{ID: "fs-2", Species: "BE"},
		},
		ProposedRestockingDetails: []ProposedRestockingDetail{
			{
				ID:                           "prd-1",
				ProposedFellingDetailID:      "pfd-1",
				PropertyProfileCompartmentID: "cpt-restock",
				RestockingProposal:           RestockingPlantAnAlternativeArea,
				Area:                         3,
				RestockingDensity:            ptr(1600.0),
				RestockingSpecies: []RestockingSpecies{
					{ID: "rs-1", Species: "OK", Percentage: 60},
					{ID: "rs-2", Species: "SP", Percentage: 40},
				},
			},
		},
	}
}

func testResolver() CompartmentResolver {
	return ResolverFor(&SubmittedPropertyProfile{
		ID: "spp-1",
		Compartments: []SubmittedCompartment{
			{ID: "sc-felled", CompartmentID: "cpt-felled", CompartmentNumber: "1"},
			{ID: "sc-restock", CompartmentID: "cpt-restock", CompartmentNumber: "2"},
		},
	})
}

func TestConfirmFellingDetail_CopiesProposal(t *testing.T) {
	proposed := testProposed()

	confirmed, err := ConfirmFellingDetail(proposed, testResolver(), sequentialIDs())
	require.NoError(t, err)

	assert.Equal(t, "id-1", confirmed.ID)
	assert.Equal(t, "sc-felled", confirmed.SubmittedCompartmentID)
	require.NotNil(t, confirmed.ProposedFellingDetailID)
	assert.Equal(t, "pfd-1", *confirmed.ProposedFellingDetailID)
	assert.Equal(t, OperationClearFelling, confirmed.OperationType)
	assert.Equal(t, 120, *confirmed.NumberOfTrees)
	require.Len(t, confirmed.ConfirmedFellingSpecies, 2)
	assert.Equal(t, "OK", confirmed.ConfirmedFellingSpecies[0].Species)

	require.Len(t, confirmed.ConfirmedRestockingDetails, 1)
	restock := confirmed.ConfirmedRestockingDetails[0]
	assert.Equal(t, "sc-restock", restock.SubmittedCompartmentID, "restocking keeps its own compartment")
	assert.Equal(t, confirmed.ID, restock.ConfirmedFellingDetailID)
	assert.Equal(t, "prd-1", *restock.ProposedRestockingDetailID)
	require.Len(t, restock.ConfirmedRestockingSpecies, 2)
	assert.Equal(t, 40.0, restock.ConfirmedRestockingSpecies[1].Percentage)

	*confirmed.NumberOfTrees = 1
	assert.Equal(t, 120, *proposed.NumberOfTrees, "pointer fields must be copied")
}

func TestConfirmFellingDetail_MissingCompartment(t *testing.T) {
	proposed := testProposed()
	proposed.ProposedRestockingDetails[0].PropertyProfileCompartmentID = "cpt-unknown"

	_, err := ConfirmFellingDetail(proposed, testResolver(), sequentialIDs())
	assert.ErrorIs(t, err, ErrCompartmentNotFound)
}

func TestApplyProposed_FailureLeavesRecordUntouched(t *testing.T) {
	confirmed, err := ConfirmFellingDetail(testProposed(), testResolver(), sequentialIDs())
	require.NoError(t, err)
	confirmed.AreaToBeFelled = 1

	proposed := testProposed()
	proposed.PropertyProfileCompartmentID = "cpt-unknown"
	err = confirmed.ApplyProposed(proposed, testResolver(), sequentialIDs())
	require.ErrorIs(t, err, ErrCompartmentNotFound)
	assert.Equal(t, 1.0, confirmed.AreaToBeFelled)
}

func TestApplyProposed_KeepsRestockingIDs(t *testing.T) {
	proposed := testProposed()
	confirmed, err := ConfirmFellingDetail(proposed, testResolver(), sequentialIDs())
	require.NoError(t, err)
	restockingID := confirmed.ConfirmedRestockingDetails[0].ID
	confirmed.ConfirmedRestockingDetails[0].Area = 99

	require.NoError(t, confirmed.ApplyProposed(proposed, testResolver(), func() string { return "fresh" }))
	require.Len(t, confirmed.ConfirmedRestockingDetails, 1)
	assert.Equal(t, restockingID, confirmed.ConfirmedRestockingDetails[0].ID)
	assert.Equal(t, proposed.ProposedRestockingDetails[0].Area, confirmed.ConfirmedRestockingDetails[0].Area)
}

func TestAmendedFellingProperties_RoundTripIsEmpty(t *testing.T) {
	proposed := testProposed()
	confirmed, err := ConfirmFellingDetail(proposed, testResolver(), sequentialIDs())
	require.NoError(t, err)

	assert.Empty(t, AmendedFellingProperties(proposed, confirmed))
	assert.Empty(t, AmendedRestockingProperties(proposed.ProposedRestockingDetails[0], confirmed.ConfirmedRestockingDetails[0]))
}

func TestAmendedFellingProperties_SingleField(t *testing.T) {
	proposed := testProposed()
	confirmed, err := ConfirmFellingDetail(proposed, testResolver(), sequentialIDs())
	require.NoError(t, err)

	confirmed.AreaToBeFelled = 3.75
	assert.Equal(t, map[string]string{"AreaToBeFelled": "3.75"}, AmendedFellingProperties(proposed, confirmed))
}

func TestAmendedFellingProperties_Fields(t *testing.T) {
	proposed := testProposed()
	confirmed, err := ConfirmFellingDetail(proposed, testResolver(), sequentialIDs())
	require.NoError(t, err)

	confirmed.IsPartOfTreePreservationOrder = false
	confirmed.TreePreservationOrderReference = nil
	confirmed.NumberOfTrees = nil
	confirmed.OperationType = OperationThinning
	confirmed.IsWithinConservationArea = true
	confirmed.ConservationAreaReference = ptr("CA-2")
	confirmed.IsRestocking = ptr(false)
	confirmed.NoRestockingReason = ptr("natural regeneration expected")

	changes := AmendedFellingProperties(proposed, confirmed)
	assert.Equal(t, map[string]string{
		"IsPartOfTreePreservationOrder":  "No",
		"TreePreservationOrderReference": "None",
		"NumberOfTrees":                  "None",
		"OperationType":                  "Thinning",
		"IsWithinConservationArea":       "Yes",
		"ConservationAreaReference":      "CA-2",
		"IsRestocking":                   "No",
		"NoRestockingReason":             "natural regeneration expected",
	}, changes)
}

func TestAmendedFellingProperties_SpeciesSymmetricDifference(t *testing.T) {
	proposed := testProposed()
	confirmed, err := ConfirmFellingDetail(proposed, testResolver(), sequentialIDs())
	require.NoError(t, err)

	confirmed.ConfirmedFellingSpecies = []ConfirmedFellingSpecies{{ID: "x", Species: "BE"}, {ID: "y", Species: "OK"}}
	assert.Empty(t, AmendedFellingProperties(proposed, confirmed), "order does not matter")

	confirmed.ConfirmedFellingSpecies = []ConfirmedFellingSpecies{{ID: "x", Species: "BE"}, {ID: "z", Species: "AH"}}
	assert.Equal(t, map[string]string{"Species": "AH, BE"}, AmendedFellingProperties(proposed, confirmed))
}

func TestAmendedRestockingProperties(t *testing.T) {
	proposed := testProposed().ProposedRestockingDetails[0]
	confirmed, err := ConfirmFellingDetail(testProposed(), testResolver(), sequentialIDs())
	require.NoError(t, err)
	restock := confirmed.ConfirmedRestockingDetails[0]

	restock.Area = 2.5
	restock.RestockingDensity = nil
	restock.RestockingProposal = RestockingReplantTheFelledArea
	restock.ConfirmedRestockingSpecies = restock.ConfirmedRestockingSpecies[:1]
	restock.ConfirmedRestockingSpecies[0].Percentage = 100

	assert.Equal(t, map[string]string{
		"Area":               "2.5",
		"RestockingDensity":  "None",
		"RestockingProposal": "ReplantTheFelledArea",
		"Species":            "OK",
	}, AmendedRestockingProperties(proposed, restock))
}

func TestSymmetricDifference(t *testing.T) {
	assert.Equal(t, []string{"A", "D"}, symmetricDifference([]string{"A", "B", "C"}, []string{"B", "C", "D"}))
	assert.Empty(t, symmetricDifference(nil, nil))
}
