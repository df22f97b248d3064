package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrCompartmentNotFound is returned when a proposed record references a
// property-profile compartment with no submitted snapshot.
var ErrCompartmentNotFound = errors.New("submitted compartment not found")

// CompartmentResolver maps a property-profile compartment id to the id of
// its submitted compartment.
type CompartmentResolver func(propertyProfileCompartmentID string) (string, bool)

// ResolverFor builds a CompartmentResolver over a submitted property profile.
func ResolverFor(p *SubmittedPropertyProfile) CompartmentResolver {
	return func(compartmentID string) (string, bool) {
		c, ok := p.CompartmentByCompartmentID(compartmentID)
		return c.ID, ok
	}
}

// ConfirmFellingDetail creates a confirmed felling record from a proposed
// one, including its species and nested restocking records.
func ConfirmFellingDetail(p ProposedFellingDetail, resolve CompartmentResolver, newID func() string) (ConfirmedFellingDetail, error) {
	c := ConfirmedFellingDetail{ID: newID()}
	if err := c.ApplyProposed(p, resolve, newID); err != nil {
		return ConfirmedFellingDetail{}, err
	}
	return c, nil
}

// ApplyProposed overwrites c with the values of p. Species and restocking
// lists are replaced wholesale. c is left untouched when a compartment
// cannot be resolved.
func (c *ConfirmedFellingDetail) ApplyProposed(p ProposedFellingDetail, resolve CompartmentResolver, newID func() string) error {
	compartmentID, ok := resolve(p.PropertyProfileCompartmentID)
	if !ok {
		return fmt.Errorf("%w: compartment %s for proposed felling %s",
			ErrCompartmentNotFound, p.PropertyProfileCompartmentID, p.ID)
	}

	// Restocking records keep their id when they came from the same proposal.
	keptIDs := make(map[string]string, len(c.ConfirmedRestockingDetails))
	for _, r := range c.ConfirmedRestockingDetails {
		if r.ProposedRestockingDetailID != nil {
			keptIDs[*r.ProposedRestockingDetailID] = r.ID
		}
	}

	restocking := make([]ConfirmedRestockingDetail, 0, len(p.ProposedRestockingDetails))
	for _, pr := range p.ProposedRestockingDetails {
		restockCompartmentID, ok := resolve(pr.PropertyProfileCompartmentID)
		if !ok {
			return fmt.Errorf("%w: compartment %s for proposed restocking %s",
				ErrCompartmentNotFound, pr.PropertyProfileCompartmentID, pr.ID)
		}
		r := confirmRestocking(pr, c.ID, restockCompartmentID, newID)
		if id, ok := keptIDs[pr.ID]; ok {
			r.ID = id
		}
		restocking = append(restocking, r)
	}

	species := make([]ConfirmedFellingSpecies, 0, len(p.FellingSpecies))
	for _, s := range p.FellingSpecies {
		species = append(species, ConfirmedFellingSpecies{ID: newID(), Species: s.Species})
	}

	proposedID := p.ID
	c.SubmittedCompartmentID = compartmentID
	c.ProposedFellingDetailID = &proposedID
	c.OperationType = p.OperationType
	c.AreaToBeFelled = p.AreaToBeFelled
	c.NumberOfTrees = clonePtr(p.NumberOfTrees)
	c.TreeMarking = clonePtr(p.TreeMarking)
	c.IsPartOfTreePreservationOrder = p.IsPartOfTreePreservationOrder
	c.TreePreservationOrderReference = clonePtr(p.TreePreservationOrderReference)
	c.IsWithinConservationArea = p.IsWithinConservationArea
	c.ConservationAreaReference = clonePtr(p.ConservationAreaReference)
	c.EstimatedTotalFellingVolume = p.EstimatedTotalFellingVolume
	c.IsRestocking = clonePtr(p.IsRestocking)
	c.NoRestockingReason = clonePtr(p.NoRestockingReason)
	c.ConfirmedFellingSpecies = species
	c.ConfirmedRestockingDetails = restocking
	return nil
}

func confirmRestocking(p ProposedRestockingDetail, fellingID, compartmentID string, newID func() string) ConfirmedRestockingDetail {
	proposedID := p.ID
	r := ConfirmedRestockingDetail{
		ID:                         newID(),
		ConfirmedFellingDetailID:   fellingID,
		SubmittedCompartmentID:     compartmentID,
		ProposedRestockingDetailID: &proposedID,
		RestockingProposal:         p.RestockingProposal,
		Area:                       p.Area,
		PercentageOfRestockArea:    clonePtr(p.PercentageOfRestockArea),
		RestockingDensity:          clonePtr(p.RestockingDensity),
		NumberOfTrees:              clonePtr(p.NumberOfTrees),
		ConfirmedRestockingSpecies: make([]ConfirmedRestockingSpecies, 0, len(p.RestockingSpecies)),
	}
	for _, s := range p.RestockingSpecies {
		r.ConfirmedRestockingSpecies = append(r.ConfirmedRestockingSpecies, ConfirmedRestockingSpecies{
			ID:         newID(),
			Species:    s.Species,
			Percentage: s.Percentage,
		})
	}
	return r
}

// AmendedFellingProperties lists the fields of c that differ from the
// proposed record p, keyed by field name with the confirmed value rendered
// for display. An unamended record yields an empty map.
func AmendedFellingProperties(p ProposedFellingDetail, c ConfirmedFellingDetail) map[string]string {
	changes := make(map[string]string)

	if p.AreaToBeFelled != c.AreaToBeFelled {
		changes["AreaToBeFelled"] = formatFloat(c.AreaToBeFelled)
	}
	if p.IsPartOfTreePreservationOrder != c.IsPartOfTreePreservationOrder {
		changes["IsPartOfTreePreservationOrder"] = formatBool(c.IsPartOfTreePreservationOrder)
	}
	if !equalPtr(p.TreePreservationOrderReference, c.TreePreservationOrderReference) {
		changes["TreePreservationOrderReference"] = formatString(c.TreePreservationOrderReference)
	}
	if p.IsWithinConservationArea != c.IsWithinConservationArea {
		changes["IsWithinConservationArea"] = formatBool(c.IsWithinConservationArea)
	}
	if !equalPtr(p.ConservationAreaReference, c.ConservationAreaReference) {
		changes["ConservationAreaReference"] = formatString(c.ConservationAreaReference)
	}
	if !equalPtr(p.NumberOfTrees, c.NumberOfTrees) {
		changes["NumberOfTrees"] = formatInt(c.NumberOfTrees)
	}
	if p.OperationType != c.OperationType {
		changes["OperationType"] = string(c.OperationType)
	}
	if !equalPtr(p.TreeMarking, c.TreeMarking) {
		changes["TreeMarking"] = formatString(c.TreeMarking)
	}
	if p.EstimatedTotalFellingVolume != c.EstimatedTotalFellingVolume {
		changes["EstimatedTotalFellingVolume"] = formatFloat(c.EstimatedTotalFellingVolume)
	}
	if !equalPtr(p.IsRestocking, c.IsRestocking) {
		if c.IsRestocking == nil {
			changes["IsRestocking"] = none
		} else {
			changes["IsRestocking"] = formatBool(*c.IsRestocking)
		}
	}
	if !equalPtr(p.NoRestockingReason, c.NoRestockingReason) {
		changes["NoRestockingReason"] = formatString(c.NoRestockingReason)
	}

	proposed := make([]string, 0, len(p.FellingSpecies))
	for _, s := range p.FellingSpecies {
		proposed = append(proposed, s.Species)
	}
	confirmed := make([]string, 0, len(c.ConfirmedFellingSpecies))
	for _, s := range c.ConfirmedFellingSpecies {
		confirmed = append(confirmed, s.Species)
	}
	if len(symmetricDifference(proposed, confirmed)) > 0 {
		changes["Species"] = joinSpecies(confirmed)
	}

	return changes
}

// AmendedRestockingProperties is the restocking counterpart of
// AmendedFellingProperties.
func AmendedRestockingProperties(p ProposedRestockingDetail, c ConfirmedRestockingDetail) map[string]string {
	changes := make(map[string]string)

	if p.Area != c.Area {
		changes["Area"] = formatFloat(c.Area)
	}
	if !equalPtr(p.PercentageOfRestockArea, c.PercentageOfRestockArea) {
		changes["PercentageOfRestockArea"] = formatFloatPtr(c.PercentageOfRestockArea)
	}
	if !equalPtr(p.RestockingDensity, c.RestockingDensity) {
		changes["RestockingDensity"] = formatFloatPtr(c.RestockingDensity)
	}
	if !equalPtr(p.NumberOfTrees, c.NumberOfTrees) {
		changes["NumberOfTrees"] = formatInt(c.NumberOfTrees)
	}
	if p.RestockingProposal != c.RestockingProposal {
		changes["RestockingProposal"] = string(c.RestockingProposal)
	}

	proposed := make([]string, 0, len(p.RestockingSpecies))
	for _, s := range p.RestockingSpecies {
		proposed = append(proposed, s.Species)
	}
	confirmed := make([]string, 0, len(c.ConfirmedRestockingSpecies))
	for _, s := range c.ConfirmedRestockingSpecies {
		confirmed = append(confirmed, s.Species)
	}
	if len(symmetricDifference(proposed, confirmed)) > 0 {
		changes["Species"] = joinSpecies(confirmed)
	}

	return changes
}

// symmetricDifference returns the codes present in exactly one of a and b, sorted.
func symmetricDifference(a, b []string) []string {
	inA := make(map[string]bool, len(a))
	for _, s := range a {
		inA[s] = true
	}
	inB := make(map[string]bool, len(b))
	for _, s := range b {
		inB[s] = true
	}
	var diff []string
	for s := range inA {
		if !inB[s] {
			diff = append(diff, s)
		}
	}
	for s := range inB {
		if !inA[s] {
			diff = append(diff, s)
		}
	}
	sort.Strings(diff)
	return diff
}

const none = "None"

func joinSpecies(codes []string) string {
	if len(codes) == 0 {
		return none
	}
	sorted := append([]string(nil), codes...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return none
	}
	return formatFloat(*v)
}

func formatInt(v *int) string {
	if v == nil {
		return none
	}
	return strconv.Itoa(*v)
}

func formatString(v *string) string {
	if v == nil || *v == "" {
		return none
	}
	return *v
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
