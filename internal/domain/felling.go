package domain

// LinkedPropertyProfile links an application to the property profile it was
// submitted against and owns the applicant's proposed felling.
type LinkedPropertyProfile struct {
	ID                     string
	ApplicationID          string
	PropertyProfileID      string
	ProposedFellingDetails []ProposedFellingDetail
}

// ProposedFellingDetail is the applicant's submitted felling for one
// compartment. It is not edited after submission.
type ProposedFellingDetail struct {
	ID                             string
	LinkedPropertyProfileID        string
	PropertyProfileCompartmentID   string
	OperationType                  FellingOperationType
	AreaToBeFelled                 float64
	NumberOfTrees                  *int
	TreeMarking                    *string
	IsPartOfTreePreservationOrder  bool
	TreePreservationOrderReference *string
	IsWithinConservationArea       bool
	ConservationAreaReference      *string
	EstimatedTotalFellingVolume    float64
	IsRestocking                   *bool
	NoRestockingReason             *string

	FellingSpecies            []FellingSpecies
	ProposedRestockingDetails []ProposedRestockingDetail
}

type FellingSpecies struct {
	ID      string
	Species string
}

// ProposedRestockingDetail belongs to a proposed felling but may restock a
// different compartment from the one being felled.
type ProposedRestockingDetail struct {
	ID                           string
	ProposedFellingDetailID      string
	PropertyProfileCompartmentID string
	RestockingProposal           RestockingProposalType
	Area                         float64
	PercentageOfRestockArea      *float64
	RestockingDensity            *float64
	NumberOfTrees                *int

	RestockingSpecies []RestockingSpecies
}

type RestockingSpecies struct {
	ID         string
	Species    string
	Percentage float64
}

// SubmittedPropertyProfile is the snapshot of the property taken at
// submission; confirmed records hang off its compartments.
type SubmittedPropertyProfile struct {
	ID            string
	ApplicationID string
	Compartments  []SubmittedCompartment
}

// SubmittedCompartment snapshots one property-profile compartment.
// CompartmentID is the id of the property-profile compartment it copies.
type SubmittedCompartment struct {
	ID                         string
	SubmittedPropertyProfileID string
	CompartmentID              string
	CompartmentNumber          string
	SubCompartmentName         *string
	TotalHectares              *float64
}

// CompartmentByCompartmentID finds the submitted snapshot of a property-profile compartment.
func (p *SubmittedPropertyProfile) CompartmentByCompartmentID(compartmentID string) (SubmittedCompartment, bool) {
	if p == nil {
		return SubmittedCompartment{}, false
	}
	for _, c := range p.Compartments {
		if c.CompartmentID == compartmentID {
			return c, true
		}
	}
	return SubmittedCompartment{}, false
}

// ConfirmedFellingDetail is the officer's working copy of a felling. It is
// normally created from a proposed felling but may be added by hand, in
// which case ProposedFellingDetailID is nil.
type ConfirmedFellingDetail struct {
	ID                             string
	SubmittedCompartmentID         string
	ProposedFellingDetailID        *string
	OperationType                  FellingOperationType
	AreaToBeFelled                 float64
	NumberOfTrees                  *int
	TreeMarking                    *string
	IsPartOfTreePreservationOrder  bool
	TreePreservationOrderReference *string
	IsWithinConservationArea       bool
	ConservationAreaReference      *string
	EstimatedTotalFellingVolume    float64
	IsRestocking                   *bool
	NoRestockingReason             *string

	ConfirmedFellingSpecies    []ConfirmedFellingSpecies
	ConfirmedRestockingDetails []ConfirmedRestockingDetail
}

type ConfirmedFellingSpecies struct {
	ID      string
	Species string
}

type ConfirmedRestockingDetail struct {
	ID                         string
	ConfirmedFellingDetailID   string
	SubmittedCompartmentID     string
	ProposedRestockingDetailID *string
	RestockingProposal         RestockingProposalType
	Area                       float64
	PercentageOfRestockArea    *float64
	RestockingDensity          *float64
	NumberOfTrees              *int

	ConfirmedRestockingSpecies []ConfirmedRestockingSpecies
}

type ConfirmedRestockingSpecies struct {
	ID         string
	Species    string
	Percentage float64
}

// FindProposedFellingDetail locates a proposed felling by id.
func (l *LinkedPropertyProfile) FindProposedFellingDetail(id string) (ProposedFellingDetail, bool) {
	if l == nil {
		return ProposedFellingDetail{}, false
	}
	for _, d := range l.ProposedFellingDetails {
		if d.ID == id {
			return d, true
		}
	}
	return ProposedFellingDetail{}, false
}

// FindProposedRestockingDetail locates a proposed restocking anywhere in the tree.
func (l *LinkedPropertyProfile) FindProposedRestockingDetail(id string) (ProposedRestockingDetail, bool) {
	if l == nil {
		return ProposedRestockingDetail{}, false
	}
	for _, d := range l.ProposedFellingDetails {
		for _, r := range d.ProposedRestockingDetails {
			if r.ID == id {
				return r, true
			}
		}
	}
	return ProposedRestockingDetail{}, false
}
