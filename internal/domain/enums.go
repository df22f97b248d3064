package domain

type FellingLicenceStatus string

const (
	StatusDraft                    FellingLicenceStatus = "Draft"
	StatusSubmitted                FellingLicenceStatus = "Submitted"
	StatusReceived                 FellingLicenceStatus = "Received"
	StatusWithApplicant            FellingLicenceStatus = "WithApplicant"
	StatusReturnedToApplicant      FellingLicenceStatus = "ReturnedToApplicant"
	StatusAdminOfficerReview       FellingLicenceStatus = "AdminOfficerReview"
	StatusWoodlandOfficerReview    FellingLicenceStatus = "WoodlandOfficerReview"
	StatusSentForApproval          FellingLicenceStatus = "SentForApproval"
	StatusApproved                 FellingLicenceStatus = "Approved"
	StatusRefused                  FellingLicenceStatus = "Refused"
	StatusWithdrawn                FellingLicenceStatus = "Withdrawn"
	StatusReferredToLocalAuthority FellingLicenceStatus = "ReferredToLocalAuthority"
	StatusApprovedInError          FellingLicenceStatus = "ApprovedInError"
)

// ValidStatuses is the canonical set of accepted status strings.
var ValidStatuses = map[FellingLicenceStatus]bool{
	StatusDraft: true, StatusSubmitted: true, StatusReceived: true,
	StatusWithApplicant: true, StatusReturnedToApplicant: true,
	StatusAdminOfficerReview: true, StatusWoodlandOfficerReview: true,
	StatusSentForApproval: true, StatusApproved: true, StatusRefused: true,
	StatusWithdrawn: true, StatusReferredToLocalAuthority: true,
	StatusApprovedInError: true,
}

// IsFinal reports whether no further lifecycle transitions are expected.
func (s FellingLicenceStatus) IsFinal() bool {
	switch s {
	case StatusApproved, StatusRefused, StatusWithdrawn, StatusReferredToLocalAuthority:
		return true
	}
	return false
}

type AssignedUserRole string

const (
	RoleAuthor           AssignedUserRole = "Author"
	RoleApplicant        AssignedUserRole = "Applicant"
	RoleAdminOfficer     AssignedUserRole = "AdminOfficer"
	RoleWoodlandOfficer  AssignedUserRole = "WoodlandOfficer"
	RoleFieldManager     AssignedUserRole = "FieldManager"
	RoleApprovingOfficer AssignedUserRole = "ApprovingOfficer"
)

// ValidRoles is the canonical set of accepted assignee roles.
var ValidRoles = map[AssignedUserRole]bool{
	RoleAuthor: true, RoleApplicant: true, RoleAdminOfficer: true,
	RoleWoodlandOfficer: true, RoleFieldManager: true, RoleApprovingOfficer: true,
}

// ExternalRoles are held by applicant-side users rather than staff.
var ExternalRoles = []AssignedUserRole{RoleApplicant, RoleAuthor}

func (r AssignedUserRole) IsExternal() bool {
	for _, e := range ExternalRoles {
		if r == e {
			return true
		}
	}
	return false
}

// AmendEligibleRoles may edit or revert confirmed felling and restocking.
var AmendEligibleRoles = []AssignedUserRole{RoleWoodlandOfficer, RoleFieldManager}

type FellingOperationType string

const (
	OperationNone                   FellingOperationType = "None"
	OperationClearFelling           FellingOperationType = "ClearFelling"
	OperationFellingOfCoppice       FellingOperationType = "FellingOfCoppice"
	OperationFellingIndividualTrees FellingOperationType = "FellingIndividualTrees"
	OperationRegenerationFelling    FellingOperationType = "RegenerationFelling"
	OperationThinning               FellingOperationType = "Thinning"
)

type RestockingProposalType string

const (
	RestockingNone                     RestockingProposalType = "None"
	RestockingCreateDesignedOpenGround RestockingProposalType = "CreateDesignedOpenGround"
	RestockingNaturalColonisation      RestockingProposalType = "NaturalColonisation"
	RestockingPlantAnAlternativeArea   RestockingProposalType = "PlantAnAlternativeArea"
	RestockingReplantTheFelledArea     RestockingProposalType = "ReplantTheFelledArea"
	RestockingNaturalRegeneration      RestockingProposalType = "RestockByNaturalRegeneration"
	RestockingCoppiceRegrowth          RestockingProposalType = "RestockWithCoppiceRegrowth"
	RestockingIndividualTrees          RestockingProposalType = "RestockWithIndividualTrees"
)

type AccountType string

const (
	AccountExternal AccountType = "External"
	AccountAgent    AccountType = "Agent"
	AccountFcUser   AccountType = "FcUser"
)

type AmendmentReviewState string

const (
	AmendmentAwaitingResponse   AmendmentReviewState = "AwaitingResponse"
	AmendmentAgreed             AmendmentReviewState = "Agreed"
	AmendmentDisagreed          AmendmentReviewState = "Disagreed"
	AmendmentWithdrawnOnTimeout AmendmentReviewState = "WithdrawnOnTimeout"
	AmendmentCompleted          AmendmentReviewState = "Completed"
)
