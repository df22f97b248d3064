package repository

import "github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"

// Set bundles every repository over one connection or transaction.
type Set struct {
	Applications           ApplicationRepo
	StatusHistories        StatusHistoryRepo
	AssigneeHistories      AssigneeHistoryRepo
	WoodlandOfficerReviews WoodlandOfficerReviewRepo
	AmendmentReviews       AmendmentReviewRepo
	ProposedFelling        ProposedFellingRepo
	SubmittedProperties    SubmittedPropertyRepo
	ConfirmedFelling       ConfirmedFellingRepo
	AuditEvents            AuditEventRepo
}

// NewSQLiteSet builds a Set of SQLite repositories over conn. Pass the
// transaction handed to db.UnitOfWork.WithinTx to scope every repository to it.
func NewSQLiteSet(conn db.DBTX) Set {
	return Set{
		Applications:           NewSQLiteApplicationRepo(conn),
		StatusHistories:        NewSQLiteStatusHistoryRepo(conn),
		AssigneeHistories:      NewSQLiteAssigneeHistoryRepo(conn),
		WoodlandOfficerReviews: NewSQLiteWoodlandOfficerReviewRepo(conn),
		AmendmentReviews:       NewSQLiteAmendmentReviewRepo(conn),
		ProposedFelling:        NewSQLiteProposedFellingRepo(conn),
		SubmittedProperties:    NewSQLiteSubmittedPropertyRepo(conn),
		ConfirmedFelling:       NewSQLiteConfirmedFellingRepo(conn),
		AuditEvents:            NewSQLiteAuditEventRepo(conn),
	}
}
