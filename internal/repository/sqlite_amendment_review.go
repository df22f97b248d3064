package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

const amendmentReviewColumns = `ar.id, ar.woodland_officer_review_id, ar.amending_woodland_officer_id,
		ar.amendments_sent_date, ar.amendments_reason, ar.response_deadline,
		ar.reminder_notification_sent_date, ar.responding_user_id, ar.response_received_date,
		ar.applicant_agreed, ar.applicant_disagreement_reason, ar.amendment_review_completed`

// SQLiteAmendmentReviewRepo implements AmendmentReviewRepo.
type SQLiteAmendmentReviewRepo struct {
	db db.DBTX
}

func NewSQLiteAmendmentReviewRepo(conn db.DBTX) *SQLiteAmendmentReviewRepo {
	return &SQLiteAmendmentReviewRepo{db: conn}
}

func (r *SQLiteAmendmentReviewRepo) Create(ctx context.Context, a *domain.FellingAndRestockingAmendmentReview) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO amendment_reviews (id, woodland_officer_review_id, amending_woodland_officer_id,
			amendments_sent_date, amendments_reason, response_deadline, reminder_notification_sent_date,
			responding_user_id, response_received_date, applicant_agreed, applicant_disagreement_reason,
			amendment_review_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.WoodlandOfficerReviewID,
		a.AmendingWoodlandOfficerID,
		formatTime(a.AmendmentsSentDate),
		ptrValue(a.AmendmentsReason),
		formatTime(a.ResponseDeadline),
		nullableTimeToString(a.ReminderNotificationSentDate),
		ptrValue(a.RespondingUserID),
		nullableTimeToString(a.ResponseReceivedDate),
		nullableBoolToValue(a.ApplicantAgreed),
		ptrValue(a.ApplicantDisagreementReason),
		nullableBoolToValue(a.AmendmentReviewCompleted),
	)
	if err != nil {
		return fmt.Errorf("inserting amendment review: %w", err)
	}
	return nil
}

func (r *SQLiteAmendmentReviewRepo) GetByID(ctx context.Context, id string) (*domain.FellingAndRestockingAmendmentReview, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+amendmentReviewColumns+` FROM amendment_reviews ar WHERE ar.id = ?`, id)
	a, err := scanAmendmentReview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("amendment review %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteAmendmentReviewRepo) Update(ctx context.Context, a *domain.FellingAndRestockingAmendmentReview) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE amendment_reviews SET amendments_reason = ?, response_deadline = ?,
			reminder_notification_sent_date = ?, responding_user_id = ?, response_received_date = ?,
			applicant_agreed = ?, applicant_disagreement_reason = ?, amendment_review_completed = ?
		WHERE id = ?`,
		ptrValue(a.AmendmentsReason),
		formatTime(a.ResponseDeadline),
		nullableTimeToString(a.ReminderNotificationSentDate),
		ptrValue(a.RespondingUserID),
		nullableTimeToString(a.ResponseReceivedDate),
		nullableBoolToValue(a.ApplicantAgreed),
		ptrValue(a.ApplicantDisagreementReason),
		nullableBoolToValue(a.AmendmentReviewCompleted),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating amendment review: %w", err)
	}
	return requireAffected(res, "amendment review "+a.ID)
}

func (r *SQLiteAmendmentReviewRepo) ListByReview(ctx context.Context, woodlandOfficerReviewID string) ([]domain.FellingAndRestockingAmendmentReview, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+amendmentReviewColumns+` FROM amendment_reviews ar
		WHERE ar.woodland_officer_review_id = ? ORDER BY ar.amendments_sent_date, ar.id`,
		woodlandOfficerReviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing amendment reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.FellingAndRestockingAmendmentReview
	for rows.Next() {
		a, err := scanAmendmentReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating amendment reviews: %w", err)
	}
	return reviews, nil
}

func (r *SQLiteAmendmentReviewRepo) ListDueForReminder(ctx context.Context, now time.Time, window time.Duration) ([]domain.AmendmentCandidate, error) {
	return r.listCandidates(ctx,
		`ar.response_deadline >= ? AND ar.response_deadline <= ?
		AND ar.reminder_notification_sent_date IS NULL`,
		formatTime(now), formatTime(now.Add(window)),
	)
}

func (r *SQLiteAmendmentReviewRepo) ListPastDeadline(ctx context.Context, now time.Time) ([]domain.AmendmentCandidate, error) {
	return r.listCandidates(ctx, `ar.response_deadline < ?`, formatTime(now))
}

// listCandidates joins incomplete amendment reviews to their application.
// Applications without a woodland officer review drop out of the join.
func (r *SQLiteAmendmentReviewRepo) listCandidates(ctx context.Context, where string, args ...any) ([]domain.AmendmentCandidate, error) {
	query := `SELECT a.id, a.application_reference, a.woodland_owner_id, ` + amendmentReviewColumns + `
		FROM amendment_reviews ar
		JOIN woodland_officer_reviews w ON w.id = ar.woodland_officer_review_id
		JOIN felling_licence_applications a ON a.id = w.application_id
		WHERE COALESCE(ar.amendment_review_completed, 0) = 0 AND ` + where + `
		ORDER BY a.application_reference, ar.amendments_sent_date`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing amendment review candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.AmendmentCandidate
	for rows.Next() {
		var c domain.AmendmentCandidate
		prefix := []any{&c.ApplicationID, &c.ApplicationReference, &c.WoodlandOwnerID}
		review, err := scanAmendmentReviewWith(rows, prefix...)
		if err != nil {
			return nil, err
		}
		c.Review = review
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating amendment review candidates: %w", err)
	}
	return candidates, nil
}

func scanAmendmentReview(row rowScanner) (domain.FellingAndRestockingAmendmentReview, error) {
	return scanAmendmentReviewWith(row)
}

// scanAmendmentReviewWith scans leading columns into prefix before the
// amendment review columns.
func scanAmendmentReviewWith(row rowScanner, prefix ...any) (domain.FellingAndRestockingAmendmentReview, error) {
	var a domain.FellingAndRestockingAmendmentReview
	var sent, deadline string
	var reason, respondingUser, disagreement sql.NullString
	var reminderSent, responseReceived sql.NullString
	var agreed, completed sql.NullInt64

	dest := append(prefix,
		&a.ID, &a.WoodlandOfficerReviewID, &a.AmendingWoodlandOfficerID,
		&sent, &reason, &deadline,
		&reminderSent, &respondingUser, &responseReceived,
		&agreed, &disagreement, &completed,
	)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, err
		}
		return a, fmt.Errorf("scanning amendment review: %w", err)
	}

	var err error
	if a.AmendmentsSentDate, err = parseTime(sent, "amendments_sent_date"); err != nil {
		return a, err
	}
	if a.ResponseDeadline, err = parseTime(deadline, "response_deadline"); err != nil {
		return a, err
	}
	a.AmendmentsReason = nullableString(reason)
	a.ReminderNotificationSentDate = parseNullableTime(reminderSent)
	a.RespondingUserID = nullableString(respondingUser)
	a.ResponseReceivedDate = parseNullableTime(responseReceived)
	a.ApplicantAgreed = nullableBool(agreed)
	a.ApplicantDisagreementReason = nullableString(disagreement)
	a.AmendmentReviewCompleted = nullableBool(completed)
	return a, nil
}
