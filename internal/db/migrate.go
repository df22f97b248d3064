package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN is not idempotent in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS felling_licence_applications (
		id                         TEXT PRIMARY KEY,
		application_reference      TEXT NOT NULL UNIQUE,
		woodland_owner_id          TEXT NOT NULL,
		created_by_id              TEXT NOT NULL,
		final_action_date          TEXT,
		final_action_date_extended INTEGER NOT NULL DEFAULT 0,
		extension_length_seconds   INTEGER,
		created_at                 TEXT NOT NULL,
		updated_at                 TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_applications_final_action_date ON felling_licence_applications(final_action_date)`,

	`CREATE TABLE IF NOT EXISTS status_histories (
		id             TEXT PRIMARY KEY,
		application_id TEXT NOT NULL REFERENCES felling_licence_applications(id) ON DELETE CASCADE,
		status         TEXT NOT NULL
		               CHECK(status IN ('Draft','Submitted','Received','WithApplicant','ReturnedToApplicant',
		                                'AdminOfficerReview','WoodlandOfficerReview','SentForApproval','Approved',
		                                'Refused','Withdrawn','ReferredToLocalAuthority','ApprovedInError')),
		created        TEXT NOT NULL,
		created_by_id  TEXT,
		seq            INTEGER NOT NULL,
		UNIQUE(application_id, seq)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_status_histories_application ON status_histories(application_id)`,

	`CREATE TABLE IF NOT EXISTS assignee_histories (
		id                   TEXT PRIMARY KEY,
		application_id       TEXT NOT NULL REFERENCES felling_licence_applications(id) ON DELETE CASCADE,
		assigned_user_id     TEXT NOT NULL,
		role                 TEXT NOT NULL
		                     CHECK(role IN ('Author','Applicant','AdminOfficer','WoodlandOfficer','FieldManager','ApprovingOfficer')),
		timestamp_assigned   TEXT NOT NULL,
		timestamp_unassigned TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assignee_histories_application ON assignee_histories(application_id)`,

	`CREATE TABLE IF NOT EXISTS woodland_officer_reviews (
		id                                        TEXT PRIMARY KEY,
		application_id                            TEXT NOT NULL UNIQUE REFERENCES felling_licence_applications(id) ON DELETE CASCADE,
		confirmed_felling_and_restocking_complete INTEGER NOT NULL DEFAULT 0,
		site_visit_complete                       INTEGER NOT NULL DEFAULT 0,
		conditions_complete                       INTEGER NOT NULL DEFAULT 0,
		last_updated_by_id                        TEXT NOT NULL,
		last_updated_date                         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS amendment_reviews (
		id                              TEXT PRIMARY KEY,
		woodland_officer_review_id      TEXT NOT NULL REFERENCES woodland_officer_reviews(id) ON DELETE CASCADE,
		amending_woodland_officer_id    TEXT NOT NULL,
		amendments_sent_date            TEXT NOT NULL,
		amendments_reason               TEXT,
		response_deadline               TEXT NOT NULL,
		reminder_notification_sent_date TEXT,
		responding_user_id              TEXT,
		response_received_date          TEXT,
		applicant_agreed                INTEGER,
		applicant_disagreement_reason   TEXT,
		amendment_review_completed      INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_amendment_reviews_review ON amendment_reviews(woodland_officer_review_id)`,
	`CREATE INDEX IF NOT EXISTS idx_amendment_reviews_deadline ON amendment_reviews(response_deadline)`,

	`CREATE TABLE IF NOT EXISTS linked_property_profiles (
		id                  TEXT PRIMARY KEY,
		application_id      TEXT NOT NULL UNIQUE REFERENCES felling_licence_applications(id) ON DELETE CASCADE,
		property_profile_id TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS proposed_felling_details (
		id                                TEXT PRIMARY KEY,
		linked_property_profile_id        TEXT NOT NULL REFERENCES linked_property_profiles(id) ON DELETE CASCADE,
		property_profile_compartment_id   TEXT NOT NULL,
		operation_type                    TEXT NOT NULL,
		area_to_be_felled                 REAL NOT NULL DEFAULT 0,
		number_of_trees                   INTEGER,
		tree_marking                      TEXT,
		is_part_of_tree_preservation_order INTEGER NOT NULL DEFAULT 0,
		tree_preservation_order_reference TEXT,
		is_within_conservation_area       INTEGER NOT NULL DEFAULT 0,
		conservation_area_reference       TEXT,
		estimated_total_felling_volume    REAL NOT NULL DEFAULT 0,
		is_restocking                     INTEGER,
		no_restocking_reason              TEXT,
		ordinal                           INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_proposed_felling_profile ON proposed_felling_details(linked_property_profile_id)`,
	`CREATE TABLE IF NOT EXISTS felling_species (
		id                         TEXT PRIMARY KEY,
		proposed_felling_detail_id TEXT NOT NULL REFERENCES proposed_felling_details(id) ON DELETE CASCADE,
		species                    TEXT NOT NULL,
		ordinal                    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS proposed_restocking_details (
		id                              TEXT PRIMARY KEY,
		proposed_felling_detail_id      TEXT NOT NULL REFERENCES proposed_felling_details(id) ON DELETE CASCADE,
		property_profile_compartment_id TEXT NOT NULL,
		restocking_proposal             TEXT NOT NULL,
		area                            REAL NOT NULL DEFAULT 0,
		percentage_of_restock_area      REAL,
		restocking_density              REAL,
		number_of_trees                 INTEGER,
		ordinal                         INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS restocking_species (
		id                            TEXT PRIMARY KEY,
		proposed_restocking_detail_id TEXT NOT NULL REFERENCES proposed_restocking_details(id) ON DELETE CASCADE,
		species                       TEXT NOT NULL,
		percentage                    REAL NOT NULL DEFAULT 0,
		ordinal                       INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS submitted_property_profiles (
		id             TEXT PRIMARY KEY,
		application_id TEXT NOT NULL UNIQUE REFERENCES felling_licence_applications(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS submitted_compartments (
		id                            TEXT PRIMARY KEY,
		submitted_property_profile_id TEXT NOT NULL REFERENCES submitted_property_profiles(id) ON DELETE CASCADE,
		compartment_id                TEXT NOT NULL,
		compartment_number            TEXT NOT NULL,
		sub_compartment_name          TEXT,
		total_hectares                REAL,
		UNIQUE(submitted_property_profile_id, compartment_id)
	)`,

	`CREATE TABLE IF NOT EXISTS confirmed_felling_details (
		id                                TEXT PRIMARY KEY,
		submitted_compartment_id          TEXT NOT NULL REFERENCES submitted_compartments(id) ON DELETE CASCADE,
		proposed_felling_detail_id        TEXT,
		operation_type                    TEXT NOT NULL,
		area_to_be_felled                 REAL NOT NULL DEFAULT 0,
		number_of_trees                   INTEGER,
		tree_marking                      TEXT,
		is_part_of_tree_preservation_order INTEGER NOT NULL DEFAULT 0,
		tree_preservation_order_reference TEXT,
		is_within_conservation_area       INTEGER NOT NULL DEFAULT 0,
		conservation_area_reference       TEXT,
		estimated_total_felling_volume    REAL NOT NULL DEFAULT 0,
		is_restocking                     INTEGER,
		no_restocking_reason              TEXT,
		ordinal                           INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_confirmed_felling_compartment ON confirmed_felling_details(submitted_compartment_id)`,
	`CREATE INDEX IF NOT EXISTS idx_confirmed_felling_proposed ON confirmed_felling_details(proposed_felling_detail_id)`,
	`CREATE TABLE IF NOT EXISTS confirmed_felling_species (
		id                          TEXT PRIMARY KEY,
		confirmed_felling_detail_id TEXT NOT NULL REFERENCES confirmed_felling_details(id) ON DELETE CASCADE,
		species                     TEXT NOT NULL,
		ordinal                     INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS confirmed_restocking_details (
		id                            TEXT PRIMARY KEY,
		confirmed_felling_detail_id   TEXT NOT NULL REFERENCES confirmed_felling_details(id) ON DELETE CASCADE,
		submitted_compartment_id      TEXT NOT NULL REFERENCES submitted_compartments(id) ON DELETE CASCADE,
		proposed_restocking_detail_id TEXT,
		restocking_proposal           TEXT NOT NULL,
		area                          REAL NOT NULL DEFAULT 0,
		percentage_of_restock_area    REAL,
		restocking_density            REAL,
		number_of_trees               INTEGER,
		ordinal                       INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS confirmed_restocking_species (
		id                            TEXT PRIMARY KEY,
		confirmed_restocking_detail_id TEXT NOT NULL REFERENCES confirmed_restocking_details(id) ON DELETE CASCADE,
		species                       TEXT NOT NULL,
		percentage                    REAL NOT NULL DEFAULT 0,
		ordinal                       INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS audit_events (
		id             TEXT PRIMARY KEY,
		application_id TEXT,
		actor_id       TEXT,
		name           TEXT NOT NULL,
		source         TEXT NOT NULL,
		occurred_at    TEXT NOT NULL,
		detail         TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_application ON audit_events(application_id)`,
}
