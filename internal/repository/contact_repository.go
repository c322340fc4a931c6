package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

// ClaimUnsent locks up to limit unassigned needsMessage contacts of the
// campaign and attaches them to the assignment. SKIP LOCKED makes concurrent
// claimants partition the pool instead of blocking: a contact selected here is
// guaranteed not to be selected by any concurrent claim.
func (r *contactRepository) ClaimUnsent(ctx context.Context, q DB, campaignID, assignmentID, limit int) (int, error) {
	query := `
		WITH matching_contact AS (
			SELECT cc.id
			FROM campaign_contact cc
			JOIN campaign c ON c.id = cc.campaign_id
			WHERE cc.campaign_id = $1
			  AND cc.message_status = 'needsMessage'
			  AND cc.is_opted_out = false
			  AND cc.archived = false
			  AND cc.assignment_id IS NULL
			  AND c.is_archived = false
			  AND (c.due_by IS NULL OR c.due_by + INTERVAL '24 hours' > NOW())
			FOR UPDATE OF cc SKIP LOCKED
			LIMIT $2
		)
		UPDATE campaign_contact AS target_contact
		SET assignment_id = $3
		FROM matching_contact
		WHERE target_contact.id = matching_contact.id
	`

	result, err := q.ExecContext(ctx, query, campaignID, limit, assignmentID)
	if err != nil {
		return 0, fmt.Errorf("failed to claim unsent contacts: %w", err)
	}

	return rowsAffected(result)
}

// ClaimReplies locks up to limit unassigned needsResponse contacts and
// attaches them to the assignment. A contact with escalation tags is eligible
// only when its applied tag set is contained in escalationTags.
func (r *contactRepository) ClaimReplies(ctx context.Context, q DB, campaignID, assignmentID, limit int, escalationTags []int64) (int, error) {
	query := `
		WITH matching_contact AS (
			SELECT cc.id
			FROM campaign_contact cc
			WHERE cc.campaign_id = $1
			  AND cc.message_status = 'needsResponse'
			  AND cc.is_opted_out = false
			  AND cc.archived = false
			  AND cc.assignment_id IS NULL
			  AND (
				NOT EXISTS (
					SELECT 1
					FROM campaign_contact_tag cct
					JOIN tag t ON t.id = cct.tag_id
					WHERE cct.campaign_contact_id = cc.id AND t.is_assignable = false
				)
				OR (
					SELECT array_agg(cct.tag_id)
					FROM campaign_contact_tag cct
					JOIN tag t ON t.id = cct.tag_id
					WHERE cct.campaign_contact_id = cc.id AND t.is_assignable = false
				) <@ $2
			  )
			FOR UPDATE OF cc SKIP LOCKED
			LIMIT $3
		)
		UPDATE campaign_contact AS target_contact
		SET assignment_id = $4
		FROM matching_contact
		WHERE target_contact.id = matching_contact.id
	`

	result, err := q.ExecContext(ctx, query, campaignID, pq.Array(escalationTags), limit, assignmentID)
	if err != nil {
		return 0, fmt.Errorf("failed to claim reply contacts: %w", err)
	}

	return rowsAffected(result)
}

// ClaimIntoAssignment attaches up to limit unassigned contacts of the campaign
// to an existing assignment, regardless of message status
func (r *contactRepository) ClaimIntoAssignment(ctx context.Context, campaignID, assignmentID, limit int) (int, error) {
	query := `
		WITH matching_contact AS (
			SELECT id
			FROM campaign_contact
			WHERE campaign_id = $1
			  AND assignment_id IS NULL
			  AND archived = false
			FOR UPDATE SKIP LOCKED
			LIMIT $2
		)
		UPDATE campaign_contact AS target_contact
		SET assignment_id = $3
		FROM matching_contact
		WHERE target_contact.id = matching_contact.id
	`

	result, err := r.db.ExecContext(ctx, query, campaignID, limit, assignmentID)
	if err != nil {
		return 0, fmt.Errorf("failed to claim contacts into assignment: %w", err)
	}

	return rowsAffected(result)
}

func rowsAffected(result sql.Result) (int, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}
