package repository

import (
	"context"
	"database/sql"
	"fmt"

	"textassign/internal/models"
)

type assignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

// GetByID retrieves an assignment by ID
func (r *assignmentRepository) GetByID(ctx context.Context, id int) (*models.Assignment, error) {
	query := `
		SELECT id, user_id, campaign_id, max_contacts, created_at
		FROM assignment
		WHERE id = $1
	`

	assignment := &models.Assignment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&assignment.ID,
		&assignment.UserID,
		&assignment.CampaignID,
		&assignment.MaxContacts,
		&assignment.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("assignment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return assignment, nil
}

// GetByUserAndCampaign retrieves the user's assignment for a campaign, or
// (nil, nil) if none exists. Runs on q so find-or-create shares the claim
// transaction.
func (r *assignmentRepository) GetByUserAndCampaign(ctx context.Context, q DB, userID, campaignID int) (*models.Assignment, error) {
	query := `
		SELECT id, user_id, campaign_id, max_contacts, created_at
		FROM assignment
		WHERE user_id = $1 AND campaign_id = $2
	`

	assignment := &models.Assignment{}
	err := q.QueryRowContext(ctx, query, userID, campaignID).Scan(
		&assignment.ID,
		&assignment.UserID,
		&assignment.CampaignID,
		&assignment.MaxContacts,
		&assignment.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return assignment, nil
}

// Create inserts a new assignment for (user, campaign)
func (r *assignmentRepository) Create(ctx context.Context, q DB, userID, campaignID int) (*models.Assignment, error) {
	query := `
		INSERT INTO assignment (user_id, campaign_id)
		VALUES ($1, $2)
		RETURNING id, user_id, campaign_id, max_contacts, created_at
	`

	assignment := &models.Assignment{}
	err := q.QueryRowContext(ctx, query, userID, campaignID).Scan(
		&assignment.ID,
		&assignment.UserID,
		&assignment.CampaignID,
		&assignment.MaxContacts,
		&assignment.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment, nil
}

// ContactCount counts unarchived contacts attached to the assignment
func (r *assignmentRepository) ContactCount(ctx context.Context, assignmentID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM campaign_contact
		WHERE assignment_id = $1 AND archived = false
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignment contacts: %w", err)
	}

	return count, nil
}

// UnsentContactCount counts contacts on the assignment still waiting for a
// first message
func (r *assignmentRepository) UnsentContactCount(ctx context.Context, assignmentID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM campaign_contact
		WHERE assignment_id = $1
		  AND message_status = 'needsMessage'
		  AND is_opted_out = false
		  AND archived = false
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, assignmentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unsent contacts: %w", err)
	}

	return count, nil
}
