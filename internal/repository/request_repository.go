package repository

import (
	"context"
	"database/sql"
	"fmt"

	"textassign/internal/models"
)

type requestRepository struct {
	db *sql.DB
}

// NewRequestRepository creates a new assignment-request repository
func NewRequestRepository(db *sql.DB) RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `
	id, user_id, organization_id, amount, preferred_team_id, status,
	approved_by_user_id, created_at
`

// Create inserts a new pending assignment request
func (r *requestRepository) Create(ctx context.Context, request *models.AssignmentRequest) error {
	query := `
		INSERT INTO assignment_request (user_id, organization_id, amount, preferred_team_id, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, status, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		request.UserID,
		request.OrganizationID,
		request.Amount,
		request.PreferredTeamID,
	).Scan(&request.ID, &request.Status, &request.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create assignment request: %w", err)
	}

	return nil
}

// Delete removes an assignment request (compensating delete after a failed
// external approval call)
func (r *requestRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM assignment_request WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete assignment request: %w", err)
	}

	return nil
}

// GetByID retrieves an assignment request by ID
func (r *requestRepository) GetByID(ctx context.Context, id int) (*models.AssignmentRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM assignment_request
		WHERE id = $1
	`

	request := &models.AssignmentRequest{}
	err := scanRequest(r.db.QueryRowContext(ctx, query, id), request)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("assignment request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment request: %w", err)
	}

	return request, nil
}

// FirstPendingForUser retrieves the user's pending request, preferring the
// highest organization id when ambiguous. External callers may not be
// organization-aware.
func (r *requestRepository) FirstPendingForUser(ctx context.Context, userID int) (*models.AssignmentRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM assignment_request
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY organization_id DESC
		LIMIT 1
	`

	request := &models.AssignmentRequest{}
	err := scanRequest(r.db.QueryRowContext(ctx, query, userID), request)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending request: %w", err)
	}

	return request, nil
}

// SetStatus moves a request to a terminal status. Runs on q so approval can
// share the distribution transaction, while the compensating rejection after
// a failed fulfillment runs on the bare connection and survives the rollback.
func (r *requestRepository) SetStatus(ctx context.Context, q DB, id int, status models.AssignmentRequestStatus, approvedBy *int) error {
	query := `
		UPDATE assignment_request
		SET status = $1, approved_by_user_id = COALESCE($2, approved_by_user_id)
		WHERE id = $3
	`

	result, err := q.ExecContext(ctx, query, status, approvedBy, id)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("assignment request not found")
	}

	return nil
}

// PendingCount counts pending requests for the organization
func (r *requestRepository) PendingCount(ctx context.Context, organizationID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM assignment_request
		WHERE organization_id = $1 AND status = 'pending'
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, organizationID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending requests: %w", err)
	}

	return count, nil
}

func scanRequest(row rowScanner, request *models.AssignmentRequest) error {
	return row.Scan(
		&request.ID,
		&request.UserID,
		&request.OrganizationID,
		&request.Amount,
		&request.PreferredTeamID,
		&request.Status,
		&request.ApprovedByUserID,
		&request.CreatedAt,
	)
}
