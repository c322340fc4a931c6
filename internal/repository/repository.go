package repository

import (
	"context"
	"database/sql"

	"textassign/internal/models"
)

// DB is a wrapper around *sql.DB to allow passing in a transaction.
// Claim queries must run inside the caller's transaction so a rollback
// releases their row locks and leaves contacts unassigned.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// OrganizationRepository defines organization data access operations
type OrganizationRepository interface {
	GetByID(ctx context.Context, id int) (*models.Organization, error)
	GetAssignmentConfig(ctx context.Context, id int) (models.AssignmentConfig, error)
}

// UserRepository defines user data access operations
type UserRepository interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	RoleInOrganization(ctx context.Context, userID, organizationID int) (models.Role, error)
}

// TeamRepository defines team data access operations
type TeamRepository interface {
	// ListByOrganization returns every team of the organization, enabled or
	// not, with escalation tags attached.
	ListByOrganization(ctx context.Context, organizationID int) ([]*models.Team, error)
	// ListEnabledForUser returns the assignment-enabled teams the user belongs to.
	ListEnabledForUser(ctx context.Context, organizationID, userID int) ([]*models.Team, error)
	// UserEscalationTags returns the union of escalation tags across the
	// user's teams. Runs on q so it can share the claim transaction.
	UserEscalationTags(ctx context.Context, q DB, userID int) ([]int64, error)
}

// CampaignRepository defines campaign data access operations
type CampaignRepository interface {
	GetByID(ctx context.Context, id int) (*models.Campaign, error)
	// ListWithPendingSends returns unarchived, not-past-due campaigns with at
	// least one unassigned needsMessage contact, ordered by id.
	ListWithPendingSends(ctx context.Context, organizationID int) ([]*models.Campaign, error)
	// ListWithPendingReplies returns unarchived campaigns with at least one
	// unassigned, non-escalated needsResponse contact, ordered by id.
	ListWithPendingReplies(ctx context.Context, organizationID int) ([]*models.Campaign, error)
	// ListAssignable returns all unarchived campaigns, ordered by id.
	ListAssignable(ctx context.Context, organizationID int) ([]*models.Campaign, error)
	ListTeamLinks(ctx context.Context, organizationID int) ([]models.CampaignTeamLink, error)
	// ListEscalationReplyTagSets returns, per reply-needed escalated contact,
	// the set of escalation tags applied to it.
	ListEscalationReplyTagSets(ctx context.Context, organizationID int) ([]models.EscalationTagSet, error)
	CountAssignableSends(ctx context.Context, campaignID int) (int, error)
	CountAssignableReplies(ctx context.Context, campaignID int, includeEscalated bool) (int, error)
}

// AssignmentRepository defines assignment data access operations
type AssignmentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Assignment, error)
	// GetByUserAndCampaign returns (nil, nil) when no assignment exists yet.
	GetByUserAndCampaign(ctx context.Context, q DB, userID, campaignID int) (*models.Assignment, error)
	Create(ctx context.Context, q DB, userID, campaignID int) (*models.Assignment, error)
	ContactCount(ctx context.Context, assignmentID int) (int, error)
	UnsentContactCount(ctx context.Context, assignmentID int) (int, error)
}

// ContactRepository defines the claim operations on campaign contacts. All
// claim methods lock candidate rows with SKIP LOCKED inside the caller's
// transaction and return the number of contacts actually attached.
type ContactRepository interface {
	ClaimUnsent(ctx context.Context, q DB, campaignID, assignmentID, limit int) (int, error)
	ClaimReplies(ctx context.Context, q DB, campaignID, assignmentID, limit int, escalationTags []int64) (int, error)
	// ClaimIntoAssignment attaches unassigned contacts of the campaign to an
	// existing assignment regardless of message status (dynamic top-up).
	ClaimIntoAssignment(ctx context.Context, campaignID, assignmentID, limit int) (int, error)
}

// RequestRepository defines assignment-request data access operations
type RequestRepository interface {
	Create(ctx context.Context, request *models.AssignmentRequest) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.AssignmentRequest, error)
	// FirstPendingForUser returns the pending request with the highest
	// organization id, or (nil, nil) when none exists.
	FirstPendingForUser(ctx context.Context, userID int) (*models.AssignmentRequest, error)
	SetStatus(ctx context.Context, q DB, id int, status models.AssignmentRequestStatus, approvedBy *int) error
	PendingCount(ctx context.Context, organizationID int) (int, error)
}
