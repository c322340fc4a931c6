package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"textassign/internal/models"
	"textassign/internal/repository"
)

// ApprovalWebhook submits newly created requests to an external approval
// endpoint. Implemented by webhook.Client.
type ApprovalWebhook interface {
	Enabled() bool
	RequestApproval(ctx context.Context, count int, email string) error
}

// RequestService owns the assignment-request lifecycle:
// pending -> approved | rejected, terminal states never revisited.
type RequestService struct {
	db       *sql.DB
	requests repository.RequestRepository
	users    repository.UserRepository
	pool     *PoolService
	dist     *DistributionService
	auth     Authorizer
	webhook  ApprovalWebhook
}

// NewRequestService creates a new request service. webhook may be nil
// (no external approval step).
func NewRequestService(
	db *sql.DB,
	requests repository.RequestRepository,
	users repository.UserRepository,
	pool *PoolService,
	dist *DistributionService,
	auth Authorizer,
	webhook ApprovalWebhook,
) *RequestService {
	return &RequestService{
		db:       db,
		requests: requests,
		users:    users,
		pool:     pool,
		dist:     dist,
		auth:     auth,
		webhook:  webhook,
	}
}

// Create persists a texter's request for more work and submits it to the
// approval webhook when one is configured. A failed webhook call deletes the
// inserted row again: the request then never existed. When the texter has no
// assignment targets at all, no row is created and the informational message
// is returned instead.
func (s *RequestService) Create(ctx context.Context, userID, organizationID, count int, preferredTeamID *int, email string) (string, error) {
	targets, err := s.pool.ResolveForUser(ctx, userID, organizationID)
	if err != nil {
		return "", err
	}
	if len(targets) == 0 {
		return MsgNoTextsAvailable, nil
	}

	request := &models.AssignmentRequest{
		UserID:          userID,
		OrganizationID:  organizationID,
		Amount:          count,
		PreferredTeamID: preferredTeamID,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return "", err
	}

	if s.webhook != nil && s.webhook.Enabled() {
		if err := s.webhook.RequestApproval(ctx, count, email); err != nil {
			log.Printf("Error submitting external assignment request, deleting request %d: %v", request.ID, err)
			if delErr := s.requests.Delete(ctx, request.ID); delErr != nil {
				log.Printf("Warning: failed to delete assignment request %d: %v", request.ID, delErr)
			}
			return "", &ExternalServiceError{Service: "assignment approval", Err: err}
		}
	}

	return MsgCreated, nil
}

// Approve grants the requested texts: the distribution session and the status
// update commit together or not at all. Requires supervisor-level access in
// the request's organization.
func (s *RequestService) Approve(ctx context.Context, requestID, approverID int) (int, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return 0, &NotFoundError{Resource: "assignment request", ID: requestID}
	}

	if err := s.auth.RequireRole(ctx, approverID, request.OrganizationID, models.RoleSupervolunteer); err != nil {
		return 0, err
	}

	if request.Status != models.RequestStatusPending {
		return 0, &BusinessLogicError{Message: fmt.Sprintf("request is already %s", request.Status)}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := s.dist.Distribute(ctx, tx, request.UserID, request.OrganizationID, request.Amount, request.PreferredTeamID)
	if err != nil {
		return 0, err
	}

	if err := s.requests.SetStatus(ctx, tx, requestID, models.RequestStatusApproved, &approverID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit approval: %w", err)
	}

	s.dist.FinishSession(request.OrganizationID, result)
	return result.Assigned, nil
}

// Reject marks the request rejected. No distribution side effects.
func (s *RequestService) Reject(ctx context.Context, requestID, approverID int) error {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return &NotFoundError{Resource: "assignment request", ID: requestID}
	}

	if err := s.auth.RequireRole(ctx, approverID, request.OrganizationID, models.RoleSupervolunteer); err != nil {
		return err
	}

	if request.Status != models.RequestStatusPending {
		return &BusinessLogicError{Message: fmt.Sprintf("request is already %s", request.Status)}
	}

	return s.requests.SetStatus(ctx, s.db, requestID, models.RequestStatusRejected, &approverID)
}

// FulfillPendingFor resolves the caller's identity token to a user, picks
// their most relevant pending request, and fulfills it. On any distribution
// failure the request is marked rejected outside the failed transaction so
// the rejection survives the rollback; the error is re-raised tagged fatal
// unless it was the expected no-work condition.
func (s *RequestService) FulfillPendingFor(ctx context.Context, externalID string) (int, error) {
	user, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, &AutoassignError{Message: fmt.Sprintf("no user found with id %s", externalID), Fatal: true}
	}

	request, err := s.requests.FirstPendingForUser(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	if request == nil {
		return 0, &AutoassignError{Message: fmt.Sprintf("no pending request exists for %s", externalID), Fatal: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := s.dist.Distribute(ctx, tx, request.UserID, request.OrganizationID, request.Amount, request.PreferredTeamID)
	if err != nil {
		tx.Rollback()
		log.Printf("Failed to fulfill request %d for %s, marking rejected: %v", request.ID, externalID, err)

		// Written on the bare connection so it survives the rollback
		if setErr := s.requests.SetStatus(ctx, s.db, request.ID, models.RequestStatusRejected, nil); setErr != nil {
			log.Printf("Warning: failed to mark request %d rejected: %v", request.ID, setErr)
		}

		return 0, &AutoassignError{Message: err.Error(), Fatal: !IsNoEligibleWork(err)}
	}

	if err := s.requests.SetStatus(ctx, tx, request.ID, models.RequestStatusApproved, nil); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit fulfillment: %w", err)
	}

	s.dist.FinishSession(request.OrganizationID, result)
	return result.Assigned, nil
}

// PendingCount reports how many requests are waiting for review in the
// organization
func (s *RequestService) PendingCount(ctx context.Context, organizationID int) (int, error) {
	return s.requests.PendingCount(ctx, organizationID)
}
