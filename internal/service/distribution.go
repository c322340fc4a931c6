package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"textassign/internal/models"
	"textassign/internal/repository"
)

// EventPublisher emits assignment-created events for the out-of-scope
// notification subsystem. Implemented by queue.EventPublisher.
type EventPublisher interface {
	PublishAssignmentCreated(assignment *models.Assignment) error
}

// ExhaustionNotifier schedules the pool-exhaustion check after a
// distribution session commits. Implemented by NotifierService.
type ExhaustionNotifier interface {
	Schedule(organizationID int, visited map[int]string)
}

// DistributionService drives repeated claims across the ranked target list
// until the requested quantity is fulfilled or no targets remain
type DistributionService struct {
	db       *sql.DB
	pool     *PoolService
	claims   *ClaimService
	events   EventPublisher
	notifier ExhaustionNotifier
}

// NewDistributionService creates a new distribution service. events and
// notifier may be nil (disabled).
func NewDistributionService(
	db *sql.DB,
	pool *PoolService,
	claims *ClaimService,
	events EventPublisher,
	notifier ExhaustionNotifier,
) *DistributionService {
	return &DistributionService{
		db:       db,
		pool:     pool,
		claims:   claims,
		events:   events,
		notifier: notifier,
	}
}

// DistributionResult is the outcome of one distribution session
type DistributionResult struct {
	Assigned int

	// Visited maps team id to title for every team a claim succeeded
	// against; the exhaustion notifier diffs it against a fresh resolution.
	Visited map[int]string

	// Created holds assignment rows inserted during the session. Their
	// events are published only after the owning transaction commits.
	Created []*models.Assignment
}

// Distribute claims up to count contacts for the user inside tx, walking
// targets in priority order. Targets are re-resolved every iteration because
// earlier claims may have drained a pool. Fails only when the session ends
// with nothing claimed at all.
func (s *DistributionService) Distribute(
	ctx context.Context,
	tx repository.DB,
	userID, organizationID, count int,
	preferredTeamID *int,
) (*DistributionResult, error) {
	result := &DistributionResult{Visited: make(map[int]string)}
	remaining := count
	perTeam := make(map[int]int)

	for remaining > 0 {
		targets, err := s.pool.ResolveForUser(ctx, userID, organizationID)
		if err != nil {
			return nil, err
		}

		target, allowed := chooseTarget(targets, preferredTeamID, perTeam, remaining)
		if target == nil {
			if result.Assigned == 0 {
				return nil, &NoEligibleWorkError{Message: MsgNoSuitableCampaign}
			}
			return result, nil
		}

		log.Printf("Assigning %d on campaign %d of type %s", allowed, target.CampaignID, target.Type)

		claim, err := s.claims.Claim(ctx, tx, userID, target.CampaignID, target.Type, allowed)
		if err != nil {
			return nil, err
		}
		if claim.CreatedAssignment != nil {
			result.Created = append(result.Created, claim.CreatedAssignment)
		}

		if claim.Claimed == 0 {
			// Pool drained under us; resolution already reflects current state
			if result.Assigned == 0 {
				return nil, &NoEligibleWorkError{Message: MsgNoSuitableCampaign}
			}
			return result, nil
		}

		remaining -= claim.Claimed
		result.Assigned += claim.Claimed
		perTeam[target.TeamID] += claim.Claimed
		result.Visited[target.TeamID] = target.TeamTitle
	}

	return result, nil
}

// GiveUserMoreTexts runs a full distribution session in its own transaction
// and performs the post-commit side effects
func (s *DistributionService) GiveUserMoreTexts(
	ctx context.Context,
	userID, organizationID, count int,
	preferredTeamID *int,
) (int, error) {
	log.Printf("Starting to give user %d %d texts", userID, count)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := s.Distribute(ctx, tx, userID, organizationID, count, preferredTeamID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit distribution: %w", err)
	}

	s.FinishSession(organizationID, result)
	return result.Assigned, nil
}

// FinishSession publishes assignment-created events and schedules the
// exhaustion check. Call only after the owning transaction has committed;
// failures here never affect the committed assignments.
func (s *DistributionService) FinishSession(organizationID int, result *DistributionResult) {
	if s.events != nil {
		for _, assignment := range result.Created {
			if err := s.events.PublishAssignmentCreated(assignment); err != nil {
				log.Printf("Warning: failed to publish assignment created event for %d: %v", assignment.ID, err)
			}
		}
	}

	if s.notifier != nil && len(result.Visited) > 0 {
		s.notifier.Schedule(organizationID, result.Visited)
	}
}

// chooseTarget picks the preferred team's target when present, otherwise the
// first target with claim capacity left. A team's max_request_count caps how
// much one session ever requests from it; excess demand falls through to
// later targets.
func chooseTarget(
	targets []models.AssignmentTarget,
	preferredTeamID *int,
	perTeam map[int]int,
	remaining int,
) (*models.AssignmentTarget, int) {
	if preferredTeamID != nil {
		for i := range targets {
			if targets[i].TeamID == *preferredTeamID {
				if allowed := capAllowed(&targets[i], perTeam, remaining); allowed > 0 {
					return &targets[i], allowed
				}
				break
			}
		}
	}

	for i := range targets {
		if allowed := capAllowed(&targets[i], perTeam, remaining); allowed > 0 {
			return &targets[i], allowed
		}
	}

	return nil, 0
}

func capAllowed(target *models.AssignmentTarget, perTeam map[int]int, remaining int) int {
	if target.MaxRequestCount <= 0 {
		return remaining
	}
	left := target.MaxRequestCount - perTeam[target.TeamID]
	if left <= 0 {
		return 0
	}
	if left < remaining {
		return left
	}
	return remaining
}
