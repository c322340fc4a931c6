package service

import (
	"context"
	"fmt"
	"log"

	"textassign/internal/models"
	"textassign/internal/repository"
)

// ClaimService atomically claims contacts from one campaign and attaches them
// to the caller's assignment. All claim work runs inside the transaction the
// caller passes in, so a rollback releases the row locks and leaves contacts
// unassigned.
type ClaimService struct {
	assignments repository.AssignmentRepository
	contacts    repository.ContactRepository
	teams       repository.TeamRepository
	campaigns   repository.CampaignRepository
}

// NewClaimService creates a new claim service
func NewClaimService(
	assignments repository.AssignmentRepository,
	contacts repository.ContactRepository,
	teams repository.TeamRepository,
	campaigns repository.CampaignRepository,
) *ClaimService {
	return &ClaimService{
		assignments: assignments,
		contacts:    contacts,
		teams:       teams,
		campaigns:   campaigns,
	}
}

// ClaimResult reports the outcome of one claim call
type ClaimResult struct {
	AssignmentID int
	Claimed      int

	// CreatedAssignment is set when this claim had to create the assignment
	// row. The caller publishes the created event after its transaction
	// commits, never before.
	CreatedAssignment *models.Assignment
}

// Claim finds or creates the user's assignment on the campaign and attaches
// up to count eligible contacts to it. A zero claim is data, not an error:
// concurrent claimants simply partition the pool between them.
func (s *ClaimService) Claim(
	ctx context.Context,
	tx repository.DB,
	userID, campaignID int,
	assignmentType models.AssignmentType,
	count int,
) (ClaimResult, error) {
	result := ClaimResult{}

	assignment, err := s.assignments.GetByUserAndCampaign(ctx, tx, userID, campaignID)
	if err != nil {
		return result, err
	}
	if assignment == nil {
		assignment, err = s.assignments.Create(ctx, tx, userID, campaignID)
		if err != nil {
			return result, err
		}
		result.CreatedAssignment = assignment
	}
	result.AssignmentID = assignment.ID

	switch assignmentType {
	case models.AssignmentTypeUnsent:
		result.Claimed, err = s.contacts.ClaimUnsent(ctx, tx, campaignID, assignment.ID, count)

	case models.AssignmentTypeUnreplied:
		var tags []int64
		tags, err = s.teams.UserEscalationTags(ctx, tx, userID)
		if err != nil {
			return result, err
		}
		result.Claimed, err = s.contacts.ClaimReplies(ctx, tx, campaignID, assignment.ID, count, tags)

	default:
		return result, fmt.Errorf("cannot claim for assignment type %q", assignmentType)
	}

	if err != nil {
		return result, err
	}

	log.Printf("Claimed %d contacts on campaign %d for assignment %d", result.Claimed, campaignID, assignment.ID)
	return result, nil
}

// FindNewContact tops up an existing assignment with unassigned contacts from
// its campaign (dynamic self-service assignment). Returns whether any contact
// was attached.
func (s *ClaimService) FindNewContact(ctx context.Context, assignmentID, userID, numberContacts int) (bool, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return false, &NotFoundError{Resource: "assignment", ID: assignmentID}
	}
	if assignment.UserID != userID {
		return false, &ValidationError{Message: "invalid assignment"}
	}

	campaign, err := s.campaigns.GetByID(ctx, assignment.CampaignID)
	if err != nil {
		return false, &NotFoundError{Resource: "campaign", ID: assignment.CampaignID}
	}

	if !campaign.UseDynamicAssignment {
		return false, nil
	}
	if assignment.MaxContacts != nil && *assignment.MaxContacts == 0 {
		return false, nil
	}

	if numberContacts <= 0 {
		numberContacts = 1
	}

	// Respect the assignment's contact cap
	if assignment.MaxContacts != nil {
		total, err := s.assignments.ContactCount(ctx, assignmentID)
		if err != nil {
			return false, err
		}
		if total+numberContacts > *assignment.MaxContacts {
			numberContacts = *assignment.MaxContacts - total
		}
		if numberContacts <= 0 {
			return false, nil
		}
	}

	// Don't add more if they already have that many waiting
	unsent, err := s.assignments.UnsentContactCount(ctx, assignmentID)
	if err != nil {
		return false, err
	}
	if unsent >= numberContacts {
		return false, nil
	}

	claimed, err := s.contacts.ClaimIntoAssignment(ctx, campaign.ID, assignmentID, numberContacts)
	if err != nil {
		return false, err
	}

	return claimed > 0, nil
}
