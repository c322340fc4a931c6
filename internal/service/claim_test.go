package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textassign/internal/models"
	"textassign/internal/repository"
)

func TestClaim_ReusesExistingAssignment(t *testing.T) {
	existing := &models.Assignment{ID: 7, UserID: 1, CampaignID: 2}

	assignments := &mockAssignmentRepo{
		getByUserAndCampaignFn: func(ctx context.Context, q repository.DB, userID, campaignID int) (*models.Assignment, error) {
			return existing, nil
		},
	}
	contacts := &mockContactRepo{
		claimUnsentFn: func(ctx context.Context, q repository.DB, campaignID, assignmentID, limit int) (int, error) {
			assert.Equal(t, 2, campaignID)
			assert.Equal(t, 7, assignmentID)
			assert.Equal(t, 10, limit)
			return 10, nil
		},
	}
	svc := NewClaimService(assignments, contacts, &mockTeamRepo{}, &mockCampaignRepo{})

	result, err := svc.Claim(context.Background(), nil, 1, 2, models.AssignmentTypeUnsent, 10)

	require.NoError(t, err)
	assert.Equal(t, 7, result.AssignmentID)
	assert.Equal(t, 10, result.Claimed)
	assert.Nil(t, result.CreatedAssignment)
}

func TestClaim_CreatesAssignmentWhenMissing(t *testing.T) {
	created := &models.Assignment{ID: 9, UserID: 1, CampaignID: 2}

	assignments := &mockAssignmentRepo{
		getByUserAndCampaignFn: func(ctx context.Context, q repository.DB, userID, campaignID int) (*models.Assignment, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, q repository.DB, userID, campaignID int) (*models.Assignment, error) {
			return created, nil
		},
	}
	contacts := &mockContactRepo{
		claimUnsentFn: func(ctx context.Context, q repository.DB, campaignID, assignmentID, limit int) (int, error) {
			return 3, nil
		},
	}
	svc := NewClaimService(assignments, contacts, &mockTeamRepo{}, &mockCampaignRepo{})

	result, err := svc.Claim(context.Background(), nil, 1, 2, models.AssignmentTypeUnsent, 5)

	require.NoError(t, err)
	assert.Equal(t, 9, result.AssignmentID)
	assert.Equal(t, 3, result.Claimed)
	assert.Same(t, created, result.CreatedAssignment)
}

func TestClaim_RepliesPassUserEscalationTags(t *testing.T) {
	assignments := &mockAssignmentRepo{
		getByUserAndCampaignFn: func(ctx context.Context, q repository.DB, userID, campaignID int) (*models.Assignment, error) {
			return &models.Assignment{ID: 7}, nil
		},
	}
	teams := &mockTeamRepo{
		userEscalationTagsFn: func(ctx context.Context, q repository.DB, userID int) ([]int64, error) {
			return []int64{5, 6}, nil
		},
	}
	contacts := &mockContactRepo{
		claimRepliesFn: func(ctx context.Context, q repository.DB, campaignID, assignmentID, limit int, escalationTags []int64) (int, error) {
			assert.Equal(t, []int64{5, 6}, escalationTags)
			return 2, nil
		},
	}
	svc := NewClaimService(assignments, contacts, teams, &mockCampaignRepo{})

	result, err := svc.Claim(context.Background(), nil, 1, 2, models.AssignmentTypeUnreplied, 2)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Claimed)
}

func TestClaim_RejectsUnknownAssignmentType(t *testing.T) {
	assignments := &mockAssignmentRepo{
		getByUserAndCampaignFn: func(ctx context.Context, q repository.DB, userID, campaignID int) (*models.Assignment, error) {
			return &models.Assignment{ID: 7}, nil
		},
	}
	svc := NewClaimService(assignments, &mockContactRepo{}, &mockTeamRepo{}, &mockCampaignRepo{})

	_, err := svc.Claim(context.Background(), nil, 1, 2, models.AssignmentTypeDisabled, 2)

	assert.Error(t, err)
}

func findNewContactFixture(assignment *models.Assignment, campaign *models.Campaign) (*mockAssignmentRepo, *mockCampaignRepo, *mockContactRepo) {
	assignments := &mockAssignmentRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Assignment, error) {
			return assignment, nil
		},
	}
	campaigns := &mockCampaignRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Campaign, error) {
			return campaign, nil
		},
	}
	contacts := &mockContactRepo{}
	return assignments, campaigns, contacts
}

func TestFindNewContact_ClaimsIntoAssignment(t *testing.T) {
	assignment := &models.Assignment{ID: 7, UserID: 1, CampaignID: 2}
	campaign := &models.Campaign{ID: 2, UseDynamicAssignment: true}

	assignments, campaigns, contacts := findNewContactFixture(assignment, campaign)
	assignments.unsentContactCountFn = func(ctx context.Context, assignmentID int) (int, error) {
		return 0, nil
	}
	contacts.claimIntoAssignmentFn = func(ctx context.Context, campaignID, assignmentID, limit int) (int, error) {
		assert.Equal(t, 2, campaignID)
		assert.Equal(t, 7, assignmentID)
		assert.Equal(t, 3, limit)
		return 3, nil
	}
	svc := NewClaimService(assignments, contacts, &mockTeamRepo{}, campaigns)

	found, err := svc.FindNewContact(context.Background(), 7, 1, 3)

	require.NoError(t, err)
	assert.True(t, found)
}

func TestFindNewContact_RejectsOtherUsersAssignment(t *testing.T) {
	assignment := &models.Assignment{ID: 7, UserID: 99, CampaignID: 2}
	assignments, campaigns, contacts := findNewContactFixture(assignment, nil)
	svc := NewClaimService(assignments, contacts, &mockTeamRepo{}, campaigns)

	_, err := svc.FindNewContact(context.Background(), 7, 1, 1)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestFindNewContact_RefusesWithoutDynamicAssignment(t *testing.T) {
	assignment := &models.Assignment{ID: 7, UserID: 1, CampaignID: 2}
	campaign := &models.Campaign{ID: 2, UseDynamicAssignment: false}
	assignments, campaigns, contacts := findNewContactFixture(assignment, campaign)
	svc := NewClaimService(assignments, contacts, &mockTeamRepo{}, campaigns)

	found, err := svc.FindNewContact(context.Background(), 7, 1, 1)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindNewContact_HonorsMaxContactsCap(t *testing.T) {
	assignment := &models.Assignment{ID: 7, UserID: 1, CampaignID: 2, MaxContacts: intPtr(10)}
	campaign := &models.Campaign{ID: 2, UseDynamicAssignment: true}

	assignments, campaigns, contacts := findNewContactFixture(assignment, campaign)
	assignments.contactCountFn = func(ctx context.Context, assignmentID int) (int, error) {
		return 8, nil
	}
	assignments.unsentContactCountFn = func(ctx context.Context, assignmentID int) (int, error) {
		return 0, nil
	}
	contacts.claimIntoAssignmentFn = func(ctx context.Context, campaignID, assignmentID, limit int) (int, error) {
		// 8 of 10 held: only 2 more may be claimed despite asking for 5
		assert.Equal(t, 2, limit)
		return 2, nil
	}
	svc := NewClaimService(assignments, contacts, &mockTeamRepo{}, campaigns)

	found, err := svc.FindNewContact(context.Background(), 7, 1, 5)

	require.NoError(t, err)
	assert.True(t, found)
}

func TestFindNewContact_ZeroMaxContactsRefuses(t *testing.T) {
	assignment := &models.Assignment{ID: 7, UserID: 1, CampaignID: 2, MaxContacts: intPtr(0)}
	campaign := &models.Campaign{ID: 2, UseDynamicAssignment: true}
	assignments, campaigns, contacts := findNewContactFixture(assignment, campaign)
	svc := NewClaimService(assignments, contacts, &mockTeamRepo{}, campaigns)

	found, err := svc.FindNewContact(context.Background(), 7, 1, 1)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindNewContact_SkipsWhenEnoughUnsentHeld(t *testing.T) {
	assignment := &models.Assignment{ID: 7, UserID: 1, CampaignID: 2}
	campaign := &models.Campaign{ID: 2, UseDynamicAssignment: true}

	assignments, campaigns, contacts := findNewContactFixture(assignment, campaign)
	assignments.unsentContactCountFn = func(ctx context.Context, assignmentID int) (int, error) {
		return 5, nil
	}
	svc := NewClaimService(assignments, contacts, &mockTeamRepo{}, campaigns)

	found, err := svc.FindNewContact(context.Background(), 7, 1, 3)

	require.NoError(t, err)
	assert.False(t, found)
}
