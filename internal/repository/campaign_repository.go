package repository

import (
	"context"
	"database/sql"
	"fmt"

	"textassign/internal/models"

	"github.com/lib/pq"
)

type campaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *sql.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

const campaignColumns = `
	c.id, c.organization_id, c.title, c.is_archived, c.due_by,
	c.limit_assignment_to_teams, c.use_dynamic_assignment, c.created_at
`

// Contact-level eligibility predicates. A contact carrying an escalation tag
// (is_assignable = false) is invisible to normal reply assignment.
const (
	assignableSendContact = `
		cc.message_status = 'needsMessage'
		AND cc.is_opted_out = false
		AND cc.archived = false
		AND cc.assignment_id IS NULL
	`

	assignableReplyContact = `
		cc.message_status = 'needsResponse'
		AND cc.is_opted_out = false
		AND cc.archived = false
		AND cc.assignment_id IS NULL
	`

	hasEscalationTag = `
		EXISTS (
			SELECT 1
			FROM campaign_contact_tag cct
			JOIN tag t ON t.id = cct.tag_id
			WHERE cct.campaign_contact_id = cc.id AND t.is_assignable = false
		)
	`
)

// GetByID retrieves a campaign by ID
func (r *campaignRepository) GetByID(ctx context.Context, id int) (*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaign c
		WHERE c.id = $1
	`

	campaign := &models.Campaign{}
	err := scanCampaign(r.db.QueryRowContext(ctx, query, id), campaign)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("campaign not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return campaign, nil
}

// ListWithPendingSends retrieves campaigns that can still hand out send-work
func (r *campaignRepository) ListWithPendingSends(ctx context.Context, organizationID int) ([]*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaign c
		WHERE c.organization_id = $1
		  AND c.is_archived = false
		  AND (c.due_by IS NULL OR c.due_by + INTERVAL '24 hours' > NOW())
		  AND EXISTS (
			SELECT 1
			FROM campaign_contact cc
			WHERE cc.campaign_id = c.id AND ` + assignableSendContact + `
		  )
		ORDER BY c.id ASC
	`

	return r.listCampaigns(ctx, query, organizationID)
}

// ListWithPendingReplies retrieves campaigns with normally-assignable reply work
func (r *campaignRepository) ListWithPendingReplies(ctx context.Context, organizationID int) ([]*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaign c
		WHERE c.organization_id = $1
		  AND c.is_archived = false
		  AND EXISTS (
			SELECT 1
			FROM campaign_contact cc
			WHERE cc.campaign_id = c.id
			  AND ` + assignableReplyContact + `
			  AND NOT ` + hasEscalationTag + `
		  )
		ORDER BY c.id ASC
	`

	return r.listCampaigns(ctx, query, organizationID)
}

// ListAssignable retrieves all unarchived campaigns of the organization
func (r *campaignRepository) ListAssignable(ctx context.Context, organizationID int) ([]*models.Campaign, error) {
	query := `
		SELECT ` + campaignColumns + `
		FROM campaign c
		WHERE c.organization_id = $1 AND c.is_archived = false
		ORDER BY c.id ASC
	`

	return r.listCampaigns(ctx, query, organizationID)
}

// ListTeamLinks retrieves the campaign/team join rows for the organization
func (r *campaignRepository) ListTeamLinks(ctx context.Context, organizationID int) ([]models.CampaignTeamLink, error) {
	query := `
		SELECT ct.campaign_id, ct.team_id
		FROM campaign_team ct
		JOIN campaign c ON c.id = ct.campaign_id
		WHERE c.organization_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign team links: %w", err)
	}
	defer rows.Close()

	links := []models.CampaignTeamLink{}
	for rows.Next() {
		var link models.CampaignTeamLink
		if err := rows.Scan(&link.CampaignID, &link.TeamID); err != nil {
			return nil, fmt.Errorf("failed to scan campaign team link: %w", err)
		}
		links = append(links, link)
	}

	return links, nil
}

// ListEscalationReplyTagSets retrieves the applied escalation-tag set of every
// unassigned reply-needed contact carrying escalation tags
func (r *campaignRepository) ListEscalationReplyTagSets(ctx context.Context, organizationID int) ([]models.EscalationTagSet, error) {
	query := `
		SELECT cc.campaign_id, array_agg(DISTINCT cct.tag_id)
		FROM campaign_contact cc
		JOIN campaign c ON c.id = cc.campaign_id
		JOIN campaign_contact_tag cct ON cct.campaign_contact_id = cc.id
		JOIN tag t ON t.id = cct.tag_id
		WHERE c.organization_id = $1
		  AND c.is_archived = false
		  AND ` + assignableReplyContact + `
		  AND t.is_assignable = false
		GROUP BY cc.campaign_id, cc.id
	`

	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list escalation tag sets: %w", err)
	}
	defer rows.Close()

	sets := []models.EscalationTagSet{}
	for rows.Next() {
		var set models.EscalationTagSet
		var tags pq.Int64Array
		if err := rows.Scan(&set.CampaignID, &tags); err != nil {
			return nil, fmt.Errorf("failed to scan escalation tag set: %w", err)
		}
		set.TagIDs = []int64(tags)
		sets = append(sets, set)
	}

	return sets, nil
}

// CountAssignableSends counts claimable send-work in a campaign
func (r *campaignRepository) CountAssignableSends(ctx context.Context, campaignID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM campaign_contact cc
		WHERE cc.campaign_id = $1 AND ` + assignableSendContact

	var count int
	if err := r.db.QueryRowContext(ctx, query, campaignID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignable sends: %w", err)
	}

	return count, nil
}

// CountAssignableReplies counts claimable reply-work in a campaign, optionally
// including escalation-tagged conversations
func (r *campaignRepository) CountAssignableReplies(ctx context.Context, campaignID int, includeEscalated bool) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM campaign_contact cc
		WHERE cc.campaign_id = $1 AND ` + assignableReplyContact
	if !includeEscalated {
		query += ` AND NOT ` + hasEscalationTag
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, campaignID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignable replies: %w", err)
	}

	return count, nil
}

func (r *campaignRepository) listCampaigns(ctx context.Context, query string, args ...interface{}) ([]*models.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*models.Campaign{}
	for rows.Next() {
		campaign := &models.Campaign{}
		if err := scanCampaign(rows, campaign); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	return campaigns, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row rowScanner, campaign *models.Campaign) error {
	return row.Scan(
		&campaign.ID,
		&campaign.OrganizationID,
		&campaign.Title,
		&campaign.IsArchived,
		&campaign.DueBy,
		&campaign.LimitAssignmentToTeams,
		&campaign.UseDynamicAssignment,
		&campaign.CreatedAt,
	)
}
