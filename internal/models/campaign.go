package models

import "time"

// PastDueGrace is how long past due_by a campaign's send-work remains assignable
const PastDueGrace = 24 * time.Hour

// Campaign represents a texting campaign
type Campaign struct {
	ID                     int        `json:"id" db:"id"`
	OrganizationID         int        `json:"organization_id" db:"organization_id"`
	Title                  string     `json:"title" db:"title"`
	IsArchived             bool       `json:"is_archived" db:"is_archived"`
	DueBy                  *time.Time `json:"due_by,omitempty" db:"due_by"`
	LimitAssignmentToTeams bool       `json:"limit_assignment_to_teams" db:"limit_assignment_to_teams"`
	UseDynamicAssignment   bool       `json:"use_dynamic_assignment" db:"use_dynamic_assignment"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
}

// IsPastDue reports whether the campaign is more than the grace period past its
// due date. Past-due campaigns stop handing out send-work but keep reply-work.
func (c *Campaign) IsPastDue(now time.Time) bool {
	if c.DueBy == nil {
		return false
	}
	return c.DueBy.Add(PastDueGrace).Before(now)
}

// CampaignTeamLink is a row of the campaign/team many-to-many join
type CampaignTeamLink struct {
	CampaignID int `json:"campaign_id" db:"campaign_id"`
	TeamID     int `json:"team_id" db:"team_id"`
}
