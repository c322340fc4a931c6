package models

import "time"

// Assignment binds one texter to one campaign. At most one row exists per
// (user_id, campaign_id) pair; repeated requests reuse it.
type Assignment struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	CampaignID  int       `json:"campaign_id" db:"campaign_id"`
	MaxContacts *int      `json:"max_contacts,omitempty" db:"max_contacts"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AssignmentRequestStatus is the lifecycle state of a texter's request for work
type AssignmentRequestStatus string

const (
	RequestStatusPending  AssignmentRequestStatus = "pending"
	RequestStatusApproved AssignmentRequestStatus = "approved"
	RequestStatusRejected AssignmentRequestStatus = "rejected"
)

// AssignmentRequest is a texter's numeric request for more work.
// pending -> approved | rejected; terminal states are never revisited.
type AssignmentRequest struct {
	ID               int                     `json:"id" db:"id"`
	UserID           int                     `json:"user_id" db:"user_id"`
	OrganizationID   int                     `json:"organization_id" db:"organization_id"`
	Amount           int                     `json:"amount" db:"amount"`
	PreferredTeamID  *int                    `json:"preferred_team_id,omitempty" db:"preferred_team_id"`
	Status           AssignmentRequestStatus `json:"status" db:"status"`
	ApprovedByUserID *int                    `json:"approved_by_user_id,omitempty" db:"approved_by_user_id"`
	CreatedAt        time.Time               `json:"created_at" db:"created_at"`
}

// AssignmentTarget is a ranked (team-or-general, campaign) pair currently
// eligible to hand out work.
type AssignmentTarget struct {
	Priority        int            `json:"priority"`
	TeamID          int            `json:"team_id"`
	TeamTitle       string         `json:"team_title"`
	Enabled         bool           `json:"enabled"`
	Type            AssignmentType `json:"assignment_type"`
	MaxRequestCount int            `json:"max_request_count"`
	CampaignID      int            `json:"campaign_id"`
	CampaignTitle   string         `json:"campaign_title"`

	// CountLeft is only populated by the org-wide listing
	CountLeft int `json:"count_left"`

	// Escalated marks a pairing produced by escalation-tag routing. Only such
	// a pairing may count escalated conversations as claimable.
	Escalated bool `json:"-"`
}
