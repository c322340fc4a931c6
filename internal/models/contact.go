package models

// MessageStatus represents the conversation state of a campaign contact
type MessageStatus string

const (
	MessageStatusNeedsMessage  MessageStatus = "needsMessage"
	MessageStatusNeedsResponse MessageStatus = "needsResponse"
	MessageStatusConvo         MessageStatus = "convo"
	MessageStatusMessaged      MessageStatus = "messaged"
	MessageStatusClosed        MessageStatus = "closed"
)

// CampaignContact represents one contact within a campaign. AssignmentID is the
// contested resource: concurrent claims race to set it exactly once; null means
// the contact is back in the pool.
type CampaignContact struct {
	ID            int           `json:"id" db:"id"`
	CampaignID    int           `json:"campaign_id" db:"campaign_id"`
	AssignmentID  *int          `json:"assignment_id,omitempty" db:"assignment_id"`
	MessageStatus MessageStatus `json:"message_status" db:"message_status"`
	IsOptedOut    bool          `json:"is_opted_out" db:"is_opted_out"`
	Archived      bool          `json:"archived" db:"archived"`
}

// Tag represents a conversation tag. Tags with IsAssignable = false are
// escalation tags: they pull a contact out of normal-texter visibility and
// route it to teams responsible for those tags.
type Tag struct {
	ID           int64  `json:"id" db:"id"`
	Title        string `json:"title" db:"title"`
	IsAssignable bool   `json:"is_assignable" db:"is_assignable"`
}

// EscalationTagSet is the set of escalation tags applied to one reply-needed
// contact, keyed by its campaign. The pool resolver matches these sets against
// team escalation-tag responsibilities.
type EscalationTagSet struct {
	CampaignID int     `json:"campaign_id" db:"campaign_id"`
	TagIDs     []int64 `json:"tag_ids"`
}
