package models

// The synthetic General team represents org-wide work not limited to specific teams.
// It has no team row; -1 maps to no team.
const (
	GeneralTeamID    = -1
	GeneralTeamTitle = "General"
)

// GeneralPriority sorts the general pool after every named team in a texter's ranked view.
// The org-wide listing displays it first instead (priority 0).
const GeneralPriority = int(^uint32(0) >> 1)

// Team represents a team within an organization
type Team struct {
	ID                  int            `json:"id" db:"id"`
	OrganizationID      int            `json:"organization_id" db:"organization_id"`
	Title               string         `json:"title" db:"title"`
	AssignmentPriority  int            `json:"assignment_priority" db:"assignment_priority"`
	AssignmentType      AssignmentType `json:"assignment_type" db:"assignment_type"`
	IsAssignmentEnabled bool           `json:"is_assignment_enabled" db:"is_assignment_enabled"`
	MaxRequestCount     int            `json:"max_request_count" db:"max_request_count"`

	// EscalationTagIDs is the set of escalation tags this team is responsible
	// for. Only meaningful for UNREPLIED teams.
	EscalationTagIDs []int64 `json:"escalation_tag_ids"`
}

// ContainsAllTags reports whether every tag in applied is covered by the team's
// escalation-tag set (array-containment semantics).
func (t *Team) ContainsAllTags(applied []int64) bool {
	return ContainsAllTags(t.EscalationTagIDs, applied)
}

// ContainsAllTags reports whether have is a superset of want.
func ContainsAllTags(have, want []int64) bool {
	if len(want) == 0 {
		return false
	}
	set := make(map[int64]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
