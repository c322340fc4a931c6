package repository

import (
	"context"
	"database/sql"
	"fmt"

	"textassign/internal/models"

	"github.com/lib/pq"
)

type teamRepository struct {
	db *sql.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *sql.DB) TeamRepository {
	return &teamRepository{db: db}
}

const teamColumns = `
	t.id, t.organization_id, t.title, t.assignment_priority, t.assignment_type,
	t.is_assignment_enabled, t.max_request_count,
	COALESCE((
		SELECT array_agg(tag_id)
		FROM team_escalation_tags
		WHERE team_id = t.id
	), '{}') AS escalation_tag_ids
`

// ListByOrganization retrieves every team of the organization with its
// escalation tags, enabled or not
func (r *teamRepository) ListByOrganization(ctx context.Context, organizationID int) ([]*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM team t
		WHERE t.organization_id = $1
		ORDER BY t.assignment_priority ASC, t.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

// ListEnabledForUser retrieves the assignment-enabled teams the user belongs to
func (r *teamRepository) ListEnabledForUser(ctx context.Context, organizationID, userID int) ([]*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM team t
		WHERE t.organization_id = $1
		  AND t.is_assignment_enabled = true
		  AND EXISTS (
			SELECT 1
			FROM user_team ut
			WHERE ut.team_id = t.id AND ut.user_id = $2
		  )
		ORDER BY t.assignment_priority ASC, t.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, organizationID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for user: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

// UserEscalationTags returns the union of escalation tags across all of the
// user's teams
func (r *teamRepository) UserEscalationTags(ctx context.Context, q DB, userID int) ([]int64, error) {
	query := `
		SELECT COALESCE(array_agg(tag_id), '{}')
		FROM team_escalation_tags tet
		WHERE EXISTS (
			SELECT 1
			FROM user_team ut
			WHERE ut.team_id = tet.team_id AND ut.user_id = $1
		)
	`

	var tags pq.Int64Array
	if err := q.QueryRowContext(ctx, query, userID).Scan(&tags); err != nil {
		return nil, fmt.Errorf("failed to get user escalation tags: %w", err)
	}

	return []int64(tags), nil
}

func scanTeams(rows *sql.Rows) ([]*models.Team, error) {
	teams := []*models.Team{}
	for rows.Next() {
		team := &models.Team{}
		var tags pq.Int64Array
		err := rows.Scan(
			&team.ID,
			&team.OrganizationID,
			&team.Title,
			&team.AssignmentPriority,
			&team.AssignmentType,
			&team.IsAssignmentEnabled,
			&team.MaxRequestCount,
			&tags,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		team.EscalationTagIDs = []int64(tags)
		teams = append(teams, team)
	}

	return teams, nil
}
