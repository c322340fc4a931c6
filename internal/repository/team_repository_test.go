package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textassign/internal/models"
)

func newTeamRepo(t *testing.T) (*teamRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &teamRepository{db: db}, mock
}

var teamRows = []string{
	"id", "organization_id", "title", "assignment_priority", "assignment_type",
	"is_assignment_enabled", "max_request_count", "escalation_tag_ids",
}

func TestListEnabledForUser_ScansEscalationTags(t *testing.T) {
	repo, mock := newTeamRepo(t)

	mock.ExpectQuery("FROM team").
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows(teamRows).
			AddRow(10, 1, "Escalation Crew", 100, "UNREPLIED", true, 200, []byte("{5,6}")).
			AddRow(20, 1, "Senders", 300, "UNSENT", true, 0, []byte("{}")))

	teams, err := repo.ListEnabledForUser(context.Background(), 1, 2)

	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, []int64{5, 6}, teams[0].EscalationTagIDs)
	assert.Equal(t, models.AssignmentTypeUnreplied, teams[0].AssignmentType)
	assert.Empty(t, teams[1].EscalationTagIDs)
}

func TestUserEscalationTags_ReturnsUnion(t *testing.T) {
	repo, mock := newTeamRepo(t)

	mock.ExpectQuery("FROM team_escalation_tags").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"array_agg"}).AddRow([]byte("{5,6,7}")))

	tags, err := repo.UserEscalationTags(context.Background(), repo.db, 2)

	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6, 7}, tags)
}
