package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textassign/internal/models"
)

func newRequestRepo(t *testing.T) (*requestRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &requestRepository{db: db}, mock
}

func TestRequestCreate_PopulatesGeneratedFields(t *testing.T) {
	repo, mock := newRequestRepo(t)

	createdAt := time.Now()
	mock.ExpectQuery("INSERT INTO assignment_request").
		WithArgs(1, 2, 50, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at"}).
			AddRow(7, "pending", createdAt))

	request := &models.AssignmentRequest{UserID: 1, OrganizationID: 2, Amount: 50}
	err := repo.Create(context.Background(), request)

	require.NoError(t, err)
	assert.Equal(t, 7, request.ID)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestSetStatus_NotFound(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectExec("UPDATE assignment_request").
		WithArgs("approved", 2, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	approver := 2
	err := repo.SetStatus(context.Background(), repo.db, 7, models.RequestStatusApproved, &approver)

	assert.EqualError(t, err, "assignment request not found")
}

func TestRequestSetStatus_KeepsApproverOnNilPointer(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectExec("UPDATE assignment_request").
		WithArgs("rejected", nil, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetStatus(context.Background(), repo.db, 7, models.RequestStatusRejected, nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFirstPendingForUser_NoRowsIsNil(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectQuery("FROM assignment_request").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "organization_id", "amount", "preferred_team_id",
			"status", "approved_by_user_id", "created_at",
		}))

	request, err := repo.FirstPendingForUser(context.Background(), 1)

	require.NoError(t, err)
	assert.Nil(t, request)
}

func TestFirstPendingForUser_ReturnsRow(t *testing.T) {
	repo, mock := newRequestRepo(t)

	mock.ExpectQuery("FROM assignment_request").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "organization_id", "amount", "preferred_team_id",
			"status", "approved_by_user_id", "created_at",
		}).AddRow(7, 1, 2, 50, nil, "pending", nil, time.Now()))

	request, err := repo.FirstPendingForUser(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, request)
	assert.Equal(t, 7, request.ID)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Nil(t, request.PreferredTeamID)
}
