package service

import (
	"context"

	"textassign/internal/models"
	"textassign/internal/repository"
)

// Function-field mocks for the repository interfaces. A test sets only the
// functions its code path calls; an unexpected call panics on the nil field,
// which is the failure we want.

type mockOrganizationRepo struct {
	getByIDFn             func(ctx context.Context, id int) (*models.Organization, error)
	getAssignmentConfigFn func(ctx context.Context, id int) (models.AssignmentConfig, error)
}

func (m *mockOrganizationRepo) GetByID(ctx context.Context, id int) (*models.Organization, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockOrganizationRepo) GetAssignmentConfig(ctx context.Context, id int) (models.AssignmentConfig, error) {
	return m.getAssignmentConfigFn(ctx, id)
}

type mockUserRepo struct {
	getByIDFn            func(ctx context.Context, id int) (*models.User, error)
	getByExternalIDFn    func(ctx context.Context, externalID string) (*models.User, error)
	roleInOrganizationFn func(ctx context.Context, userID, organizationID int) (models.Role, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserRepo) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return m.getByExternalIDFn(ctx, externalID)
}

func (m *mockUserRepo) RoleInOrganization(ctx context.Context, userID, organizationID int) (models.Role, error) {
	return m.roleInOrganizationFn(ctx, userID, organizationID)
}

type mockTeamRepo struct {
	listByOrganizationFn func(ctx context.Context, organizationID int) ([]*models.Team, error)
	listEnabledForUserFn func(ctx context.Context, organizationID, userID int) ([]*models.Team, error)
	userEscalationTagsFn func(ctx context.Context, q repository.DB, userID int) ([]int64, error)
}

func (m *mockTeamRepo) ListByOrganization(ctx context.Context, organizationID int) ([]*models.Team, error) {
	return m.listByOrganizationFn(ctx, organizationID)
}

func (m *mockTeamRepo) ListEnabledForUser(ctx context.Context, organizationID, userID int) ([]*models.Team, error) {
	return m.listEnabledForUserFn(ctx, organizationID, userID)
}

func (m *mockTeamRepo) UserEscalationTags(ctx context.Context, q repository.DB, userID int) ([]int64, error) {
	return m.userEscalationTagsFn(ctx, q, userID)
}

type mockCampaignRepo struct {
	getByIDFn                    func(ctx context.Context, id int) (*models.Campaign, error)
	listWithPendingSendsFn       func(ctx context.Context, organizationID int) ([]*models.Campaign, error)
	listWithPendingRepliesFn     func(ctx context.Context, organizationID int) ([]*models.Campaign, error)
	listAssignableFn             func(ctx context.Context, organizationID int) ([]*models.Campaign, error)
	listTeamLinksFn              func(ctx context.Context, organizationID int) ([]models.CampaignTeamLink, error)
	listEscalationReplyTagSetsFn func(ctx context.Context, organizationID int) ([]models.EscalationTagSet, error)
	countAssignableSendsFn       func(ctx context.Context, campaignID int) (int, error)
	countAssignableRepliesFn     func(ctx context.Context, campaignID int, includeEscalated bool) (int, error)
}

func (m *mockCampaignRepo) GetByID(ctx context.Context, id int) (*models.Campaign, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockCampaignRepo) ListWithPendingSends(ctx context.Context, organizationID int) ([]*models.Campaign, error) {
	return m.listWithPendingSendsFn(ctx, organizationID)
}

func (m *mockCampaignRepo) ListWithPendingReplies(ctx context.Context, organizationID int) ([]*models.Campaign, error) {
	return m.listWithPendingRepliesFn(ctx, organizationID)
}

func (m *mockCampaignRepo) ListAssignable(ctx context.Context, organizationID int) ([]*models.Campaign, error) {
	return m.listAssignableFn(ctx, organizationID)
}

func (m *mockCampaignRepo) ListTeamLinks(ctx context.Context, organizationID int) ([]models.CampaignTeamLink, error) {
	return m.listTeamLinksFn(ctx, organizationID)
}

func (m *mockCampaignRepo) ListEscalationReplyTagSets(ctx context.Context, organizationID int) ([]models.EscalationTagSet, error) {
	return m.listEscalationReplyTagSetsFn(ctx, organizationID)
}

func (m *mockCampaignRepo) CountAssignableSends(ctx context.Context, campaignID int) (int, error) {
	return m.countAssignableSendsFn(ctx, campaignID)
}

func (m *mockCampaignRepo) CountAssignableReplies(ctx context.Context, campaignID int, includeEscalated bool) (int, error) {
	return m.countAssignableRepliesFn(ctx, campaignID, includeEscalated)
}

type mockAssignmentRepo struct {
	getByIDFn              func(ctx context.Context, id int) (*models.Assignment, error)
	getByUserAndCampaignFn func(ctx context.Context, q repository.DB, userID, campaignID int) (*models.Assignment, error)
	createFn               func(ctx context.Context, q repository.DB, userID, campaignID int) (*models.Assignment, error)
	contactCountFn         func(ctx context.Context, assignmentID int) (int, error)
	unsentContactCountFn   func(ctx context.Context, assignmentID int) (int, error)
}

func (m *mockAssignmentRepo) GetByID(ctx context.Context, id int) (*models.Assignment, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockAssignmentRepo) GetByUserAndCampaign(ctx context.Context, q repository.DB, userID, campaignID int) (*models.Assignment, error) {
	return m.getByUserAndCampaignFn(ctx, q, userID, campaignID)
}

func (m *mockAssignmentRepo) Create(ctx context.Context, q repository.DB, userID, campaignID int) (*models.Assignment, error) {
	return m.createFn(ctx, q, userID, campaignID)
}

func (m *mockAssignmentRepo) ContactCount(ctx context.Context, assignmentID int) (int, error) {
	return m.contactCountFn(ctx, assignmentID)
}

func (m *mockAssignmentRepo) UnsentContactCount(ctx context.Context, assignmentID int) (int, error) {
	return m.unsentContactCountFn(ctx, assignmentID)
}

type mockContactRepo struct {
	claimUnsentFn         func(ctx context.Context, q repository.DB, campaignID, assignmentID, limit int) (int, error)
	claimRepliesFn        func(ctx context.Context, q repository.DB, campaignID, assignmentID, limit int, escalationTags []int64) (int, error)
	claimIntoAssignmentFn func(ctx context.Context, campaignID, assignmentID, limit int) (int, error)
}

func (m *mockContactRepo) ClaimUnsent(ctx context.Context, q repository.DB, campaignID, assignmentID, limit int) (int, error) {
	return m.claimUnsentFn(ctx, q, campaignID, assignmentID, limit)
}

func (m *mockContactRepo) ClaimReplies(ctx context.Context, q repository.DB, campaignID, assignmentID, limit int, escalationTags []int64) (int, error) {
	return m.claimRepliesFn(ctx, q, campaignID, assignmentID, limit, escalationTags)
}

func (m *mockContactRepo) ClaimIntoAssignment(ctx context.Context, campaignID, assignmentID, limit int) (int, error) {
	return m.claimIntoAssignmentFn(ctx, campaignID, assignmentID, limit)
}

type mockRequestRepo struct {
	createFn              func(ctx context.Context, request *models.AssignmentRequest) error
	deleteFn              func(ctx context.Context, id int) error
	getByIDFn             func(ctx context.Context, id int) (*models.AssignmentRequest, error)
	firstPendingForUserFn func(ctx context.Context, userID int) (*models.AssignmentRequest, error)
	setStatusFn           func(ctx context.Context, q repository.DB, id int, status models.AssignmentRequestStatus, approvedBy *int) error
	pendingCountFn        func(ctx context.Context, organizationID int) (int, error)
}

func (m *mockRequestRepo) Create(ctx context.Context, request *models.AssignmentRequest) error {
	return m.createFn(ctx, request)
}

func (m *mockRequestRepo) Delete(ctx context.Context, id int) error {
	return m.deleteFn(ctx, id)
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int) (*models.AssignmentRequest, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockRequestRepo) FirstPendingForUser(ctx context.Context, userID int) (*models.AssignmentRequest, error) {
	return m.firstPendingForUserFn(ctx, userID)
}

func (m *mockRequestRepo) SetStatus(ctx context.Context, q repository.DB, id int, status models.AssignmentRequestStatus, approvedBy *int) error {
	return m.setStatusFn(ctx, q, id, status, approvedBy)
}

func (m *mockRequestRepo) PendingCount(ctx context.Context, organizationID int) (int, error) {
	return m.pendingCountFn(ctx, organizationID)
}

// Mocks for the outbound side effects

type mockEventPublisher struct {
	published []*models.Assignment
	err       error
}

func (m *mockEventPublisher) PublishAssignmentCreated(assignment *models.Assignment) error {
	m.published = append(m.published, assignment)
	return m.err
}

type mockNotifier struct {
	scheduled []map[int]string
}

func (m *mockNotifier) Schedule(organizationID int, visited map[int]string) {
	m.scheduled = append(m.scheduled, visited)
}

type mockApprovalWebhook struct {
	enabled bool
	err     error
	calls   int
}

func (m *mockApprovalWebhook) Enabled() bool {
	return m.enabled
}

func (m *mockApprovalWebhook) RequestApproval(ctx context.Context, count int, email string) error {
	m.calls++
	return m.err
}

type mockDrainWebhook struct {
	enabled  bool
	err      error
	notified []string
}

func (m *mockDrainWebhook) Enabled() bool {
	return m.enabled
}

func (m *mockDrainWebhook) NotifyTeamDrained(ctx context.Context, teamTitle string) error {
	m.notified = append(m.notified, teamTitle)
	return m.err
}

// intPtr is a small literal helper for optional fields
func intPtr(v int) *int {
	return &v
}
