package service

import (
	"context"
	"fmt"

	"textassign/internal/models"
	"textassign/internal/repository"
)

// Authorizer gates operations that require a minimum role within an
// organization
type Authorizer interface {
	RequireRole(ctx context.Context, userID, organizationID int, min models.Role) error
}

type roleAuthorizer struct {
	users repository.UserRepository
}

// NewRoleAuthorizer creates an Authorizer backed by the user-organization
// role table
func NewRoleAuthorizer(users repository.UserRepository) Authorizer {
	return &roleAuthorizer{users: users}
}

// RequireRole returns an AuthorizationError unless the user holds at least
// min within the organization
func (a *roleAuthorizer) RequireRole(ctx context.Context, userID, organizationID int, min models.Role) error {
	role, err := a.users.RoleInOrganization(ctx, userID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to check role: %w", err)
	}

	if role == "" || !models.HasRoleAtLeast(role, min) {
		return &AuthorizationError{
			UserID:         userID,
			OrganizationID: organizationID,
			Required:       min,
		}
	}

	return nil
}
