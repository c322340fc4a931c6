package repository

import (
	"context"
	"database/sql"
	"fmt"

	"textassign/internal/models"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, email, external_id
		FROM users
		WHERE id = $1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.ExternalID)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByExternalID retrieves a user by the identity token used by external callers
func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	query := `
		SELECT id, email, external_id
		FROM users
		WHERE external_id = $1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, externalID).Scan(&user.ID, &user.Email, &user.ExternalID)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by external id: %w", err)
	}

	return user, nil
}

// RoleInOrganization returns the user's role within the organization
func (r *userRepository) RoleInOrganization(ctx context.Context, userID, organizationID int) (models.Role, error) {
	query := `
		SELECT role
		FROM user_organization
		WHERE user_id = $1 AND organization_id = $2
	`

	var role models.Role
	err := r.db.QueryRowContext(ctx, query, userID, organizationID).Scan(&role)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user role: %w", err)
	}

	return role, nil
}
