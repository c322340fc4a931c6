package repository

import (
	"context"
	"database/sql"
	"fmt"

	"textassign/internal/models"
)

type organizationRepository struct {
	db *sql.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *sql.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// GetByID retrieves an organization by ID
func (r *organizationRepository) GetByID(ctx context.Context, id int) (*models.Organization, error) {
	query := `
		SELECT id, name, features
		FROM organization
		WHERE id = $1
	`

	org := &models.Organization{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&org.ID, &org.Name, &org.Features)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("organization not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return org, nil
}

// GetAssignmentConfig loads the organization's feature flags and parses the
// assignment configuration out of them. Loaded fresh on every resolution call.
func (r *organizationRepository) GetAssignmentConfig(ctx context.Context, id int) (models.AssignmentConfig, error) {
	query := `
		SELECT features
		FROM organization
		WHERE id = $1
	`

	var features string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&features)

	if err == sql.ErrNoRows {
		return models.AssignmentConfig{}, fmt.Errorf("organization not found")
	}
	if err != nil {
		return models.AssignmentConfig{}, fmt.Errorf("failed to get organization features: %w", err)
	}

	return models.ParseAssignmentConfig(features), nil
}
