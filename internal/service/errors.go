package service

import (
	"errors"
	"fmt"

	"textassign/internal/models"
)

// User-visible messages for ordinary "no more work" outcomes. These travel as
// data, not errors, except when a session ends with nothing claimed.
const (
	MsgCreated            = "Created"
	MsgNoTextsAvailable   = "No texts available at the moment"
	MsgNoSuitableCampaign = "Could not find a suitable campaign to assign to."
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// BusinessLogicError represents a business logic error
type BusinessLogicError struct {
	Message string
}

func (e *BusinessLogicError) Error() string {
	return fmt.Sprintf("business logic error: %s", e.Message)
}

// AuthorizationError means the acting user lacks the required role in the
// organization. No partial state change accompanies it.
type AuthorizationError struct {
	UserID         int
	OrganizationID int
	Required       models.Role
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf(
		"user %d requires at least %s in organization %d",
		e.UserID, e.Required, e.OrganizationID,
	)
}

// NoEligibleWorkError means a distribution session ended with nothing claimed:
// no targets resolved, or every claim came back empty. Partial fulfillment is
// a success, not this error.
type NoEligibleWorkError struct {
	Message string
}

func (e *NoEligibleWorkError) Error() string {
	return e.Message
}

// IsNoEligibleWork reports whether err is (or wraps) a NoEligibleWorkError
func IsNoEligibleWork(err error) bool {
	var target *NoEligibleWorkError
	return errors.As(err, &target)
}

// ExternalServiceError represents a failed outbound webhook call
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// AutoassignError wraps failures of the external fulfillment path. Fatal
// distinguishes unexpected faults from the expected "no work available"
// condition so the HTTP layer can map them to 500 vs 200.
type AutoassignError struct {
	Message string
	Fatal   bool
}

func (e *AutoassignError) Error() string {
	return e.Message
}
