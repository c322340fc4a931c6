package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"textassign/internal/models"
	"textassign/internal/service"
)

// requestManager is the slice of RequestService the handler needs
type requestManager interface {
	Create(ctx context.Context, userID, organizationID, count int, preferredTeamID *int, email string) (string, error)
	Approve(ctx context.Context, requestID, approverID int) (int, error)
	Reject(ctx context.Context, requestID, approverID int) error
	FulfillPendingFor(ctx context.Context, externalID string) (int, error)
	PendingCount(ctx context.Context, organizationID int) (int, error)
}

// targetResolver is the slice of PoolService the handler needs
type targetResolver interface {
	ResolveAll(ctx context.Context, organizationID int) ([]models.AssignmentTarget, error)
}

// contactFinder is the slice of ClaimService the handler needs
type contactFinder interface {
	FindNewContact(ctx context.Context, assignmentID, userID, numberContacts int) (bool, error)
}

// AssignmentHandler handles HTTP requests for assignment operations
type AssignmentHandler struct {
	requests requestManager
	pool     targetResolver
	claims   contactFinder
	auth     service.Authorizer
	validate *validator.Validate
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(
	requests requestManager,
	pool targetResolver,
	claims contactFinder,
	auth service.Authorizer,
) *AssignmentHandler {
	return &AssignmentHandler{
		requests: requests,
		pool:     pool,
		claims:   claims,
		auth:     auth,
		validate: validator.New(),
	}
}

// RequestTextsRequest represents the body of a texter's request for more work
type RequestTextsRequest struct {
	Count           int    `json:"count" validate:"required,gt=0"`
	Email           string `json:"email" validate:"required,email"`
	PreferredTeamID *int   `json:"preferred_team_id"`
}

// RequestTexts handles POST /organizations/{id}/request-texts
func (h *AssignmentHandler) RequestTexts(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := pathID(w, r, "id", "organization")
	if !ok {
		return
	}

	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req RequestTextsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	message, err := h.requests.Create(r.Context(), userID, organizationID, req.Count, req.PreferredTeamID, req.Email)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]string{"message": message})
}

// ListTargetsResponse is the org-wide assignment target listing
type ListTargetsResponse struct {
	Targets      []models.AssignmentTarget `json:"targets"`
	PendingCount int                       `json:"pending_request_count"`
}

// ListTargets handles GET /organizations/{id}/assignment-targets
func (h *AssignmentHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	organizationID, ok := pathID(w, r, "id", "organization")
	if !ok {
		return
	}

	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	if err := h.auth.RequireRole(r.Context(), userID, organizationID, models.RoleSupervolunteer); err != nil {
		HandleServiceError(w, err)
		return
	}

	targets, err := h.pool.ResolveAll(r.Context(), organizationID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	pending, err := h.requests.PendingCount(r.Context(), organizationID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, ListTargetsResponse{Targets: targets, PendingCount: pending})
}

// Approve handles POST /assignment-requests/{id}/approve
func (h *AssignmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(w, r, "id", "assignment request")
	if !ok {
		return
	}

	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	assigned, err := h.requests.Approve(r.Context(), requestID, userID)
	if err != nil {
		if service.IsNoEligibleWork(err) {
			WriteBusinessLogicError(w, err.Error())
			return
		}
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]int{"numberAssigned": assigned})
}

// Reject handles POST /assignment-requests/{id}/reject
func (h *AssignmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(w, r, "id", "assignment request")
	if !ok {
		return
	}

	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	if err := h.requests.Reject(r.Context(), requestID, userID); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]bool{"approved": false})
}

// FindNewContactRequest represents the body of a dynamic top-up request
type FindNewContactRequest struct {
	NumberContacts int `json:"number_contacts"`
}

// FindNewContact handles POST /assignments/{id}/find-new-contact
func (h *AssignmentHandler) FindNewContact(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := pathID(w, r, "id", "assignment")
	if !ok {
		return
	}

	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req FindNewContactRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	found, err := h.claims.FindNewContact(r.Context(), assignmentID, userID, req.NumberContacts)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, map[string]bool{"found": found})
}

// AutoassignRequest represents the body of an external fulfillment call.
// Count is accepted for caller compatibility; the stored pending request's
// amount governs how much is assigned.
type AutoassignRequest struct {
	SlackID string `json:"slack_id" validate:"required"`
	Count   int    `json:"count" validate:"required,gt=0"`
}

// AutoassignResponse reports the outcome of an external fulfillment call
type AutoassignResponse struct {
	NumberAssigned int    `json:"numberAssigned"`
	Info           string `json:"info,omitempty"`
}

// Autoassign handles POST /autoassign. Non-fatal failures, like the pool
// simply being empty, come back as 200 with an info message so the caller's
// retry loop doesn't treat them as outages.
func (h *AssignmentHandler) Autoassign(w http.ResponseWriter, r *http.Request) {
	var req AutoassignRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	assigned, err := h.requests.FulfillPendingFor(r.Context(), req.SlackID)
	if err != nil {
		var autoErr *service.AutoassignError
		if errors.As(err, &autoErr) && !autoErr.Fatal {
			WriteOK(w, AutoassignResponse{NumberAssigned: 0, Info: autoErr.Message})
			return
		}
		log.Printf("ERROR: Autoassign failed for %s: %v", req.SlackID, err)
		WriteInternalError(w)
		return
	}

	WriteOK(w, AutoassignResponse{NumberAssigned: assigned})
}

// decodeAndValidate parses the JSON body into dst and runs struct validation,
// writing the error response itself on failure
func (h *AssignmentHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return false
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		WriteValidationError(w, err.Error())
		return false
	}

	return true
}

// pathID extracts a positive integer id from the route variables
func pathID(w http.ResponseWriter, r *http.Request, name, resource string) (int, bool) {
	vars := mux.Vars(r)

	id, err := strconv.Atoi(vars[name])
	if err != nil || id <= 0 {
		WriteValidationError(w, "invalid "+resource+" ID")
		return 0, false
	}

	return id, true
}

// actingUser reads the acting user's id from the X-User-ID header. Upstream
// authentication is expected to have set it.
func actingUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header is required")
		return 0, false
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-User-ID header is invalid")
		return 0, false
	}

	return id, true
}
