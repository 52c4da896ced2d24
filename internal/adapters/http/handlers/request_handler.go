package handlers

import (
	"errors"
	"strconv"

	"campus-visitpass/internal/adapters/http/middleware"
	"campus-visitpass/internal/adapters/persistence/models"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/core/services"
	"campus-visitpass/internal/pkg/pagination"
	"campus-visitpass/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequestHandler handles visitor request endpoints
type RequestHandler struct {
	requestService *services.RequestService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// ReviewRequest represents the admin review request body
type ReviewRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

// Submit handles visitor request submission
// @Summary Submit visitor request
// @Description Create a new visitor request in the review queue
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitInput true "Visitor request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /requests [post]
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req, err := h.requestService.Submit(c.Context(), identity.UserID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, domain.ErrInvalidOwner):
			return response.Unauthorized(c, "Account no longer exists")
		default:
			return response.InternalServerError(c, "Failed to submit request")
		}
	}

	return response.Created(c, "Visitor request submitted", fiber.Map{
		"request": req.ToResponse(),
	})
}

// ListMine handles listing the caller's own requests
// @Summary List own requests
// @Description List the caller's visitor requests, newest first
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /requests [get]
func (h *RequestHandler) ListMine(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	requests, err := h.requestService.ListByOwner(c.Context(), identity.UserID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list requests")
	}

	return response.Success(c, "Requests retrieved successfully", fiber.Map{
		"requests": toResponses(requests),
	})
}

// Get handles fetching a single request
// @Summary Get request
// @Description Get one visitor request. Students see only their own
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	req, err := h.requestService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return response.NotFound(c, "Request not found")
		}
		return response.InternalServerError(c, "Failed to get request")
	}

	// Owners see their own; reviewers see everything
	if req.UserID != identity.UserID && !identity.Role.Can(domain.PermReviewRequests) {
		return response.Forbidden(c, "You don't have permission to view this request")
	}

	return response.Success(c, "Request retrieved successfully", fiber.Map{
		"request": req.ToResponse(),
	})
}

// List handles the admin review queue listing
// @Summary List requests for review
// @Description List all visitor requests, optionally filtered by status, paginated
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter (PENDING_REVIEW, APPROVED, REJECTED)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	requests, total, err := h.requestService.List(c.Context(), status, params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to list requests")
	}

	return response.Success(c, "Requests retrieved successfully", fiber.Map{
		"requests":   toResponses(requests),
		"pagination": pagination.GetMeta(params, total),
	})
}

// Review handles the admin approve/reject decision
// @Summary Review request
// @Description Approve or reject a pending visitor request. Approval mints the entry pass
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body ReviewRequest true "Review decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/requests/{id} [patch]
func (h *RequestHandler) Review(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	var body ReviewRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var req *models.VisitorRequest
	switch body.Action {
	case "approve":
		req, err = h.requestService.Approve(c.Context(), uint(id), identity)
	case "reject":
		req, err = h.requestService.Reject(c.Context(), uint(id), identity, body.Reason)
	default:
		return response.BadRequest(c, "Action must be 'approve' or 'reject'")
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.BadRequest(c, "Request has already been reviewed")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to review request")
		}
	}

	message := "Request approved"
	if body.Action == "reject" {
		message = "Request rejected"
	}
	return response.Success(c, message, fiber.Map{
		"request": req.ToResponse(),
	})
}

func toResponses(requests []*models.VisitorRequest) []*models.VisitorRequestResponse {
	responses := make([]*models.VisitorRequestResponse, len(requests))
	for i, req := range requests {
		responses[i] = req.ToResponse()
	}
	return responses
}
