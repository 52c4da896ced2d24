package handlers

import (
	"errors"

	"campus-visitpass/internal/adapters/http/middleware"
	"campus-visitpass/internal/core/domain"
	"campus-visitpass/internal/core/services"
	"campus-visitpass/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// VerifyHandler handles gate verification endpoints
type VerifyHandler struct {
	verifyService *services.VerifyService
}

// NewVerifyHandler creates a new verify handler
func NewVerifyHandler(verifyService *services.VerifyService) *VerifyHandler {
	return &VerifyHandler{verifyService: verifyService}
}

// Verify handles QR pass verification
// @Summary Verify entry pass
// @Description Check a scanned QR payload against live request state. Business failures return valid:false on a 200
// @Tags Verify
// @Accept json
// @Produce json
// @Param qr query string true "Scanned QR payload"
// @Success 200 {object} response.VerifyEnvelope
// @Router /verify-qr [get]
func (h *VerifyHandler) Verify(c *fiber.Ctx) error {
	payload := c.Query("qr")
	if payload == "" {
		return response.VerifyInvalid(c, services.ReasonMalformed)
	}

	result, err := h.verifyService.Verify(c.Context(), payload)
	if err != nil {
		return response.InternalServerError(c, "Verification failed")
	}

	if !result.Valid {
		return response.VerifyInvalid(c, result.Reason)
	}

	return response.VerifyOK(c, fiber.Map{
		"request": result.Request,
		"party":   result.Party,
	})
}

// RecordEvent handles gate check-in/out recording
// @Summary Record gate event
// @Description Record a check-in or check-out for an approved request
// @Tags Verify
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordEventInput true "Gate event"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /qr-action [post]
func (h *VerifyHandler) RecordEvent(c *fiber.Ctx) error {
	identity := middleware.Identity(c)
	if identity == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.RecordEventInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.verifyService.RecordEvent(c.Context(), &input, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.BadRequest(c, "Request is not approved")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to record event")
		}
	}

	return response.Created(c, "Gate event recorded", fiber.Map{
		"event": event,
	})
}

// ListEvents handles listing gate events for a request
// @Summary List gate events
// @Description List recorded check-ins and check-outs for a request
// @Tags Verify
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /qr-action/{id} [get]
func (h *VerifyHandler) ListEvents(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid request ID")
	}

	events, err := h.verifyService.ListEvents(c.Context(), uint(id))
	if err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}

	return response.Success(c, "Events retrieved successfully", fiber.Map{
		"events": events,
	})
}
