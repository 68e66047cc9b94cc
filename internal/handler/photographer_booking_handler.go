package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
	"github.com/shutterdesk/shutterdesk-api/internal/utils"
)

// PhotographerBookingHandler exposes the photographer's booking workspace:
// the status buckets and the accept/reject/complete transitions.
type PhotographerBookingHandler struct {
	service service.BookingService
	logger  zerolog.Logger
}

// NewPhotographerBookingHandler constructs the handler.
func NewPhotographerBookingHandler(service service.BookingService, logger zerolog.Logger) *PhotographerBookingHandler {
	return &PhotographerBookingHandler{
		service: service,
		logger:  logger.With().Str("component", "photographer_booking_handler").Logger(),
	}
}

// Register wires the photographer booking routes.
func (h *PhotographerBookingHandler) Register(router fiber.Router) {
	router.Get("", h.buckets)
	router.Get("/:id", h.get)
	router.Post("/:id/accept", h.accept)
	router.Post("/:id/reject", h.reject)
	router.Post("/:id/complete", h.complete)
}

func (h *PhotographerBookingHandler) buckets(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	response, err := h.service.Buckets(c.Context(), actor)
	if err != nil {
		if errors.Is(err, service.ErrBookingForbidden) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list bookings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list bookings")
	}
	return utils.SendSuccess(c, "bookings retrieved", response)
}

func (h *PhotographerBookingHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := actorFromContext(c)
	response, err := h.service.GetDetail(c.Context(), actor, id)
	if err != nil {
		return h.mapError(c, err, "failed to fetch booking")
	}
	return utils.SendSuccess(c, "booking retrieved", response)
}

func (h *PhotographerBookingHandler) accept(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := actorFromContext(c)
	response, err := h.service.Accept(c.Context(), actor, id)
	if err != nil {
		return h.mapError(c, err, "failed to accept booking")
	}
	return utils.SendSuccess(c, "booking accepted", response)
}

func (h *PhotographerBookingHandler) reject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.BookingRejectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	response, err := h.service.Reject(c.Context(), actor, id, payload)
	if err != nil {
		if errors.Is(err, models.ErrRejectionReasonMissing) || isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "rejection reason is required")
		}
		return h.mapError(c, err, "failed to reject booking")
	}
	return utils.SendSuccess(c, "booking rejected", response)
}

func (h *PhotographerBookingHandler) complete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.BookingCompleteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	response, err := h.service.Complete(c.Context(), actor, id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoAttachmentSelected):
			return utils.SendError(c, fiber.StatusBadRequest, service.ErrNoAttachmentSelected.Error())
		case errors.Is(err, service.ErrAttachmentNotOwned):
			return utils.SendError(c, fiber.StatusForbidden, service.ErrAttachmentNotOwned.Error())
		default:
			return h.mapError(c, err, "failed to complete booking")
		}
	}
	return utils.SendSuccess(c, "booking completed", response)
}

func (h *PhotographerBookingHandler) mapError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "booking not found")
	case errors.Is(err, service.ErrBookingForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
