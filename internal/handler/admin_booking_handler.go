package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/service"
	"github.com/shutterdesk/shutterdesk-api/internal/utils"
)

// AdminBookingHandler is the read-only admin overview of all bookings.
type AdminBookingHandler struct {
	service service.BookingService
	logger  zerolog.Logger
}

// NewAdminBookingHandler constructs the handler.
func NewAdminBookingHandler(service service.BookingService, logger zerolog.Logger) *AdminBookingHandler {
	return &AdminBookingHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_booking_handler").Logger(),
	}
}

// Register wires the admin booking routes.
func (h *AdminBookingHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *AdminBookingHandler) list(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	response, err := h.service.ListAll(c.Context(), actor)
	if err != nil {
		if errors.Is(err, service.ErrBookingForbidden) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list bookings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list bookings")
	}
	return utils.SendSuccess(c, "bookings retrieved", response)
}

func (h *AdminBookingHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := actorFromContext(c)
	response, err := h.service.GetDetail(c.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "booking not found")
		case errors.Is(err, service.ErrBookingForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch booking")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch booking")
		}
	}
	return utils.SendSuccess(c, "booking retrieved", response)
}
