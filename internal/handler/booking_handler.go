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

// BookingHandler exposes the client side of bookings: requesting one and
// reviewing your own.
type BookingHandler struct {
	service service.BookingService
	logger  zerolog.Logger
}

// NewBookingHandler constructs the client booking handler.
func NewBookingHandler(service service.BookingService, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger.With().Str("component", "booking_handler").Logger(),
	}
}

// RegisterRequest wires the booking request route under the photographer path.
func (h *BookingHandler) RegisterRequest(router fiber.Router) {
	router.Post("/photographers/:id/book", h.create)
}

// Register wires the client's own booking views.
func (h *BookingHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *BookingHandler) create(c *fiber.Ctx) error {
	photographerID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.BookingCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	response, err := h.service.Create(c.Context(), actor, photographerID, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotographerNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "photographer not found")
		case errors.Is(err, service.ErrBookingForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "only clients can request bookings")
		case errors.Is(err, models.ErrBookingEndBeforeStart),
			errors.Is(err, models.ErrBookingStartInPast),
			isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create booking")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create booking")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "booking requested", response)
}

func (h *BookingHandler) list(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	response, err := h.service.ListForClient(c.Context(), actor)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list bookings")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list bookings")
	}
	return utils.SendSuccess(c, "bookings retrieved", response)
}

func (h *BookingHandler) get(c *fiber.Ctx) error {
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
