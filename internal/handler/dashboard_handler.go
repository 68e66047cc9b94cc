package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/service"
	"github.com/shutterdesk/shutterdesk-api/internal/utils"
)

// DashboardHandler serves the role-scoped dashboard overview. Admins get the
// studio-wide numbers, photographers their own.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register wires the dashboard overview route.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.overview)
}

func (h *DashboardHandler) overview(c *fiber.Ctx) error {
	actor := actorFromContext(c)

	if actor.IsAdmin() {
		response, err := h.service.Admin(c.Context(), actor)
		if err != nil {
			return h.mapError(c, err)
		}
		return utils.SendSuccess(c, "dashboard retrieved", response)
	}

	response, err := h.service.Photographer(c.Context(), actor)
	if err != nil {
		return h.mapError(c, err)
	}
	return utils.SendSuccess(c, "dashboard retrieved", response)
}

func (h *DashboardHandler) mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrDashboardForbidden) {
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
	requestLogger(h.logger, c).Error().Err(err).Msg("failed to load dashboard")
	return utils.SendError(c, fiber.StatusInternalServerError, "failed to load dashboard")
}
