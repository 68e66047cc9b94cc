package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
	"github.com/shutterdesk/shutterdesk-api/internal/utils"
)

// ActivityLogHandler exposes the admin audit-trail endpoints.
type ActivityLogHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityLogHandler constructs the handler.
func NewActivityLogHandler(service service.ActivityService, logger zerolog.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_log_handler").Logger(),
	}
}

// Register attaches the activity log routes to the router group.
func (h *ActivityLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/actions", h.actions)
}

func (h *ActivityLogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	perPage, err := parseQueryInt(c, "per_page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if perPage <= 0 {
		perPage = 25
	} else if perPage > 100 {
		perPage = 100
	}

	userID, err := parseQueryInt(c, "user_id")
	if err != nil || userID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user filter")
	}

	req := dto.ActivityLogListRequest{
		UserID:    uint(userID),
		Action:    strings.TrimSpace(c.Query("action")),
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
		Page:      page,
		PerPage:   perPage,
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateFilter) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity logs")
	}
	return utils.SendSuccess(c, "activity logs retrieved", response)
}

func (h *ActivityLogHandler) actions(c *fiber.Ctx) error {
	response, err := h.service.Actions(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity actions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity actions")
	}
	return utils.SendSuccess(c, "activity actions retrieved", response)
}
