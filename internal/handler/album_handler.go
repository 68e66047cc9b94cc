package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
	"github.com/shutterdesk/shutterdesk-api/internal/utils"
)

// AlbumHandler exposes the dashboard album management endpoints.
type AlbumHandler struct {
	service service.AlbumService
	logger  zerolog.Logger
}

// NewAlbumHandler constructs the album handler.
func NewAlbumHandler(service service.AlbumService, logger zerolog.Logger) *AlbumHandler {
	return &AlbumHandler{
		service: service,
		logger:  logger.With().Str("component", "album_handler").Logger(),
	}
}

// Register wires the album management routes.
func (h *AlbumHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/cover", h.uploadCover)
}

func (h *AlbumHandler) list(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	response, err := h.service.List(c.Context(), actor)
	if err != nil {
		if errors.Is(err, service.ErrAlbumForbidden) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list albums")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list albums")
	}
	return utils.SendSuccess(c, "albums retrieved", response)
}

func (h *AlbumHandler) create(c *fiber.Ctx) error {
	var payload dto.AlbumCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	response, err := h.service.Create(c.Context(), actor, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlbumForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create album")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create album")
		}
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "album created", response)
}

func (h *AlbumHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := actorFromContext(c)
	response, err := h.service.Get(c.Context(), actor, id)
	if err != nil {
		return h.mapError(c, err, "failed to fetch album")
	}
	return utils.SendSuccess(c, "album retrieved", response)
}

func (h *AlbumHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AlbumUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	response, err := h.service.Update(c.Context(), actor, id, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.mapError(c, err, "failed to update album")
	}
	return utils.SendSuccess(c, "album updated", response)
}

func (h *AlbumHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := actorFromContext(c)
	if err := h.service.Delete(c.Context(), actor, id); err != nil {
		return h.mapError(c, err, "failed to delete album")
	}
	return utils.SendSuccess(c, "album deleted", nil)
}

func (h *AlbumHandler) uploadCover(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	file, err := c.FormFile("cover")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "cover file is required")
	}

	actor := actorFromContext(c)
	response, err := h.service.UploadCover(c.Context(), actor, id, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, service.ErrUploadTooLarge.Error())
		case errors.Is(err, service.ErrUploadTypeNotAllowed), errors.Is(err, service.ErrUploadMissing):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return h.mapError(c, err, "failed to upload cover")
		}
	}
	return utils.SendSuccess(c, "cover updated", response)
}

func (h *AlbumHandler) mapError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrAlbumNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "album not found")
	case errors.Is(err, service.ErrAlbumForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
