package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/dto"
	"github.com/shutterdesk/shutterdesk-api/internal/service"
	"github.com/shutterdesk/shutterdesk-api/internal/utils"
)

// PhotoHandler exposes the dashboard photo management endpoints. Creation is
// a multipart form carrying the image file and its metadata.
type PhotoHandler struct {
	service service.PhotoService
	logger  zerolog.Logger
}

// NewPhotoHandler constructs the photo handler.
func NewPhotoHandler(service service.PhotoService, logger zerolog.Logger) *PhotoHandler {
	return &PhotoHandler{
		service: service,
		logger:  logger.With().Str("component", "photo_handler").Logger(),
	}
}

// Register wires the photo management routes.
func (h *PhotoHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *PhotoHandler) list(c *fiber.Ctx) error {
	actor := actorFromContext(c)
	response, err := h.service.List(c.Context(), actor)
	if err != nil {
		if errors.Is(err, service.ErrPhotoForbidden) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list photos")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list photos")
	}
	return utils.SendSuccess(c, "photos retrieved", response)
}

func (h *PhotoHandler) create(c *fiber.Ctx) error {
	var payload dto.PhotoCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "photo file is required")
	}

	actor := actorFromContext(c)
	response, err := h.service.Create(c.Context(), actor, payload, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlbumNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "album not found")
		case errors.Is(err, service.ErrAlbumForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		case errors.Is(err, service.ErrUploadTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, service.ErrUploadTooLarge.Error())
		case errors.Is(err, service.ErrUploadTypeNotAllowed), errors.Is(err, service.ErrUploadMissing), isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to upload photo")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to upload photo")
		}
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "photo uploaded", response)
}

func (h *PhotoHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := actorFromContext(c)
	response, err := h.service.Get(c.Context(), actor, id)
	if err != nil {
		return h.mapError(c, err, "failed to fetch photo")
	}
	return utils.SendSuccess(c, "photo retrieved", response)
}

func (h *PhotoHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.PhotoUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	response, err := h.service.Update(c.Context(), actor, id, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlbumNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "album not found")
		case errors.Is(err, service.ErrAlbumForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			return h.mapError(c, err, "failed to update photo")
		}
	}
	return utils.SendSuccess(c, "photo updated", response)
}

func (h *PhotoHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	actor := actorFromContext(c)
	if err := h.service.Delete(c.Context(), actor, id); err != nil {
		return h.mapError(c, err, "failed to delete photo")
	}
	return utils.SendSuccess(c, "photo deleted", nil)
}

func (h *PhotoHandler) mapError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrPhotoNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "photo not found")
	case errors.Is(err, service.ErrPhotoForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
