package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shutterdesk/shutterdesk-api/internal/service"
	"github.com/shutterdesk/shutterdesk-api/internal/utils"
)

// PublicHandler exposes the unauthenticated surface: the photo feed, the
// photographer directory, and public album pages.
type PublicHandler struct {
	photos    service.PhotoService
	albums    service.AlbumService
	directory service.DirectoryService
	feedLimit int
	logger    zerolog.Logger
}

// NewPublicHandler constructs the public handler.
func NewPublicHandler(photos service.PhotoService, albums service.AlbumService, directory service.DirectoryService, feedLimit int, logger zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		photos:    photos,
		albums:    albums,
		directory: directory,
		feedLimit: feedLimit,
		logger:    logger.With().Str("component", "public_handler").Logger(),
	}
}

// Register wires the public routes.
func (h *PublicHandler) Register(router fiber.Router) {
	router.Get("/feed", h.feed)
	router.Get("/photographers", h.photographers)
	router.Get("/photographers/:id/albums", h.photographerAlbums)
	router.Get("/albums/:id", h.albumDetail)
}

func (h *PublicHandler) feed(c *fiber.Ctx) error {
	response, err := h.photos.Feed(c.Context(), h.feedLimit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load feed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load feed")
	}
	return utils.SendSuccess(c, "feed retrieved", response)
}

func (h *PublicHandler) photographers(c *fiber.Ctx) error {
	response, err := h.directory.Photographers(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load directory")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load directory")
	}
	return utils.SendSuccess(c, "photographers retrieved", response)
}

func (h *PublicHandler) photographerAlbums(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	response, err := h.directory.PublicAlbums(c.Context(), id)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load public albums")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load public albums")
	}
	return utils.SendSuccess(c, "albums retrieved", response)
}

func (h *PublicHandler) albumDetail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	response, err := h.albums.PublicDetail(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrAlbumNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "album not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load album")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load album")
	}
	return utils.SendSuccess(c, "album retrieved", response)
}
