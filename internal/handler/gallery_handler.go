package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/zukunftsstadt/contest-api/internal/service"
	"github.com/zukunftsstadt/contest-api/internal/utils"
)

// GalleryHandler exposes the public gallery endpoint.
type GalleryHandler struct {
	service service.GalleryService
	logger  zerolog.Logger
}

// NewGalleryHandler constructs a gallery handler.
func NewGalleryHandler(service service.GalleryService, logger zerolog.Logger) *GalleryHandler {
	return &GalleryHandler{
		service: service,
		logger:  logger.With().Str("component", "gallery_handler").Logger(),
	}
}

// Register wires the gallery route.
func (h *GalleryHandler) Register(router fiber.Router) {
	router.Get("", h.page)
}

func (h *GalleryHandler) page(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}

	rowsPerPage, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	result, err := h.service.Page(c.Context(), page, rowsPerPage)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build gallery page")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build gallery page")
	}

	return utils.SendSuccess(c, "gallery page retrieved", result)
}
