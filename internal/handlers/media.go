package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/openfra/fieldsync/internal/repository"
	"github.com/openfra/fieldsync/internal/utils"
)

// MediaHandler handles binary attachment routes
type MediaHandler struct {
	Repo *repository.MediaRepository
}

// Upload handles POST /api/media and PUT /api/media/:id
// @Summary Upload a media binary
// @Description Store a binary attachment. The response carries the sha256 checksum for the claim's document entry.
// @Tags Media
// @Accept octet-stream
// @Produce json
// @Param id path string false "Media ID (generated when absent)"
// @Param type query string false "Media type (photo, document, audio)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /media/{id} [put]
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	payload := c.Body()
	if len(payload) == 0 {
		return utils.ErrorResponse(c, "Empty media payload", fiber.StatusBadRequest, "uploadMedia")
	}

	id := c.Params("id")
	if id == "" {
		id = uuid.NewString()
	}
	mediaType := c.Query("type")
	if mediaType == "" {
		mediaType = c.Get(fiber.HeaderContentType, "application/octet-stream")
	}

	if err := h.Repo.Save(id, payload, mediaType); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "uploadMedia")
	}

	return utils.SuccessResponse(c, fiber.Map{
		"id":       id,
		"type":     mediaType,
		"size":     len(payload),
		"checksum": repository.MediaChecksum(payload),
	}, fiber.StatusOK)
}

// GetMedia handles GET /api/media/:id
// @Summary Fetch a media binary
// @Tags Media
// @Produce octet-stream
// @Param id path string true "Media ID"
// @Success 200 {string} binary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /media/{id} [get]
func (h *MediaHandler) GetMedia(c *fiber.Ctx) error {
	id := c.Params("id")
	media, err := h.Repo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Media '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getMedia")
	}
	c.Set(fiber.HeaderContentType, media.Type)
	c.Set("X-Media-Saved-At", media.SavedAt.UTC().Format(time.RFC3339))
	return c.Send(media.Data)
}
