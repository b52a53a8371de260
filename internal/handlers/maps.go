package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/repository"
	"github.com/openfra/fieldsync/internal/utils"
)

// MapsHandler handles offline map cache routes
type MapsHandler struct {
	Repo *repository.MapCacheRepository
}

// PutRegion handles PUT /api/maps/:region
// @Summary Cache a map region
// @Description Store a region-bounded vector tile bundle with expiry
// @Tags Maps
// @Accept json
// @Produce json
// @Param region path string true "Region key"
// @Param entry body models.MapCacheEntry true "Tile bundle"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /maps/{region} [put]
func (h *MapsHandler) PutRegion(c *fiber.Ctx) error {
	region := c.Params("region")
	var entry models.MapCacheEntry
	if err := c.BodyParser(&entry); err != nil {
		return utils.ErrorResponse(c, fmt.Sprintf("Invalid map cache entry: %v", err), fiber.StatusBadRequest, "putRegion")
	}
	if err := h.Repo.Put(region, entry); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "putRegion")
	}
	return utils.SuccessResponse(c, fiber.Map{"ok": true, "region": region}, fiber.StatusOK)
}

// GetRegion handles GET /api/maps/:region
// @Summary Fetch a cached map region
// @Description Return the cached tile bundle; an expired entry is reported as absent
// @Tags Maps
// @Produce json
// @Param region path string true "Region key"
// @Success 200 {object} models.MapCacheEntry
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /maps/{region} [get]
func (h *MapsHandler) GetRegion(c *fiber.Ctx) error {
	region := c.Params("region")
	entry, err := h.Repo.Get(region)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Map region '%s' not cached or expired", region))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getRegion")
	}
	return utils.SuccessResponse(c, entry, fiber.StatusOK)
}
