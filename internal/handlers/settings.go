package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/repository"
	"github.com/openfra/fieldsync/internal/utils"
)

// SettingsHandler handles user preference routes
type SettingsHandler struct {
	Repo *repository.SettingsRepository
}

// GetSettings handles GET /api/settings
// @Summary Get user settings
// @Description Return the saved preferences, or the defaults when none were saved yet
// @Tags Settings
// @Produce json
// @Success 200 {object} models.Settings
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.Repo.Get()
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			defaults := models.DefaultSettings()
			return utils.SuccessResponse(c, defaults, fiber.StatusOK)
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getSettings")
	}
	return utils.SuccessResponse(c, settings, fiber.StatusOK)
}

// SaveSettings handles POST /api/settings
// @Summary Save user settings
// @Description Overwrite the preference record wholesale
// @Tags Settings
// @Accept json
// @Produce json
// @Param settings body models.Settings true "Settings"
// @Success 200 {object} models.Settings
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /settings [post]
func (h *SettingsHandler) SaveSettings(c *fiber.Ctx) error {
	var settings models.Settings
	if err := c.BodyParser(&settings); err != nil {
		return utils.ErrorResponse(c, fmt.Sprintf("Invalid settings payload: %v", err), fiber.StatusBadRequest, "saveSettings")
	}
	if err := h.Repo.Save(settings); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "saveSettings")
	}
	return utils.SuccessResponse(c, settings, fiber.StatusOK)
}
