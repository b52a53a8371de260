package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/openfra/fieldsync/internal/netmon"
	"github.com/openfra/fieldsync/internal/repository"
	"github.com/openfra/fieldsync/internal/syncer"
	"github.com/openfra/fieldsync/internal/utils"
)

// SyncHandler handles manual sync triggers and status queries
type SyncHandler struct {
	Coordinator *syncer.Coordinator
	Monitor     *netmon.Monitor
	Claims      *repository.ClaimRepository
}

// TriggerSync handles POST /api/sync
// @Summary Sync now
// @Description Run a sync pass over every eligible claim. Returns 409 when a run is already in flight.
// @Tags Sync
// @Produce json
// @Success 200 {object} syncer.Report
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sync [post]
func (h *SyncHandler) TriggerSync(c *fiber.Ctx) error {
	report, err := h.Coordinator.Sync(c.Context())
	if err != nil {
		if errors.Is(err, syncer.ErrSyncInProgress) {
			return utils.ConflictResponse(c, "Sync already in progress")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "triggerSync")
	}
	return utils.SuccessResponse(c, report, fiber.StatusOK)
}

// Status handles GET /api/sync/status
// @Summary Sync status
// @Description Report connectivity, whether a run is in flight, and claim counts per lifecycle state
// @Tags Sync
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	claims, err := h.Claims.ListAll()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "syncStatus")
	}

	counts := make(map[string]int)
	for _, claim := range claims {
		counts[string(claim.Status)]++
	}

	return utils.SuccessResponse(c, fiber.Map{
		"online":         h.Monitor.Online(),
		"syncInProgress": h.Coordinator.Running(),
		"claims":         counts,
	}, fiber.StatusOK)
}
