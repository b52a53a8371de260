package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/openfra/fieldsync/internal/export"
	"github.com/openfra/fieldsync/internal/models"
	"github.com/openfra/fieldsync/internal/repository"
	"github.com/openfra/fieldsync/internal/utils"
)

// ClaimsHandler handles claim routes for the capture wizard
type ClaimsHandler struct {
	Repo     *repository.ClaimRepository
	Media    *repository.MediaRepository
	Exporter *export.Exporter
}

var validStatuses = map[models.ClaimStatus]bool{
	models.StatusDraft:   true,
	models.StatusReady:   true,
	models.StatusSyncing: true,
	models.StatusSynced:  true,
	models.StatusFailed:  true,
}

var validClaimTypes = map[models.ClaimType]bool{
	models.ClaimTypeIndividual: true,
	models.ClaimTypeCommunity:  true,
	models.ClaimTypeResource:   true,
}

// SaveClaim handles POST /api/claims
// @Summary Save a claim
// @Description Persist a claim, generating an id when none is supplied. Unset fields merge over defaults; saving an existing id overwrites.
// @Tags Claims
// @Accept json
// @Produce json
// @Param claim body models.Claim true "Claim (partial allowed)"
// @Success 200 {object} models.Claim
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /claims [post]
func (h *ClaimsHandler) SaveClaim(c *fiber.Ctx) error {
	var claim models.Claim
	if err := c.BodyParser(&claim); err != nil {
		return utils.ErrorResponse(c, fmt.Sprintf("Invalid claim payload: %v", err), fiber.StatusBadRequest, "saveClaim")
	}
	if claim.Status != "" && !validStatuses[claim.Status] {
		return utils.ErrorResponse(c, fmt.Sprintf("Invalid status %q", claim.Status), fiber.StatusBadRequest, "saveClaim")
	}
	if claim.ClaimType != "" && !validClaimTypes[claim.ClaimType] {
		return utils.ErrorResponse(c, fmt.Sprintf("Invalid claimType %q", claim.ClaimType), fiber.StatusBadRequest, "saveClaim")
	}

	id, err := h.Repo.Save(claim)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "saveClaim")
	}

	saved, err := h.Repo.Get(id)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "saveClaim")
	}
	return utils.SuccessResponse(c, saved, fiber.StatusOK)
}

// ListClaims handles GET /api/claims
// @Summary List all claims
// @Description List every claim ordered by lastModified descending
// @Tags Claims
// @Produce json
// @Success 200 {array} models.Claim
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /claims [get]
func (h *ClaimsHandler) ListClaims(c *fiber.Ctx) error {
	claims, err := h.Repo.ListAll()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listClaims")
	}
	if claims == nil {
		claims = []models.Claim{}
	}
	return utils.SuccessResponse(c, claims, fiber.StatusOK)
}

// GetClaim handles GET /api/claims/:id
// @Summary Get a claim
// @Tags Claims
// @Produce json
// @Param id path string true "Claim ID"
// @Success 200 {object} models.Claim
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /claims/{id} [get]
func (h *ClaimsHandler) GetClaim(c *fiber.Ctx) error {
	id := c.Params("id")
	claim, err := h.Repo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Claim '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getClaim")
	}
	return utils.SuccessResponse(c, claim, fiber.StatusOK)
}

// DeleteClaim handles DELETE /api/claims/:id
// @Summary Delete a claim
// @Description Delete a claim. Media is left in place unless purge=true also removes every referenced attachment.
// @Tags Claims
// @Produce json
// @Param id path string true "Claim ID"
// @Param purge query bool false "Also delete referenced media"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /claims/{id} [delete]
func (h *ClaimsHandler) DeleteClaim(c *fiber.Ctx) error {
	id := c.Params("id")
	claim, err := h.Repo.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Claim '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteClaim")
	}

	purged := 0
	if c.QueryBool("purge") {
		for _, mediaID := range claim.MediaIDs() {
			if err := h.Media.Delete(mediaID); err != nil {
				return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteClaim")
			}
			purged++
		}
	}

	if err := h.Repo.Delete(id); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteClaim")
	}
	return utils.SuccessResponse(c, fiber.Map{"ok": true, "id": id, "purgedMedia": purged}, fiber.StatusOK)
}

// ExportClaim handles GET /api/claims/:id/export
// @Summary Export a claim bundle
// @Description Serialize the claim plus every referenced media binary into one self-contained bundle
// @Tags Claims
// @Produce json
// @Param id path string true "Claim ID"
// @Success 200 {object} export.Bundle
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /claims/{id}/export [get]
func (h *ClaimsHandler) ExportClaim(c *fiber.Ctx) error {
	id := c.Params("id")
	bundle, err := h.Exporter.ExportClaim(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Claim '%s' or referenced media not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "exportClaim")
	}
	return utils.SuccessResponse(c, bundle, fiber.StatusOK)
}
