package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/openfra/fieldsync/internal/config"
	"github.com/openfra/fieldsync/internal/services"
	"gorm.io/gorm"
)

// HealthHandler exposes the agent health check over HTTP
type HealthHandler struct {
	Cfg *config.Config
	DB  *gorm.DB
}

// Health handles GET /api/health
// @Summary Agent health
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
