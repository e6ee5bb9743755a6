package handlers

import (
	"github.com/assetindex/asset-index/internal/monitor"
	"github.com/assetindex/asset-index/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// CronHandler exposes the monitor pass to external schedulers. The internal
// ticker and this endpoint share one mutex, so overlapping triggers serialize.
type CronHandler struct {
	Monitor *monitor.Monitor
}

type cronResponse struct {
	Success       bool `json:"success"`
	Processed     int  `json:"processed"`
	Notifications int  `json:"notifications"`
}

// Trigger handles GET /api/cron/monitor
// @Summary Run a monitoring pass
// @Description Evaluate every active user against their check-in schedule and send any due notifications
// @Tags Cron
// @Produce json
// @Success 200 {object} cronResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /cron/monitor [get]
func (h *CronHandler) Trigger(c *fiber.Ctx) error {
	result, err := h.Monitor.RunTick(c.UserContext())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "cron.monitor")
	}

	return c.Status(fiber.StatusOK).JSON(cronResponse{
		Success:       true,
		Processed:     result.Processed,
		Notifications: result.Notifications,
	})
}
